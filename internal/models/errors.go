package models

import "fmt"

// Validation error reasons
const (
	ReasonNonPositivePrice = "non_positive_price"
)

// Computation error reasons
const (
	ReasonMissingConfig        = "missing_config"
	ReasonUnsupportedMethod    = "unsupported_method"
	ReasonZeroWeightSum        = "zero_weight_sum"
	ReasonInsufficientCoverage = "insufficient_coverage"
	ReasonNoPriorPeriod        = "no_prior_period"
)

// ValidationError rejects malformed input prices before computation.
type ValidationError struct {
	Reason string `json:"reason"`
	Symbol string `json:"symbol,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("validation failed: %s (symbol %s)", e.Reason, e.Symbol)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// ComputationError rejects a compute request without producing a
// partial result. CoverageRatio is populated for insufficient_coverage.
type ComputationError struct {
	Reason        string  `json:"reason"`
	Detail        string  `json:"detail,omitempty"`
	CoverageRatio float64 `json:"coverage_ratio,omitempty"`
}

func (e *ComputationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("computation failed: %s (%s)", e.Reason, e.Detail)
	}
	return fmt.Sprintf("computation failed: %s", e.Reason)
}
