package index

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/models"
)

// Clock supplies the current time to the pipeline. It is an injected
// capability so computations are reproducible in tests; no component
// reads a global clock directly.
type Clock func() time.Time

// DefaultMinCoverage is the coverage threshold used when the caller
// supplies none.
const DefaultMinCoverage = 0.5

// DefaultRoundingPlaces is the number of decimal places in the final
// value.
const DefaultRoundingPlaces = 2

// ComputeOptions selects the method and policy for a single computation.
// For the return-based method the caller supplies the prior period's
// prices and index value, fetched once from the value store - the
// composer itself holds no state across calls.
type ComputeOptions struct {
	Method         models.Method
	MinCoverage    float64 // 0 means DefaultMinCoverage
	RoundingPlaces int32   // 0 means DefaultRoundingPlaces
	PrevPrices     models.PriceSet
	PrevValue      float64
	HasPrior       bool
}

// Composer computes composite index values. It is stateless and
// side-effect-free; every call receives all inputs explicitly and
// returns a freshly constructed result.
type Composer struct {
	recorder *Recorder
	logger   arbor.ILogger
}

// NewComposer creates a composer that stamps results through the given
// provenance recorder.
func NewComposer(recorder *Recorder, logger arbor.ILogger) *Composer {
	return &Composer{
		recorder: recorder,
		logger:   logger,
	}
}

// Compute calculates the composite index value for a definition and a
// normalized price set. It fails with a ComputationError for a missing
// definition, unsupported method, zero weight sum, insufficient
// coverage, or a missing prior period (return-based only). No partial
// result is ever returned.
func (c *Composer) Compute(def *models.IndexDefinition, prices models.PriceSet, opts ComputeOptions) (*models.IndexResult, error) {
	if def == nil {
		return nil, &models.ComputationError{Reason: models.ReasonMissingConfig, Detail: "no index definition supplied"}
	}

	method := opts.Method
	if method == "" {
		method = models.MethodLevelNormalized
	}

	totalWeight := 0.0
	for _, weight := range def.Weights {
		totalWeight += weight
	}
	if totalWeight <= 0 {
		return nil, &models.ComputationError{Reason: models.ReasonZeroWeightSum, Detail: fmt.Sprintf("index %q has zero configured weight", def.Name)}
	}

	var core ComputationCore
	var err error
	switch method {
	case models.MethodLevelNormalized:
		core, err = c.computeLevelNormalized(def, prices)
	case models.MethodReturnBased:
		core, err = c.computeReturnBased(def, prices, opts)
	default:
		return nil, &models.ComputationError{Reason: models.ReasonUnsupportedMethod, Detail: fmt.Sprintf("unknown method %q", method)}
	}
	if err != nil {
		return nil, err
	}

	// Full coverage is exactly 1.0; summation order must not leak an
	// off-by-one-ulp ratio when nothing is missing.
	if len(core.SymbolsMissing) == 0 {
		core.CoverageRatio = 1.0
	} else {
		core.CoverageRatio = core.usedWeight / totalWeight
	}

	minCoverage := opts.MinCoverage
	if minCoverage <= 0 {
		minCoverage = DefaultMinCoverage
	}
	if core.CoverageRatio < minCoverage {
		return nil, &models.ComputationError{
			Reason:        models.ReasonInsufficientCoverage,
			Detail:        fmt.Sprintf("coverage %.4f below threshold %.4f", core.CoverageRatio, minCoverage),
			CoverageRatio: core.CoverageRatio,
		}
	}

	// Round exactly once, after all accumulation, half-to-even.
	places := opts.RoundingPlaces
	if places <= 0 {
		places = DefaultRoundingPlaces
	}
	core.Value = roundHalfEven(core.Value, places)
	core.Method = method

	result := c.recorder.Attach(def, core)

	c.logger.Debug().
		Str("index", def.Name).
		Str("method", string(method)).
		Float64("value", result.Value).
		Float64("coverage", result.CoverageRatio).
		Int("symbols_used", len(result.Provenance.SymbolsUsed)).
		Msg("Index computed")

	return result, nil
}

// computeLevelNormalized normalizes each asset to its base price so
// different price magnitudes don't dominate the index:
// value = sum((price / base_price) * weight) * base_level
func (c *Composer) computeLevelNormalized(def *models.IndexDefinition, prices models.PriceSet) (ComputationCore, error) {
	core := ComputationCore{}

	for _, symbol := range def.ConfiguredSymbols() {
		price, ok := prices[symbol]
		if !ok {
			core.SymbolsMissing = append(core.SymbolsMissing, symbol)
			continue
		}

		weight := def.Weights[symbol]
		core.Value += (price / def.BasePrices[symbol]) * weight
		core.usedWeight += weight
		core.SymbolsUsed = append(core.SymbolsUsed, symbol)
	}

	core.Value *= def.BaseLevel
	return core, nil
}

// computeReturnBased applies weights to period returns and accumulates
// onto the prior index level:
// value = prev_value * (1 + sum(weight * (price_now - price_prev) / price_prev))
func (c *Composer) computeReturnBased(def *models.IndexDefinition, prices models.PriceSet, opts ComputeOptions) (ComputationCore, error) {
	if !opts.HasPrior || len(opts.PrevPrices) == 0 {
		return ComputationCore{}, &models.ComputationError{
			Reason: models.ReasonNoPriorPeriod,
			Detail: fmt.Sprintf("no prior period available for index %q", def.Name),
		}
	}

	core := ComputationCore{}
	weightedReturn := 0.0

	for _, symbol := range def.ConfiguredSymbols() {
		priceNow, okNow := prices[symbol]
		pricePrev, okPrev := opts.PrevPrices[symbol]
		if !okNow || !okPrev || pricePrev <= 0 {
			core.SymbolsMissing = append(core.SymbolsMissing, symbol)
			continue
		}

		weight := def.Weights[symbol]
		weightedReturn += weight * ((priceNow - pricePrev) / pricePrev)
		core.usedWeight += weight
		core.SymbolsUsed = append(core.SymbolsUsed, symbol)
	}

	core.Value = opts.PrevValue * (1 + weightedReturn)
	return core, nil
}

// Delta24hPct computes the percentage change against a value from the
// prior 24h window, rounded to 2 decimal places. Returns 0 when no
// valid prior value exists.
func Delta24hPct(current, prev24h float64) float64 {
	if prev24h <= 0 {
		return 0
	}
	return roundHalfEven((current-prev24h)/prev24h*100, 2)
}

// roundHalfEven rounds v to the given decimal places using banker's
// rounding. Intermediate sums keep full float64 precision; this is the
// single rounding step in a computation.
func roundHalfEven(v float64, places int32) float64 {
	rounded, _ := decimal.NewFromFloat(v).RoundBank(places).Float64()
	return rounded
}
