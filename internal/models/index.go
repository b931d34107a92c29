package models

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
)

// Method identifies the index calculation algorithm.
type Method string

const (
	// MethodLevelNormalized weights each asset's price relative to its
	// own base price so unit scale never dominates the index.
	MethodLevelNormalized Method = "level_normalized"

	// MethodReturnBased weights each asset's period return and requires
	// the prior period's prices and index value.
	MethodReturnBased Method = "return_based"
)

// WeightSumTolerance is the allowed deviation of the weight sum from 1.0.
const WeightSumTolerance = 1e-6

// ParseMethod validates a method string from an API request.
// An empty string selects the default level-normalized method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "":
		return MethodLevelNormalized, nil
	case MethodLevelNormalized, MethodReturnBased:
		return Method(s), nil
	default:
		return "", &ComputationError{Reason: ReasonUnsupportedMethod, Detail: fmt.Sprintf("unknown method %q", s)}
	}
}

// IndexDefinition is the configuration for a composite index. Definitions
// are loaded from TOML files at startup and are read-only during a
// computation.
type IndexDefinition struct {
	Name       string             `toml:"name" json:"name" validate:"required"`
	BaseLevel  float64            `toml:"base_level" json:"base_level" validate:"required,gt=0"`
	BaseDate   string             `toml:"base_date" json:"base_date" validate:"required"`
	Method     Method             `toml:"method" json:"method" validate:"omitempty,oneof=level_normalized return_based"`
	Weights    map[string]float64 `toml:"weights" json:"weights" validate:"required,min=1"`
	BasePrices map[string]float64 `toml:"base_prices" json:"base_prices" validate:"required,min=1"`
}

var definitionValidator = validator.New()

// Validate checks structural tags plus the cross-field invariants:
// weights and base prices share a key set, weights sum to 1.0 within
// tolerance, and every base price is positive.
func (d *IndexDefinition) Validate() error {
	if d.Method == "" {
		d.Method = MethodLevelNormalized
	}
	if err := definitionValidator.Struct(d); err != nil {
		return fmt.Errorf("index definition %q: %w", d.Name, err)
	}

	if len(d.Weights) != len(d.BasePrices) {
		return fmt.Errorf("index definition %q: weights and base_prices must cover the same symbols", d.Name)
	}

	sum := 0.0
	for symbol, weight := range d.Weights {
		basePrice, ok := d.BasePrices[symbol]
		if !ok {
			return fmt.Errorf("index definition %q: missing base price for %s", d.Name, symbol)
		}
		if basePrice <= 0 || math.IsNaN(basePrice) || math.IsInf(basePrice, 0) {
			return fmt.Errorf("index definition %q: base price for %s must be positive, got %v", d.Name, symbol, basePrice)
		}
		if weight < 0 {
			return fmt.Errorf("index definition %q: weight for %s must be non-negative, got %v", d.Name, symbol, weight)
		}
		sum += weight
	}

	if math.Abs(sum-1.0) > WeightSumTolerance {
		return fmt.Errorf("index definition %q: weights must sum to 1.0, got %v", d.Name, sum)
	}

	return nil
}

// ConfiguredSymbols returns the weighted symbols in sorted order.
func (d *IndexDefinition) ConfiguredSymbols() []string {
	symbols := make([]string, 0, len(d.Weights))
	for symbol := range d.Weights {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// ProvenanceRecord is the audit trail attached to every computed value.
// It snapshots exactly which inputs and method produced the value so a
// downstream auditor never has to consult another system.
type ProvenanceRecord struct {
	ID             string             `json:"id"`
	SymbolsUsed    []string           `json:"symbols_used"`
	SymbolsMissing []string           `json:"symbols_missing"`
	Weights        map[string]float64 `json:"weights"`
	BasePrices     map[string]float64 `json:"base_prices"`
	Method         Method             `json:"method"`
	ComputedAt     time.Time          `json:"computed_at"`
}

// IndexResult is a single computed index value with its provenance.
// Immutable once returned; the pipeline holds no reference to it.
type IndexResult struct {
	IndexName     string           `json:"index_name"`
	Value         float64          `json:"index_value"`
	Method        Method           `json:"method"`
	CoverageRatio float64          `json:"coverage_ratio"`
	Timestamp     time.Time        `json:"timestamp"`
	Provenance    ProvenanceRecord `json:"provenance"`
}
