package index

import (
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/sentindex/internal/models"
)

// ComputationCore carries the raw outcome of a composer method before
// provenance is attached.
type ComputationCore struct {
	Value          float64
	Method         models.Method
	CoverageRatio  float64
	SymbolsUsed    []string
	SymbolsMissing []string

	usedWeight float64
}

// Recorder assembles the final IndexResult from a computation core and
// the definition snapshot. It is a pure assembly step: it never fails,
// and the result it returns is fully self-describing - an auditor can
// reconstruct exactly which inputs produced the value without
// consulting any other system.
type Recorder struct {
	clock Clock
}

// NewRecorder creates a provenance recorder using the supplied clock.
// A nil clock falls back to time.Now.
func NewRecorder(clock Clock) *Recorder {
	if clock == nil {
		clock = time.Now
	}
	return &Recorder{clock: clock}
}

// Attach stamps the computation with its provenance record. Symbol
// sequences arrive already ordered from the composer; the weights and
// base prices actually consumed are snapshotted so later definition
// edits cannot rewrite history.
func (r *Recorder) Attach(def *models.IndexDefinition, core ComputationCore) *models.IndexResult {
	computedAt := r.clock().UTC()

	weights := make(map[string]float64, len(def.Weights))
	for symbol, weight := range def.Weights {
		weights[symbol] = weight
	}
	basePrices := make(map[string]float64, len(def.BasePrices))
	for symbol, price := range def.BasePrices {
		basePrices[symbol] = price
	}

	symbolsUsed := core.SymbolsUsed
	if symbolsUsed == nil {
		symbolsUsed = []string{}
	}
	symbolsMissing := core.SymbolsMissing
	if symbolsMissing == nil {
		symbolsMissing = []string{}
	}

	return &models.IndexResult{
		IndexName:     def.Name,
		Value:         core.Value,
		Method:        core.Method,
		CoverageRatio: core.CoverageRatio,
		Timestamp:     computedAt,
		Provenance: models.ProvenanceRecord{
			ID:             uuid.New().String(),
			SymbolsUsed:    symbolsUsed,
			SymbolsMissing: symbolsMissing,
			Weights:        weights,
			BasePrices:     basePrices,
			Method:         core.Method,
			ComputedAt:     computedAt,
		},
	}
}
