package index

import (
	"testing"
	"time"

	"github.com/ternarybob/sentindex/internal/models"
)

func TestRecorderAttach(t *testing.T) {
	at := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)
	recorder := NewRecorder(func() time.Time { return at })
	def := testDefinition()

	core := ComputationCore{
		Value:         1220.72,
		Method:        models.MethodLevelNormalized,
		CoverageRatio: 1.0,
		SymbolsUsed:   []string{"BTC", "ETH", "GOLD", "OIL", "SILVER"},
	}

	result := recorder.Attach(def, core)

	if result.IndexName != def.Name {
		t.Errorf("Attach() index = %v, want %v", result.IndexName, def.Name)
	}
	if result.Timestamp != at {
		t.Errorf("Attach() timestamp = %v, want %v", result.Timestamp, at)
	}
	if result.Provenance.ComputedAt != at {
		t.Errorf("Attach() computed_at = %v, want %v", result.Provenance.ComputedAt, at)
	}
	if result.Provenance.ID == "" {
		t.Error("Attach() provenance ID is empty")
	}
	if result.Provenance.SymbolsMissing == nil {
		t.Error("Attach() symbols_missing is nil, want empty slice")
	}

	// The provenance weights are a snapshot, not a reference.
	result.Provenance.Weights["GOLD"] = 0.99
	if def.Weights["GOLD"] == 0.99 {
		t.Error("Attach() shares the definition's weight map")
	}
}

func TestRecorderAttachDistinctIDs(t *testing.T) {
	recorder := NewRecorder(fixedClock)
	def := testDefinition()
	core := ComputationCore{Value: 1000, Method: models.MethodLevelNormalized}

	first := recorder.Attach(def, core)
	second := recorder.Attach(def, core)

	if first.Provenance.ID == second.Provenance.ID {
		t.Error("Attach() reused a provenance ID across computations")
	}
}

func TestRecorderNilClockFallsBack(t *testing.T) {
	recorder := NewRecorder(nil)
	def := testDefinition()

	before := time.Now().UTC()
	result := recorder.Attach(def, ComputationCore{Value: 1000})
	after := time.Now().UTC()

	if result.Timestamp.Before(before) || result.Timestamp.After(after) {
		t.Errorf("Attach() timestamp %v outside [%v, %v]", result.Timestamp, before, after)
	}
}
