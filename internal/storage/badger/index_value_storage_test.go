package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/common"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/models"
)

// Test helper - newTestManager opens a throwaway database
func newTestManager(t *testing.T) *Manager {
	t.Helper()

	manager, err := NewManager(&common.BadgerConfig{Path: t.TempDir()}, arbor.NewLogger())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		manager.Close()
	})
	return manager
}

// Test helper - testRecord builds a value row at the given time
func testRecord(indexName string, at time.Time, value float64) *models.IndexValueRecord {
	return &models.IndexValueRecord{
		Time:      at,
		IndexName: indexName,
		Value:     value,
		Method:    models.MethodLevelNormalized,
		Provenance: models.ProvenanceRecord{
			ID:         "test-" + at.Format(time.RFC3339),
			Method:     models.MethodLevelNormalized,
			ComputedAt: at,
		},
	}
}

func TestAppendAndLatest(t *testing.T) {
	manager := newTestManager(t)
	storage := manager.IndexValueStorage()
	ctx := context.Background()

	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	for i, value := range []float64{1000.0, 1010.5, 998.2} {
		record := testRecord("gsoc", base.Add(time.Duration(i)*time.Hour), value)
		if err := storage.Append(ctx, record); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	latest, err := storage.Latest(ctx, "gsoc")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.Value != 998.2 {
		t.Errorf("Latest() value = %v, want 998.2", latest.Value)
	}
	if latest.Provenance.ID == "" {
		t.Error("Latest() lost the provenance payload")
	}
}

func TestAppendRejectsDuplicateRow(t *testing.T) {
	manager := newTestManager(t)
	storage := manager.IndexValueStorage()
	ctx := context.Background()

	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	if err := storage.Append(ctx, testRecord("gsoc", at, 1000.0)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := storage.Append(ctx, testRecord("gsoc", at, 1001.0)); err == nil {
		t.Error("Append() accepted a duplicate (time, index) row")
	}
}

func TestLatestUnknownIndex(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.IndexValueStorage().Latest(context.Background(), "missing")
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Latest() error = %v, want ErrNotFound", err)
	}
}

func TestLatestBefore(t *testing.T) {
	manager := newTestManager(t)
	storage := manager.IndexValueStorage()
	ctx := context.Background()

	base := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		record := testRecord("gsoc", base.Add(time.Duration(i)*12*time.Hour), 1000+float64(i))
		if err := storage.Append(ctx, record); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	// Rows at 00:00, 12:00, 24:00, 36:00. The most recent at or before
	// 24h after base is the 24:00 row.
	record, err := storage.LatestBefore(ctx, "gsoc", base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("LatestBefore() error = %v", err)
	}
	if record.Value != 1002 {
		t.Errorf("LatestBefore() value = %v, want 1002", record.Value)
	}

	_, err = storage.LatestBefore(ctx, "gsoc", base.Add(-time.Minute))
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("LatestBefore() before first row error = %v, want ErrNotFound", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	manager := newTestManager(t)
	storage := manager.IndexValueStorage()
	ctx := context.Background()

	base := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		record := testRecord("gsoc", base.Add(time.Duration(i)*time.Hour), 1000+float64(i))
		if err := storage.Append(ctx, record); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	// A second index must not leak into gsoc history.
	if err := storage.Append(ctx, testRecord("other", base, 555)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	records, err := storage.History(ctx, "gsoc", 3)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("History() returned %d rows, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Time.After(records[i-1].Time) {
			t.Errorf("History() rows not newest first: %v after %v", records[i].Time, records[i-1].Time)
		}
	}
	if records[0].Value != 1004 {
		t.Errorf("History() first value = %v, want 1004", records[0].Value)
	}
}

func TestPriceStorageRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	storage := manager.PriceStorage()
	ctx := context.Background()

	snapshot := &models.PriceSnapshot{
		IndexName:  "gsoc",
		Prices:     models.PriceSet{"GOLD": 1900.12, "BTC": 27450.0},
		ObservedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
	}
	if err := storage.SetLatest(ctx, snapshot); err != nil {
		t.Fatalf("SetLatest() error = %v", err)
	}

	got, err := storage.Latest(ctx, "gsoc")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got.Prices["GOLD"] != 1900.12 {
		t.Errorf("Latest() GOLD = %v, want 1900.12", got.Prices["GOLD"])
	}

	// Upsert replaces the previous snapshot.
	snapshot.Prices = models.PriceSet{"GOLD": 1950.0}
	if err := storage.SetLatest(ctx, snapshot); err != nil {
		t.Fatalf("SetLatest() error = %v", err)
	}
	got, err = storage.Latest(ctx, "gsoc")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(got.Prices) != 1 || got.Prices["GOLD"] != 1950.0 {
		t.Errorf("Latest() after upsert = %v", got.Prices)
	}

	_, err = storage.Latest(ctx, "missing")
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Latest() unknown index error = %v, want ErrNotFound", err)
	}
}
