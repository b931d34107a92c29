package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// PriceStorage keeps the most recent price snapshot per index, keyed by
// index name. Each upsert replaces the previous snapshot.
type PriceStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewPriceStorage creates a new PriceStorage instance
func NewPriceStorage(db *BadgerDB, logger arbor.ILogger) interfaces.PriceStorage {
	return &PriceStorage{
		db:     db,
		logger: logger,
	}
}

// snapshotKey namespaces price snapshots away from index value rows.
func snapshotKey(indexName string) string {
	return "prices|" + indexName
}

// SetLatest inserts or replaces the snapshot for an index.
func (s *PriceStorage) SetLatest(ctx context.Context, snapshot *models.PriceSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	if err := s.db.Store().Upsert(snapshotKey(snapshot.IndexName), snapshot); err != nil {
		return fmt.Errorf("failed to store price snapshot: %w", err)
	}

	s.logger.Debug().
		Str("index", snapshot.IndexName).
		Int("symbols", len(snapshot.Prices)).
		Msg("Price snapshot stored")

	return nil
}

// Latest returns the snapshot for an index, or ErrNotFound.
func (s *PriceStorage) Latest(ctx context.Context, indexName string) (*models.PriceSnapshot, error) {
	var snapshot models.PriceSnapshot
	err := s.db.Store().Get(snapshotKey(indexName), &snapshot)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get price snapshot: %w", err)
	}
	return &snapshot, nil
}
