package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// IndexValueStorage implements the append-only time series of computed
// index values on Badger. Rows are keyed by (index name, time) and are
// never updated after insert.
type IndexValueStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewIndexValueStorage creates a new IndexValueStorage instance
func NewIndexValueStorage(db *BadgerDB, logger arbor.ILogger) interfaces.IndexValueStorage {
	return &IndexValueStorage{
		db:     db,
		logger: logger,
	}
}

// Append stores a computed value row.
func (s *IndexValueStorage) Append(ctx context.Context, record *models.IndexValueRecord) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	if err := s.db.Store().Insert(record.Key(), record); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("value row already exists for %s at %s", record.IndexName, record.Time)
		}
		return fmt.Errorf("failed to append index value: %w", err)
	}

	s.logger.Debug().
		Str("index", record.IndexName).
		Float64("value", record.Value).
		Str("method", string(record.Method)).
		Msg("Index value persisted")

	return nil
}

// Latest returns the most recent row for an index.
func (s *IndexValueStorage) Latest(ctx context.Context, indexName string) (*models.IndexValueRecord, error) {
	var records []models.IndexValueRecord
	query := badgerhold.Where("IndexName").Eq(indexName).SortBy("Time").Reverse().Limit(1)
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to query latest index value: %w", err)
	}
	if len(records) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return &records[0], nil
}

// LatestBefore returns the most recent row at or before t.
func (s *IndexValueStorage) LatestBefore(ctx context.Context, indexName string, t time.Time) (*models.IndexValueRecord, error) {
	var records []models.IndexValueRecord
	query := badgerhold.Where("IndexName").Eq(indexName).
		And("Time").Le(t).
		SortBy("Time").Reverse().Limit(1)
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to query index value before %s: %w", t, err)
	}
	if len(records) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return &records[0], nil
}

// History returns up to limit rows for an index, newest first.
func (s *IndexValueStorage) History(ctx context.Context, indexName string, limit int) ([]*models.IndexValueRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	var records []models.IndexValueRecord
	query := badgerhold.Where("IndexName").Eq(indexName).SortBy("Time").Reverse().Limit(limit)
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to query index value history: %w", err)
	}

	result := make([]*models.IndexValueRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}
