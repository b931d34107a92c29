package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/sentindex/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// IndexValueStorage persists computed index values as an append-only
// time series, one row per (time, index name).
type IndexValueStorage interface {
	// Append stores a computed value row. Rows are never mutated.
	Append(ctx context.Context, record *models.IndexValueRecord) error

	// Latest returns the most recent row for an index, or ErrNotFound.
	Latest(ctx context.Context, indexName string) (*models.IndexValueRecord, error)

	// LatestBefore returns the most recent row at or before t, or
	// ErrNotFound. Used for the 24h delta and the return-based prior
	// period.
	LatestBefore(ctx context.Context, indexName string, t time.Time) (*models.IndexValueRecord, error)

	// History returns up to limit rows for an index, newest first.
	History(ctx context.Context, indexName string, limit int) ([]*models.IndexValueRecord, error)
}

// PriceStorage keeps the most recent price snapshot per index.
type PriceStorage interface {
	SetLatest(ctx context.Context, snapshot *models.PriceSnapshot) error
	Latest(ctx context.Context, indexName string) (*models.PriceSnapshot, error)
}

// StorageManager provides access to all storage services.
type StorageManager interface {
	IndexValueStorage() IndexValueStorage
	PriceStorage() PriceStorage
	Close() error
}
