package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/common"
	"github.com/ternarybob/sentindex/internal/interfaces"
)

// Manager provides access to all Badger-backed storage services.
type Manager struct {
	db          *BadgerDB
	indexValues interfaces.IndexValueStorage
	prices      interfaces.PriceStorage
	logger      arbor.ILogger
}

// NewManager opens the database and wires the storage services.
func NewManager(config *common.BadgerConfig, logger arbor.ILogger) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize badger storage: %w", err)
	}

	return &Manager{
		db:          db,
		indexValues: NewIndexValueStorage(db, logger),
		prices:      NewPriceStorage(db, logger),
		logger:      logger,
	}, nil
}

// IndexValueStorage returns the index value time series storage.
func (m *Manager) IndexValueStorage() interfaces.IndexValueStorage {
	return m.indexValues
}

// PriceStorage returns the price snapshot storage.
func (m *Manager) PriceStorage() interfaces.PriceStorage {
	return m.prices
}

// Close closes the database connection.
func (m *Manager) Close() error {
	m.logger.Debug().Msg("Closing storage manager")
	return m.db.Close()
}

// Interface guard
var _ interfaces.StorageManager = (*Manager)(nil)
