package interfaces

import (
	"errors"

	"github.com/ternarybob/sentindex/internal/models"
)

// ErrIndexNotFound is returned for an unregistered index name.
var ErrIndexNotFound = errors.New("index not found")

// IndexRegistry provides read access to the index definitions loaded
// at startup. Definitions are immutable during a computation.
type IndexRegistry interface {
	// Get returns the definition for an index name, or ErrIndexNotFound.
	Get(name string) (*models.IndexDefinition, error)

	// Names returns all registered index names in sorted order.
	Names() []string
}
