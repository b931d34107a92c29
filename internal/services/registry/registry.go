// Package registry loads index definitions from a directory of TOML
// files at startup and serves them read-only to the rest of the
// pipeline.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/models"
)

// Service implements interfaces.IndexRegistry. Definitions are loaded
// once and never mutated, so reads need no locking.
type Service struct {
	definitions map[string]*models.IndexDefinition
	logger      arbor.ILogger
}

// NewService loads all *.toml definition files from dir. Files that
// fail to parse or validate abort startup - a bad definition must never
// silently produce wrong index values.
func NewService(dir string, logger arbor.ILogger) (*Service, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read index definitions directory %s: %w", dir, err)
	}

	definitions := make(map[string]*models.IndexDefinition)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read index definition %s: %w", path, err)
		}

		var def models.IndexDefinition
		if err := toml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse index definition %s: %w", path, err)
		}

		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid index definition %s: %w", path, err)
		}

		if _, exists := definitions[def.Name]; exists {
			return nil, fmt.Errorf("duplicate index definition %q in %s", def.Name, path)
		}

		definitions[def.Name] = &def
		logger.Debug().
			Str("index", def.Name).
			Str("file", entry.Name()).
			Int("symbols", len(def.Weights)).
			Msg("Loaded index definition")
	}

	logger.Info().Int("count", len(definitions)).Str("dir", dir).Msg("Index definitions loaded")

	return &Service{
		definitions: definitions,
		logger:      logger,
	}, nil
}

// Get returns the definition for an index name.
func (s *Service) Get(name string) (*models.IndexDefinition, error) {
	def, ok := s.definitions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrIndexNotFound, name)
	}
	return def, nil
}

// Names returns all registered index names in sorted order.
func (s *Service) Names() []string {
	names := make([]string, 0, len(s.definitions))
	for name := range s.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Interface guard
var _ interfaces.IndexRegistry = (*Service)(nil)
