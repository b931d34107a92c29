package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/models"
)

const validDefinition = `
name = "gsoc"
base_level = 1000.0
base_date = "2025-01-01"

[weights]
GOLD = 0.25
SILVER = 0.25
OIL = 0.20
BTC = 0.15
ETH = 0.15

[base_prices]
GOLD = 1800.0
SILVER = 23.0
OIL = 75.0
BTC = 20000.0
ETH = 1000.0
`

// Test helper - writeDefinition writes a TOML file into dir
func writeDefinition(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write definition file: %v", err)
	}
}

func TestNewServiceLoadsDefinitions(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "gsoc.toml", validDefinition)
	writeDefinition(t, dir, "notes.txt", "not a definition")

	service, err := NewService(dir, arbor.NewLogger())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	names := service.Names()
	if len(names) != 1 || names[0] != "gsoc" {
		t.Errorf("Names() = %v, want [gsoc]", names)
	}

	def, err := service.Get("gsoc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if def.BaseLevel != 1000.0 {
		t.Errorf("Get() base level = %v, want 1000", def.BaseLevel)
	}
	if def.Method != models.MethodLevelNormalized {
		t.Errorf("Get() method = %v, want default level_normalized", def.Method)
	}
	if len(def.Weights) != 5 {
		t.Errorf("Get() weights = %v, want 5 symbols", def.Weights)
	}
}

func TestNewServiceEmptyDirectory(t *testing.T) {
	service, err := NewService(t.TempDir(), arbor.NewLogger())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if len(service.Names()) != 0 {
		t.Errorf("Names() = %v, want empty", service.Names())
	}
}

func TestNewServiceRejectsBadDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "malformed TOML",
			content: "name = [unclosed",
		},
		{
			name: "weights do not sum to one",
			content: `
name = "broken"
base_level = 1000.0
base_date = "2025-01-01"

[weights]
GOLD = 0.5
OIL = 0.2

[base_prices]
GOLD = 1800.0
OIL = 75.0
`,
		},
		{
			name: "weight without base price",
			content: `
name = "broken"
base_level = 1000.0
base_date = "2025-01-01"

[weights]
GOLD = 0.5
OIL = 0.5

[base_prices]
GOLD = 1800.0
SILVER = 23.0
`,
		},
		{
			name: "non-positive base price",
			content: `
name = "broken"
base_level = 1000.0
base_date = "2025-01-01"

[weights]
GOLD = 1.0

[base_prices]
GOLD = 0.0
`,
		},
		{
			name: "unknown method",
			content: `
name = "broken"
base_level = 1000.0
base_date = "2025-01-01"
method = "volume_weighted"

[weights]
GOLD = 1.0

[base_prices]
GOLD = 1800.0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeDefinition(t, dir, "broken.toml", tt.content)

			if _, err := NewService(dir, arbor.NewLogger()); err == nil {
				t.Error("NewService() expected error, got nil")
			}
		})
	}
}

func TestNewServiceRejectsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "a.toml", validDefinition)
	writeDefinition(t, dir, "b.toml", validDefinition)

	if _, err := NewService(dir, arbor.NewLogger()); err == nil {
		t.Error("NewService() expected duplicate-name error, got nil")
	}
}

func TestGetUnknownIndex(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "gsoc.toml", validDefinition)

	service, err := NewService(dir, arbor.NewLogger())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	_, err = service.Get("unknown")
	if !errors.Is(err, interfaces.ErrIndexNotFound) {
		t.Errorf("Get() error = %v, want ErrIndexNotFound", err)
	}
}
