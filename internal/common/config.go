package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Storage     StorageConfig   `toml:"storage"`
	Indexes     IndexesConfig   `toml:"indexes"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Insights    InsightsConfig  `toml:"insights"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// IndexesConfig controls index definition loading and composer policy.
type IndexesConfig struct {
	DefinitionsDir string  `toml:"definitions_dir"` // Directory containing index definition files (TOML)
	MinCoverage    float64 `toml:"min_coverage"`    // Minimum coverage ratio for a computation (default: 0.5)
	RoundingPlaces int32   `toml:"rounding_places"` // Decimal places for the final value (default: 2)
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for insight generation (default: "gemini-3-flash-preview")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "1m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "4s" for 15 RPM)
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.1)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for insight generation (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 1024)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "1m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.1)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

// InsightsConfig controls the insight requester.
type InsightsConfig struct {
	Timeout          string `toml:"timeout"`            // Bound on a single reasoning attempt (default: "30s")
	MaxSummaryLength int    `toml:"max_summary_length"` // Reject summaries longer than this (default: 400)
}

// SchedulerConfig controls periodic recomputation from stored snapshots.
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`  // Disabled by default - user must opt in
	Schedule string `toml:"schedule"` // Cron schedule format (default: every 5 minutes)
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in sentindex.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Indexes: IndexesConfig{
			DefinitionsDir: "./indexes",
			MinCoverage:    0.5,
			RoundingPlaces: 2,
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key
			Model:       "gemini-3-flash-preview",
			Timeout:     "1m",
			RateLimit:   "4s", // 15 RPM for free tier
			Temperature: 0.1,
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   1024,
			Timeout:     "1m",
			RateLimit:   "1s",
			Temperature: 0.1,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Insights: InsightsConfig{
			Timeout:          "30s",
			MaxSummaryLength: 400,
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Schedule: "*/5 * * * *",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SENTINDEX_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("SENTINDEX_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SENTINDEX_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("SENTINDEX_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("SENTINDEX_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Storage configuration
	if badgerPath := os.Getenv("SENTINDEX_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Index configuration
	if dir := os.Getenv("SENTINDEX_INDEX_DEFINITIONS_DIR"); dir != "" {
		config.Indexes.DefinitionsDir = dir
	}
	if minCoverage := os.Getenv("SENTINDEX_MIN_COVERAGE"); minCoverage != "" {
		if mc, err := strconv.ParseFloat(minCoverage, 64); err == nil {
			config.Indexes.MinCoverage = mc
		}
	}

	// API keys (standard env names take precedence over config values)
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}

	// LLM provider selection
	if provider := os.Getenv("SENTINDEX_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Scheduler configuration
	if enabled := os.Getenv("SENTINDEX_SCHEDULER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = e
		}
	}
	if schedule := os.Getenv("SENTINDEX_SCHEDULER_SCHEDULE"); schedule != "" {
		config.Scheduler.Schedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
