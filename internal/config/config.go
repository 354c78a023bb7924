package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all chatbrain configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Operation/task scheduling
	Brain BrainConfig `yaml:"brain"`

	// Dictionary matching and intent resolution
	Matching MatchingConfig `yaml:"matching"`

	// Seed data and word persistence
	Store StoreConfig `yaml:"store"`

	// Speech boundary
	Speech SpeechConfig `yaml:"speech"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BrainConfig configures the operation/task scheduler.
type BrainConfig struct {
	TickInterval     string `yaml:"tick_interval"`      // delay between operation passes
	UsageFactorDelay string `yaml:"usage_factor_delay"` // coalescing window for usage recompute
}

// MatchingConfig configures fuzzy lookup and intent resolution.
type MatchingConfig struct {
	Threshold           float64 `yaml:"threshold"`            // minimum CompareText score to keep
	QuickSearch         bool    `yaml:"quick_search"`         // try exact group-key lookup first
	ScoreWorkers        int     `yaml:"score_workers"`        // parallel scoring goroutines
	MaxCombinations     int     `yaml:"max_combinations"`     // cap on explored selection vectors
	ConfidenceThreshold float64 `yaml:"confidence_threshold"` // early-exit confidence
}

// StoreConfig configures seed import and sqlite persistence.
type StoreConfig struct {
	DatabasePath  string `yaml:"database_path"`   // empty disables persistence
	SeedWordsPath string `yaml:"seed_words_path"` // flat JSON array of strings
	WatchSeedFile bool   `yaml:"watch_seed_file"` // reload seed words on change
}

// SpeechConfig configures the Say boundary.
type SpeechConfig struct {
	Enabled   bool   `yaml:"enabled"`
	VoiceCode string `yaml:"voice_code"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`       // debug, info, warn, error
	DebugMode  bool            `yaml:"debug_mode"`  // master toggle - false = no logging
	JSONFormat bool            `yaml:"json_format"` // structured JSON log entries
	Categories map[string]bool `yaml:"categories"`  // per-category toggles
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Name:    "chatbrain",
		Version: "0.1.0",
		Brain: BrainConfig{
			TickInterval:     "100ms",
			UsageFactorDelay: "1s",
		},
		Matching: MatchingConfig{
			Threshold:           0.5,
			QuickSearch:         true,
			ScoreWorkers:        4,
			MaxCombinations:     256,
			ConfidenceThreshold: 0.9,
		},
		Store: StoreConfig{
			SeedWordsPath: filepath.Join(".chatbrain", "default_words.json"),
		},
		Speech: SpeechConfig{
			VoiceCode: "en-US",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath is where Load looks when no path is given on the CLI.
func DefaultPath() string {
	return filepath.Join(".chatbrain", "config.yaml")
}

// Load reads config from the given path, falling back to defaults for
// anything unset. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as yaml.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges and duration syntax.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Brain.TickInterval); err != nil {
		return fmt.Errorf("invalid brain.tick_interval %q: %w", c.Brain.TickInterval, err)
	}
	if _, err := time.ParseDuration(c.Brain.UsageFactorDelay); err != nil {
		return fmt.Errorf("invalid brain.usage_factor_delay %q: %w", c.Brain.UsageFactorDelay, err)
	}
	if c.Matching.Threshold < 0 || c.Matching.Threshold > 1 {
		return fmt.Errorf("matching.threshold must be in [0,1], got %v", c.Matching.Threshold)
	}
	if c.Matching.ConfidenceThreshold < 0 || c.Matching.ConfidenceThreshold > 1 {
		return fmt.Errorf("matching.confidence_threshold must be in [0,1], got %v", c.Matching.ConfidenceThreshold)
	}
	if c.Matching.MaxCombinations < 0 {
		return fmt.Errorf("matching.max_combinations must be >= 0, got %d", c.Matching.MaxCombinations)
	}
	return nil
}

// TickInterval parses brain.tick_interval, defaulting to 100ms.
func (c *Config) TickInterval() time.Duration {
	d, err := time.ParseDuration(c.Brain.TickInterval)
	if err != nil || d <= 0 {
		return 100 * time.Millisecond
	}
	return d
}

// UsageFactorDelay parses brain.usage_factor_delay, defaulting to 1s.
func (c *Config) UsageFactorDelay() time.Duration {
	d, err := time.ParseDuration(c.Brain.UsageFactorDelay)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}
