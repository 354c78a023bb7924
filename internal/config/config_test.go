package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval())
	assert.Equal(t, time.Second, cfg.UsageFactorDelay())
	assert.Equal(t, "chatbrain", cfg.Name)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Matching.Threshold, cfg.Matching.Threshold)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
name: testbot
brain:
  tick_interval: 250ms
matching:
  threshold: 0.7
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "testbot", cfg.Name)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval())
	assert.Equal(t, 0.7, cfg.Matching.Threshold)
	// untouched sections keep defaults
	assert.Equal(t, Default().Matching.MaxCombinations, cfg.Matching.MaxCombinations)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("brain: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad tick interval", func(c *Config) { c.Brain.TickInterval = "soon" }},
		{"bad usage delay", func(c *Config) { c.Brain.UsageFactorDelay = "-" }},
		{"threshold above one", func(c *Config) { c.Matching.Threshold = 1.5 }},
		{"negative threshold", func(c *Config) { c.Matching.Threshold = -0.1 }},
		{"confidence above one", func(c *Config) { c.Matching.ConfidenceThreshold = 2 }},
		{"negative combinations", func(c *Config) { c.Matching.MaxCombinations = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.Name = "saved"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "saved", loaded.Name)
	assert.Equal(t, cfg.Matching, loaded.Matching)
}
