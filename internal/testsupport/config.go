package testsupport

import (
	"path/filepath"
	"testing"

	"imprint/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Generation.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAssumeDefaults toggles expansion defaults on the test config.
func WithAssumeDefaults(enabled bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Expansion.AssumeDefaults = enabled
	}
}
