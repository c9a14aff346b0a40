// Package testsupport provides shared builders for package tests: configs
// rooted in per-test temp directories, sized sample files, and an open
// manifest store with cleanup registered.
package testsupport

import (
	"path/filepath"
	"testing"

	"butler/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ManifestDir = filepath.Join(base, "manifest")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Remote.AccessKeyID = "test-access"
	cfg.Remote.SecretAccessKey = "test-secret"
	cfg.Remote.Endpoint = "https://example.invalid"
	cfg.Remote.Bucket = "test-bucket"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithLimits overrides the size-confirmation thresholds on the test config.
func WithLimits(videoMB, audioMB int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Limits.VideoMaxMB = videoMB
		cfg.Limits.AudioMaxMB = audioMB
	}
}
