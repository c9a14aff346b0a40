package testsupport

import (
	"testing"

	"butler/internal/config"
	"butler/internal/manifest"
)

// MustOpenStore opens a manifest store against the test config and registers
// cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *manifest.Store {
	t.Helper()

	store, err := manifest.Open(cfg)
	if err != nil {
		t.Fatalf("open manifest store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close manifest store: %v", err)
		}
	})
	return store
}
