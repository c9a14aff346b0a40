package rotation

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"butler/internal/logging"
	"butler/internal/manifest"
	"butler/internal/media"
	"butler/internal/services"
	"butler/internal/testsupport"
)

var baseTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type rotationEnv struct {
	store  *manifest.Store
	remote *testsupport.FakeRemote
	engine *Engine
}

func newRotationEnv(t *testing.T) *rotationEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if _, err := store.CreateProject(context.Background(), "demo", "DM"); err != nil {
		t.Fatalf("create project: %v", err)
	}

	remoteStore := testsupport.NewFakeRemote()
	engine := New(store, remoteStore, logging.NewNop())
	engine.now = func() time.Time { return baseTime }
	return &rotationEnv{store: store, remote: remoteStore, engine: engine}
}

// seedAsset uploads a unique object and records it with the given age.
func (env *rotationEnv) seedAsset(t *testing.T, name string, ageDays int) *manifest.Asset {
	t.Helper()

	local := filepath.Join(t.TempDir(), name)
	testsupport.WriteFileContent(t, local, []byte("content-"+name))
	key := "demo/videos/" + name
	if _, err := env.remote.Upload(context.Background(), local, key, "video/mp4"); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	asset, err := env.store.RecordAsset(context.Background(), manifest.RecordAssetParams{
		Project:          "demo",
		Kind:             media.KindVideo,
		SystemFilename:   name,
		OriginalFilename: name,
		ContentHash:      "hash-" + name,
		RemoteKey:        key,
		SizeBytes:        int64(len(name)),
		UploadedAt:       baseTime.AddDate(0, 0, -ageDays),
	})
	if err != nil {
		t.Fatalf("seed asset %s: %v", name, err)
	}
	return asset
}

func TestRotateSelectsByCutoff(t *testing.T) {
	env := newRotationEnv(t)
	old := env.seedAsset(t, "DM_VID_0001.mp4", 100)
	recent := env.seedAsset(t, "DM_VID_0002.mp4", 10)

	outcome, err := env.engine.Rotate(context.Background(), "demo", 90, false)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if len(outcome.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", outcome.Failures)
	}
	if len(outcome.Affected) != 1 || outcome.Affected[0].ID != old.ID {
		t.Fatalf("unexpected affected set: %#v", outcome.Affected)
	}

	archived := outcome.Affected[0]
	if archived.Status != manifest.StatusArchived {
		t.Fatalf("status = %s, want archived", archived.Status)
	}
	if archived.DeletedAt == nil || !archived.DeletedAt.Equal(baseTime) {
		t.Fatalf("deleted_at = %v, want %v", archived.DeletedAt, baseTime)
	}
	if env.remote.Has(old.RemoteKey) {
		t.Fatal("aged object should be gone from the remote store")
	}
	if !env.remote.Has(recent.RemoteKey) {
		t.Fatal("recent object must survive rotation")
	}

	current, err := env.store.GetAssetByID(context.Background(), recent.ID)
	if err != nil {
		t.Fatalf("GetAssetByID failed: %v", err)
	}
	if current.Status != manifest.StatusActive {
		t.Fatalf("recent asset status = %s, want active", current.Status)
	}
}

func TestRotatePerAssetIsolation(t *testing.T) {
	env := newRotationEnv(t)
	first := env.seedAsset(t, "DM_VID_0001.mp4", 120)
	second := env.seedAsset(t, "DM_VID_0002.mp4", 110)
	third := env.seedAsset(t, "DM_VID_0003.mp4", 100)

	deleteErr := services.Wrap(services.ErrRemote, "remote", "delete", "access denied", nil)
	env.remote.DeleteErrs = map[string]error{second.RemoteKey: deleteErr}

	outcome, err := env.engine.Rotate(context.Background(), "demo", 90, false)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if len(outcome.Affected) != 2 {
		t.Fatalf("affected = %d, want 2", len(outcome.Affected))
	}
	if outcome.Affected[0].ID != first.ID || outcome.Affected[1].ID != third.ID {
		t.Fatalf("unexpected affected order: %#v", outcome.Affected)
	}
	if len(outcome.Failures) != 1 || outcome.Failures[0].Asset.ID != second.ID {
		t.Fatalf("unexpected failures: %#v", outcome.Failures)
	}
	if !errors.Is(outcome.Failures[0].Err, services.ErrRemote) {
		t.Fatalf("failure error = %v", outcome.Failures[0].Err)
	}

	// The failed candidate stays active and is picked up again next pass.
	stuck, err := env.store.GetAssetByID(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("GetAssetByID failed: %v", err)
	}
	if stuck.Status != manifest.StatusActive {
		t.Fatalf("failed candidate status = %s, want active", stuck.Status)
	}
	if !env.remote.Has(second.RemoteKey) {
		t.Fatal("failed candidate's object must remain")
	}

	env.remote.DeleteErrs = nil
	outcome, err = env.engine.Rotate(context.Background(), "demo", 90, false)
	if err != nil {
		t.Fatalf("second Rotate failed: %v", err)
	}
	if len(outcome.Affected) != 1 || outcome.Affected[0].ID != second.ID {
		t.Fatalf("retry pass affected: %#v", outcome.Affected)
	}
}

func TestRotateDryRun(t *testing.T) {
	env := newRotationEnv(t)
	old := env.seedAsset(t, "DM_VID_0001.mp4", 100)

	outcome, err := env.engine.Rotate(context.Background(), "demo", 90, true)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if !outcome.DryRun {
		t.Fatal("outcome should be marked dry-run")
	}
	if len(outcome.Affected) != 1 || outcome.Affected[0].ID != old.ID {
		t.Fatalf("unexpected selection: %#v", outcome.Affected)
	}
	if !env.remote.Has(old.RemoteKey) {
		t.Fatal("dry run must not delete remote objects")
	}
	current, err := env.store.GetAssetByID(context.Background(), old.ID)
	if err != nil {
		t.Fatalf("GetAssetByID failed: %v", err)
	}
	if current.Status != manifest.StatusActive {
		t.Fatalf("dry run must not archive, status = %s", current.Status)
	}
}

func TestRotateRejectsInvalidWindow(t *testing.T) {
	env := newRotationEnv(t)
	for _, days := range []int{0, -5} {
		if _, err := env.engine.Rotate(context.Background(), "demo", days, false); !errors.Is(err, services.ErrInvalidArgument) {
			t.Fatalf("days=%d: expected invalid argument, got %v", days, err)
		}
	}
}

func TestRotateRequiresProject(t *testing.T) {
	env := newRotationEnv(t)
	if _, err := env.engine.Rotate(context.Background(), "ghost", 90, false); !errors.Is(err, services.ErrManifest) {
		t.Fatalf("expected manifest error, got %v", err)
	}
}
