package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"butler/internal/config"
	"butler/internal/manifest"
	"butler/internal/media"
	"butler/internal/testsupport"
)

// seedAgedAsset records an asset uploaded ageDays ago, with a matching
// object in the fake remote, then releases the manifest lock.
func seedAgedAsset(t *testing.T, env *cliTestEnv, name string, ageDays int) {
	t.Helper()

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store, err := manifest.Open(cfg)
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	defer store.Close()

	bgCtx := context.Background()
	if existing, err := store.GetProject(bgCtx, "demo"); err != nil {
		t.Fatalf("get project: %v", err)
	} else if existing == nil {
		if _, err := store.CreateProject(bgCtx, "demo", "DM"); err != nil {
			t.Fatalf("create project: %v", err)
		}
	}

	local := filepath.Join(t.TempDir(), name)
	testsupport.WriteFileContent(t, local, []byte("content-"+name))
	key := "demo/videos/" + name
	if _, err := env.remote.Upload(bgCtx, local, key, "video/mp4"); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	if _, err := store.RecordAsset(bgCtx, manifest.RecordAssetParams{
		Project:          "demo",
		Kind:             media.KindVideo,
		SystemFilename:   name,
		OriginalFilename: name,
		ContentHash:      "hash-" + name,
		RemoteKey:        key,
		SizeBytes:        int64(len(name)),
		UploadedAt:       time.Now().UTC().AddDate(0, 0, -ageDays),
	}); err != nil {
		t.Fatalf("record asset: %v", err)
	}
}

func TestRotateArchivesAgedAssets(t *testing.T) {
	env := setupCLIEnv(t)
	seedAgedAsset(t, env, "DM_VID_0001.mp4", 120)
	seedAgedAsset(t, env, "DM_VID_0002.mp4", 10)

	out, err := env.runCLI(t, "", "rotate", "--project", "demo", "--older-than", "90")
	if err != nil {
		t.Fatalf("rotate failed: %v\n%s", err, out)
	}
	requireContains(t, out, "Archived DM_VID_0001.mp4")
	requireContains(t, out, "Archived 1 asset(s), 0 failure(s)")

	if env.remote.Has("demo/videos/DM_VID_0001.mp4") {
		t.Fatal("aged object should be deleted")
	}
	if !env.remote.Has("demo/videos/DM_VID_0002.mp4") {
		t.Fatal("recent object should survive")
	}
}

func TestRotateDryRunReportsOnly(t *testing.T) {
	env := setupCLIEnv(t)
	seedAgedAsset(t, env, "DM_VID_0001.mp4", 120)

	out, err := env.runCLI(t, "", "rotate", "--project", "demo", "--dry-run")
	if err != nil {
		t.Fatalf("rotate failed: %v\n%s", err, out)
	}
	requireContains(t, out, "Would archive DM_VID_0001.mp4")

	if !env.remote.Has("demo/videos/DM_VID_0001.mp4") {
		t.Fatal("dry run must not delete")
	}
}

func TestRotateNothingToDo(t *testing.T) {
	env := setupCLIEnv(t)
	seedAgedAsset(t, env, "DM_VID_0001.mp4", 10)

	out, err := env.runCLI(t, "", "rotate", "--project", "demo")
	if err != nil {
		t.Fatalf("rotate failed: %v\n%s", err, out)
	}
	requireContains(t, out, "No assets older than 90 day(s)")
}

func TestRotateRejectsInvalidWindow(t *testing.T) {
	env := setupCLIEnv(t)
	seedAgedAsset(t, env, "DM_VID_0001.mp4", 120)

	if _, err := env.runCLI(t, "", "rotate", "--project", "demo", "--older-than", "0"); err == nil {
		t.Fatal("expected error for zero retention window")
	}
}

func TestRotateRequiresProjectFlag(t *testing.T) {
	env := setupCLIEnv(t)
	if _, err := env.runCLI(t, "", "rotate"); err == nil {
		t.Fatal("expected error without --project")
	}
}
