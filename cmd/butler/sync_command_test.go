package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"butler/internal/testsupport"
)

func TestSyncIngestsDirectory(t *testing.T) {
	env := setupCLIEnv(t)
	mediaDir := t.TempDir()
	testsupport.WriteFileContent(t, filepath.Join(mediaDir, "vacation.mp4"), []byte("vacation"))
	testsupport.WriteFileContent(t, filepath.Join(mediaDir, "voiceover.mp3"), []byte("voiceover"))

	out, err := env.runCLI(t, "DM\n", "sync", "--project", "demo", "--dir", mediaDir)
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}
	requireContains(t, out, "Configured project demo with short code DM")
	requireContains(t, out, "DM_VID_0001.mp4")
	requireContains(t, out, "DM_AUD_0001.m4a")
	requireContains(t, out, "Ingested")

	if !env.remote.Has("demo/videos/DM_VID_0001.mp4") {
		t.Fatal("video missing from remote store")
	}
	if !env.remote.Has("demo/audio/DM_AUD_0001.m4a") {
		t.Fatal("audio missing from remote store")
	}
	if _, err := os.Stat(filepath.Join(mediaDir, "vacation.mp4")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("ingested source should be removed")
	}
}

func TestSyncSecondRunDetectsDuplicates(t *testing.T) {
	env := setupCLIEnv(t)
	mediaDir := t.TempDir()
	source := filepath.Join(mediaDir, "clip.mp4")
	testsupport.WriteFileContent(t, source, []byte("clip-content"))

	if _, err := env.runCLI(t, "DM\n", "sync", "--project", "demo", "--dir", mediaDir); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}

	// Same bytes reappear under a different name.
	testsupport.WriteFileContent(t, filepath.Join(mediaDir, "clip-copy.mp4"), []byte("clip-content"))
	out, err := env.runCLI(t, "", "sync", "--project", "demo", "--dir", mediaDir)
	if err != nil {
		t.Fatalf("second sync failed: %v\n%s", err, out)
	}
	requireContains(t, out, "duplicates DM_VID_0001.mp4")
}

func TestSyncPromptsForMissingInputs(t *testing.T) {
	env := setupCLIEnv(t)
	mediaDir := t.TempDir()
	testsupport.WriteFileContent(t, filepath.Join(mediaDir, "clip.mp4"), []byte("clip"))

	input := "demo\n" + mediaDir + "\nDM\n"
	out, err := env.runCLI(t, input, "sync")
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}
	requireContains(t, out, "Project name?")
	requireContains(t, out, "Directory to sync?")
	requireContains(t, out, "DM_VID_0001.mp4")
}

func TestSyncEmptyDirectory(t *testing.T) {
	env := setupCLIEnv(t)
	mediaDir := t.TempDir()

	out, err := env.runCLI(t, "DM\n", "sync", "--project", "demo", "--dir", mediaDir)
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}
	requireContains(t, out, "No media files found")
}

func TestSyncRejectsBadShortCode(t *testing.T) {
	env := setupCLIEnv(t)
	mediaDir := t.TempDir()
	testsupport.WriteFileContent(t, filepath.Join(mediaDir, "clip.mp4"), []byte("clip"))

	_, err := env.runCLI(t, "TOOLONG\n", "sync", "--project", "demo", "--dir", mediaDir)
	if err == nil {
		t.Fatal("expected short code rejection")
	}
	if !strings.Contains(err.Error(), "short code") {
		t.Fatalf("unexpected error: %v", err)
	}
}
