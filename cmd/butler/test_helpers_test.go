package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"butler/internal/config"
	"butler/internal/deps"
	"butler/internal/remote"
	"butler/internal/services/ffmpeg"
	"butler/internal/testsupport"
)

type cliTestEnv struct {
	manifestDir string
	remote      *testsupport.FakeRemote
	transcoder  *testsupport.FakeTranscoder
}

func setupCLIEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	manifestDir := filepath.Join(t.TempDir(), "butler")
	t.Setenv(config.EnvManifestDir, manifestDir)
	t.Setenv(config.EnvAccessKeyID, "test-access")
	t.Setenv(config.EnvSecretAccessKey, "test-secret")
	t.Setenv(config.EnvEndpoint, "https://example.invalid")
	t.Setenv(config.EnvBucket, "test-bucket")

	return &cliTestEnv{
		manifestDir: manifestDir,
		remote:      testsupport.NewFakeRemote(),
		transcoder:  &testsupport.FakeTranscoder{},
	}
}

// runCLI executes one command invocation with the env's fake collaborators
// wired in. input feeds any interactive prompts.
func (env *cliTestEnv) runCLI(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	var configFlag string
	ctx := newCommandContext(&configFlag)
	ctx.newRemote = func(config.Remote) (remote.Store, error) { return env.remote, nil }
	ctx.newTranscoder = func(*config.Config) ffmpeg.Client { return env.transcoder }
	ctx.newProber = func(*config.Config) ffmpeg.Prober { return nil }
	ctx.checkTools = func(*config.Config) []deps.Status {
		return []deps.Status{{Name: "FFmpeg", Available: true}}
	}

	cmd := buildRootCommand(ctx, &configFlag)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}
