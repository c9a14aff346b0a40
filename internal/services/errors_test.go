package services_test

import (
	"errors"
	"strings"
	"testing"

	"butler/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTranscode, "transcoder", "encode video", "ffmpeg exited", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcoder", "encode video", "ffmpeg exited"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutBaseError(t *testing.T) {
	err := services.Wrap(services.ErrInvalidArgument, "rotate", "parse older-than", "not a number", nil)
	if !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument marker, got %v", err)
	}
}

func TestIsFatalClassification(t *testing.T) {
	cases := []struct {
		name   string
		marker error
		fatal  bool
	}{
		{"configuration", services.ErrConfiguration, true},
		{"manifest", services.ErrManifest, true},
		{"io", services.ErrIO, false},
		{"transcode", services.ErrTranscode, false},
		{"remote", services.ErrRemote, false},
	}
	for _, tc := range cases {
		err := services.Wrap(tc.marker, "test", "op", "", nil)
		if got := services.IsFatal(err); got != tc.fatal {
			t.Fatalf("%s: IsFatal = %v, want %v", tc.name, got, tc.fatal)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := services.WithProject(t.Context(), "demo")
	ctx = services.WithFile(ctx, "clip.mp4")
	ctx = services.WithRunID(ctx, "run-1")

	if project, ok := services.ProjectFromContext(ctx); !ok || project != "demo" {
		t.Fatalf("project = %q, %v", project, ok)
	}
	if file, ok := services.FileFromContext(ctx); !ok || file != "clip.mp4" {
		t.Fatalf("file = %q, %v", file, ok)
	}
	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("run id = %q, %v", id, ok)
	}
}
