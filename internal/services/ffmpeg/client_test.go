package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"butler/internal/services"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ffmpeg"))
	if cli.binary != "/opt/ffmpeg" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func stubCommand(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string(nil), args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestTranscodeVideoArgs(t *testing.T) {
	var capturedArgs []string
	stubCommand(t, "success", &capturedArgs)

	cli := NewCLI()
	if err := cli.TranscodeVideo(context.Background(), "/media/in.mov", "/tmp/out.mp4"); err != nil {
		t.Fatalf("TranscodeVideo returned error: %v", err)
	}

	joined := strings.Join(capturedArgs, " ")
	for _, fragment := range []string{
		"-c:v libx264",
		"-crf 24",
		"-preset medium",
		"-pix_fmt yuv420p",
		"-c:a aac",
		"-b:a 128k",
		"/media/in.mov",
		"/tmp/out.mp4",
	} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in ffmpeg args %q", fragment, joined)
		}
	}
	if !strings.Contains(joined, "scale=") || !strings.Contains(joined, "1920") || !strings.Contains(joined, "1080") {
		t.Fatalf("expected downscale filter in args %q", joined)
	}
}

func TestTranscodeAudioArgs(t *testing.T) {
	var capturedArgs []string
	stubCommand(t, "success", &capturedArgs)

	cli := NewCLI()
	if err := cli.TranscodeAudio(context.Background(), "/media/in.wav", "/tmp/out.m4a"); err != nil {
		t.Fatalf("TranscodeAudio returned error: %v", err)
	}

	joined := strings.Join(capturedArgs, " ")
	for _, fragment := range []string{"-vn", "-c:a aac", "-b:a 128k", "/tmp/out.m4a"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in ffmpeg args %q", fragment, joined)
		}
	}
	if strings.Contains(joined, "libx264") {
		t.Fatalf("audio transcode must not carry video options: %q", joined)
	}
}

func TestTranscodeFailureCarriesDiagnostics(t *testing.T) {
	stubCommand(t, "failure", nil)

	cli := NewCLI()
	err := cli.TranscodeVideo(context.Background(), "/media/in.mov", "/tmp/out.mp4")
	if err == nil {
		t.Fatal("expected transcode failure")
	}
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected transcode marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "Conversion failed") {
		t.Fatalf("expected stderr diagnostics in error, got %q", err.Error())
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "success":
		fmt.Fprintln(os.Stderr, "frame=  100 fps=25 q=28.0 size=    1024KiB")
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "[libx264 @ 0x0] width not divisible by 2")
		fmt.Fprintln(os.Stderr, "Conversion failed!")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
