package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"butler/internal/services"
)

var commandContext = exec.CommandContext

// scaleFilter fits the video within 1920x1080 without ever upscaling and
// forces both output dimensions even, which libx264 with yuv420p requires.
const scaleFilter = "scale=trunc(iw*min(1\\,min(1920/iw\\,1080/ih))/2)*2:trunc(ih*min(1\\,min(1920/iw\\,1080/ih))/2)*2"

// stderrTailLines bounds how much tool output is kept for diagnostics.
const stderrTailLines = 20

// Client defines transcoder behaviour.
type Client interface {
	TranscodeVideo(ctx context.Context, inputPath, outputPath string) error
	TranscodeAudio(ctx context.Context, inputPath, outputPath string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line transcoder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// TranscodeVideo converts inputPath to H.264/AAC at outputPath.
func (c *CLI) TranscodeVideo(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", inputPath,
		"-c:v", "libx264",
		"-crf", "24",
		"-preset", "medium",
		"-vf", scaleFilter,
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "128k",
		outputPath,
	}
	return c.run(ctx, "transcode video", args)
}

// TranscodeAudio converts inputPath to AAC at outputPath.
func (c *CLI) TranscodeAudio(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", inputPath,
		"-vn",
		"-c:a", "aac",
		"-b:a", "128k",
		outputPath,
	}
	return c.run(ctx, "transcode audio", args)
}

func (c *CLI) run(ctx context.Context, operation string, args []string) error {
	if len(args) == 0 {
		return errors.New("ffmpeg args required")
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrTranscode, "ffmpeg", operation, fmt.Sprintf("start %s", c.binary), err)
	}

	tail := make([]string, 0, stderrTailLines)
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if len(tail) == stderrTailLines {
			copy(tail, tail[1:])
			tail = tail[:stderrTailLines-1]
		}
		tail = append(tail, line)
	}
	scanErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		detail := strings.Join(tail, "\n")
		if detail == "" {
			detail = "no tool output captured"
		}
		return services.Wrap(services.ErrTranscode, "ffmpeg", operation, detail, err)
	}
	if scanErr != nil {
		return fmt.Errorf("read ffmpeg output: %w", scanErr)
	}
	return nil
}

var _ Client = (*CLI)(nil)
