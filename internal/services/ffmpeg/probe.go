package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"butler/internal/services"
)

// ProbeResult carries the subset of ffprobe output butler reports.
type ProbeResult struct {
	DurationSeconds float64
	FormatName      string
}

// Prober inspects media files for status output.
type Prober interface {
	Probe(ctx context.Context, path string) (ProbeResult, error)
}

// ProbeCLI wraps the ffprobe command-line tool.
type ProbeCLI struct {
	binary string
}

// NewProbeCLI constructs a prober, defaulting to ffprobe on PATH.
func NewProbeCLI(binary string) *ProbeCLI {
	if binary == "" {
		binary = "ffprobe"
	}
	return &ProbeCLI{binary: binary}
}

// Probe runs ffprobe and extracts container-level metadata.
func (p *ProbeCLI) Probe(ctx context.Context, path string) (ProbeResult, error) {
	args := []string{
		"-hide_banner",
		"-print_format", "json",
		"-show_format",
		path,
	}
	cmd := commandContext(ctx, p.binary, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return ProbeResult{}, services.Wrap(services.ErrTranscode, "ffprobe", "probe", path, err)
	}

	var payload struct {
		Format struct {
			FormatName string `json:"format_name"`
			Duration   string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(output, &payload); err != nil {
		return ProbeResult{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	result := ProbeResult{FormatName: strings.TrimSpace(payload.Format.FormatName)}
	if payload.Format.Duration != "" {
		if seconds, err := strconv.ParseFloat(payload.Format.Duration, 64); err == nil {
			result.DurationSeconds = seconds
		}
	}
	return result, nil
}

var _ Prober = (*ProbeCLI)(nil)
