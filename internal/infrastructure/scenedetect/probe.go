package scenedetect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/hszk-dev/keyva/internal/keyframe"
)

// ProbeConfig holds configuration for the ffprobe-based stream prober.
type ProbeConfig struct {
	// FFProbePath is the path to the ffprobe binary.
	// If empty, "ffprobe" will be used (assumes it's in PATH).
	FFProbePath string
}

// FFProbe implements keyframe.Prober using the ffprobe CLI. It is the
// second opinion consulted when the decoder reports no usable frame rate.
type FFProbe struct {
	config ProbeConfig
}

// Compile-time verification that FFProbe implements keyframe.Prober.
var _ keyframe.Prober = (*FFProbe)(nil)

// NewFFProbe creates a new ffprobe-based prober.
func NewFFProbe(cfg ProbeConfig) *FFProbe {
	if cfg.FFProbePath == "" {
		cfg.FFProbePath = "ffprobe"
	}
	return &FFProbe{
		config: cfg,
	}
}

// probeOutput mirrors the subset of ffprobe's JSON output we consume.
type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe runs ffprobe against path and extracts the frame rate and duration
// of the first video stream.
func (p *FFProbe) Probe(ctx context.Context, path string) (keyframe.ProbeInfo, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	cmd := exec.CommandContext(ctx, p.config.FFProbePath, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return keyframe.ProbeInfo{}, fmt.Errorf("probe cancelled: %w", ctx.Err())
		}
		return keyframe.ProbeInfo{}, fmt.Errorf("ffprobe execution failed: %w", err)
	}

	var out probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return keyframe.ProbeInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := keyframe.ProbeInfo{}
	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		info.FPS = parseRate(s.AvgFrameRate)
		if info.FPS <= 0 {
			info.FPS = parseRate(s.RFrameRate)
		}
		if d, err := strconv.ParseFloat(s.Duration, 64); err == nil {
			info.DurationSec = d
		}
		break
	}

	if info.DurationSec <= 0 {
		if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
			info.DurationSec = d
		}
	}

	if info.FPS <= 0 && info.DurationSec <= 0 {
		return keyframe.ProbeInfo{}, fmt.Errorf("no video stream metadata in %s", path)
	}
	return info, nil
}

// parseRate converts ffprobe's rational frame rate ("30000/1001") or plain
// decimal ("25") into a float. Returns 0 when the value is unusable.
func parseRate(rate string) float64 {
	if rate == "" || rate == "0/0" {
		return 0
	}

	num, den, found := strings.Cut(rate, "/")
	if !found {
		f, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return 0
		}
		return f
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
