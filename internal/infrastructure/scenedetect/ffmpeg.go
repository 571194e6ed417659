// Package scenedetect finds scene boundaries by running ffmpeg's scene
// change filter over the input file and parsing the reported cut times.
package scenedetect

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"sort"
	"strconv"

	"github.com/hszk-dev/keyva/internal/keyframe"
)

// Config holds configuration for the ffmpeg-based scene detector.
type Config struct {
	// FFmpegPath is the path to the ffmpeg binary.
	// If empty, "ffmpeg" will be used (assumes it's in PATH).
	FFmpegPath string
}

// DefaultConfig returns a Config with production-ready defaults.
func DefaultConfig() Config {
	return Config{
		FFmpegPath: "ffmpeg",
	}
}

// Detector implements keyframe.SceneDetector using the ffmpeg CLI.
type Detector struct {
	config Config
}

// Compile-time verification that Detector implements keyframe.SceneDetector.
var _ keyframe.SceneDetector = (*Detector)(nil)

// NewDetector creates a new ffmpeg-based scene detector.
func NewDetector(cfg Config) *Detector {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	return &Detector{
		config: cfg,
	}
}

// ptsTimeRe matches the pts_time token ffmpeg's metadata filter prints for
// every frame that passed the scene filter.
var ptsTimeRe = regexp.MustCompile(`pts_time:([0-9]+(?:\.[0-9]+)?)`)

// Detect runs ffmpeg's select=gt(scene,threshold) filter over the video and
// converts the reported cut timestamps into contiguous scene boundaries.
// Scenes shorter than minSceneLenFrames are merged into their successor.
func (d *Detector) Detect(ctx context.Context, video *keyframe.Video, threshold float64, minSceneLenFrames int) ([]keyframe.Boundary, error) {
	args := d.buildDetectArgs(video.Path(), threshold)

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil // Discard stderr (ffmpeg outputs progress there)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("scene detection cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	cuts := parseCutTimes(stdout.Bytes())
	return buildBoundaries(cuts, video.Duration(), video.FPS(), video.TotalFrames(), minSceneLenFrames), nil
}

// buildDetectArgs constructs the ffmpeg command arguments. The metadata
// filter prints pts_time for every frame the select filter let through, and
// the null muxer discards the decoded frames themselves.
func (d *Detector) buildDetectArgs(inputPath string, threshold float64) []string {
	sceneFilter := fmt.Sprintf("select=gt(scene\\,%g),metadata=print:file=-", threshold)

	return []string{
		"-i", inputPath,
		"-vf", sceneFilter,
		"-an",
		"-f", "null",
		"-",
	}
}

// parseCutTimes extracts the cut timestamps from ffmpeg's metadata output,
// sorted ascending with duplicates removed.
func parseCutTimes(output []byte) []float64 {
	matches := ptsTimeRe.FindAllSubmatch(output, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[float64]struct{}, len(matches))
	cuts := make([]float64, 0, len(matches))
	for _, m := range matches {
		ts, err := strconv.ParseFloat(string(m[1]), 64)
		if err != nil {
			continue
		}
		if _, ok := seen[ts]; ok {
			continue
		}
		seen[ts] = struct{}{}
		cuts = append(cuts, ts)
	}
	sort.Float64s(cuts)
	return cuts
}

// buildBoundaries converts sorted cut timestamps into contiguous boundaries
// covering [0, duration). A cut closer than minSceneLenFrames to the previous
// boundary start is dropped, which merges the short scene into its neighbor.
func buildBoundaries(cuts []float64, duration, fps float64, totalFrames, minSceneLenFrames int) []keyframe.Boundary {
	if duration <= 0 {
		return nil
	}

	minSceneSec := 0.0
	if minSceneLenFrames > 0 && fps > 0 {
		minSceneSec = float64(minSceneLenFrames) / fps
	}

	starts := []float64{0}
	for _, cut := range cuts {
		if cut <= starts[len(starts)-1]+minSceneSec {
			continue
		}
		if cut >= duration {
			break
		}
		starts = append(starts, cut)
	}

	boundaries := make([]keyframe.Boundary, 0, len(starts))
	for i, startSec := range starts {
		endSec := duration
		if i+1 < len(starts) {
			endSec = starts[i+1]
		}

		startFrame := int(math.Round(startSec * fps))
		endFrame := int(math.Round(endSec * fps))
		if totalFrames > 0 && endFrame > totalFrames {
			endFrame = totalFrames
		}

		boundaries = append(boundaries, keyframe.Boundary{
			StartFrame: startFrame,
			EndFrame:   endFrame,
			StartSec:   startSec,
			EndSec:     endSec,
		})
	}
	return boundaries
}
