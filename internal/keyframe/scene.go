package keyframe

import (
	"context"
	"log/slog"
	"math"
)

// Boundary is one raw (start, end) range reported by a scene detector.
// Both endpoints carry a frame index and a timestamp in seconds.
type Boundary struct {
	StartFrame int
	EndFrame   int
	StartSec   float64
	EndSec     float64
}

// SceneDetector finds visually distinct, non-overlapping ranges in a video.
// Implementations are external; detection failure routes the run into the
// whole-video fallback path.
type SceneDetector interface {
	Detect(ctx context.Context, video *Video, threshold float64, minSceneLenFrames int) ([]Boundary, error)
}

// Scene is a contiguous, non-overlapping frame range judged visually
// distinct. Immutable once produced by the segmenter.
type Scene struct {
	Number     int // 1-based, assigned in detection order
	StartFrame int
	EndFrame   int // exclusive
	StartSec   float64
	EndSec     float64
}

// DurationSec returns the scene length in seconds.
func (s Scene) DurationSec() float64 { return s.EndSec - s.StartSec }

// FrameSpan returns the number of frames the scene covers.
func (s Scene) FrameSpan() int { return s.EndFrame - s.StartFrame }

// minSceneDurationSec filters zero-length artifacts, including those created
// by clamping a scene end to the known frame count.
const minSceneDurationSec = 0.001

// Segmenter normalizes detector output into a usable scene list.
type Segmenter struct {
	detector SceneDetector
}

// NewSegmenter creates a Segmenter over the given detector.
func NewSegmenter(detector SceneDetector) *Segmenter {
	return &Segmenter{detector: detector}
}

// Scenes runs detection and normalizes the result.
//
// A detector error is treated as zero detected scenes, which sends the run
// into the fallback path. A successful detection with no boundaries on a
// video with positive duration yields exactly one scene spanning the whole
// video. Degenerate scenes are filtered only after end-frame clamping so
// clamping artifacts are removed consistently.
func (g *Segmenter) Scenes(ctx context.Context, video *Video, threshold float64, minSceneLenFrames int) []Scene {
	boundaries, err := g.detector.Detect(ctx, video, threshold, minSceneLenFrames)
	if err != nil {
		slog.Warn("scene detection failed, treating video as unsegmented",
			"path", video.Path(),
			"error", err,
		)
		return nil
	}

	if len(boundaries) == 0 {
		if video.Duration() <= 0 {
			return nil
		}
		return []Scene{wholeVideoScene(video)}
	}

	scenes := make([]Scene, 0, len(boundaries))
	for _, b := range boundaries {
		s := Scene{
			StartFrame: b.StartFrame,
			EndFrame:   b.EndFrame,
			StartSec:   b.StartSec,
			EndSec:     b.EndSec,
		}
		if total := video.TotalFrames(); total > 0 && s.EndFrame > total {
			s.EndFrame = total
		}
		if s.EndFrame <= s.StartFrame || s.DurationSec() <= minSceneDurationSec {
			continue
		}
		s.Number = len(scenes) + 1
		scenes = append(scenes, s)
	}
	return scenes
}

// wholeVideoScene spans [0, total_frames), deriving the frame count from
// duration and fps when the container does not report one.
func wholeVideoScene(video *Video) Scene {
	end := video.TotalFrames()
	if end == 0 {
		end = int(math.Round(video.Duration() * video.FPS()))
	}
	return Scene{
		Number:   1,
		EndFrame: end,
		EndSec:   video.Duration(),
	}
}
