package keyframe

import (
	"context"
	"log/slog"

	"github.com/hszk-dev/keyva/internal/infrastructure/metrics"
)

// Options controls a single extraction run.
type Options struct {
	// Threshold is the scene-change sensitivity passed to the detector.
	Threshold float64

	// MinSceneLenFrames is the minimum scene length passed to the detector.
	MinSceneLenFrames int

	// Tiers selects the per-scene keyframe target by scene duration.
	Tiers TierConfig

	// Strategy selects how picks are spread inside each scene.
	Strategy Strategy

	// GlobalMaxKeyframes caps the total candidate pool. Non-positive
	// means unbounded.
	GlobalMaxKeyframes int

	// GlobalMinKeyframes sizes the fallback sample for unsegmented videos.
	// A candidate pool smaller than this is kept as-is, never upsampled.
	GlobalMinKeyframes int

	// OutputDir receives the keyframe images; created when absent.
	OutputDir string

	// FilePrefix prefixes every written filename.
	FilePrefix string

	// PrecomputedScenes bypasses detection entirely when non-empty.
	PrecomputedScenes []Scene
}

// Pipeline wires a decoder, a secondary prober and a scene detector into a
// one-shot batch extraction over a single video file.
type Pipeline struct {
	decoder  Decoder
	prober   Prober
	detector SceneDetector
}

// NewPipeline creates a Pipeline over the given collaborators.
func NewPipeline(decoder Decoder, prober Prober, detector SceneDetector) *Pipeline {
	return &Pipeline{
		decoder:  decoder,
		prober:   prober,
		detector: detector,
	}
}

// Run extracts keyframes from videoPath and returns the files written.
// The decode handle is released on every exit path. An empty result with a
// nil error means the video had no sampleable content; it is a valid
// outcome, not a failure.
func (p *Pipeline) Run(ctx context.Context, videoPath string, opts Options) ([]SavedFile, error) {
	video, err := OpenVideo(ctx, p.decoder, p.prober, videoPath)
	if err != nil {
		return nil, err
	}
	defer video.Release()

	scenes := opts.PrecomputedScenes
	if len(scenes) == 0 {
		scenes = NewSegmenter(p.detector).Scenes(ctx, video, opts.Threshold, opts.MinSceneLenFrames)
		metrics.ScenesDetectedTotal.Add(float64(len(scenes)))
	}

	var (
		indices      []int
		sceneByFrame map[int]int
	)
	if len(scenes) == 0 {
		// Fallback path: evenly spaced frames across the whole duration.
		// Triggered only when detection yielded nothing, not when existing
		// scenes sampled to an empty set.
		indices = FallbackIndices(video, opts.GlobalMinKeyframes)
		if len(indices) == 0 {
			slog.Info("no scenes and no usable duration, nothing to extract",
				"path", videoPath,
			)
			return nil, nil
		}
		slog.Info("no scenes detected, sampling whole video",
			"path", videoPath,
			"frames", len(indices),
		)
	} else {
		perScene := make([][]int, 0, len(scenes))
		sceneByFrame = make(map[int]int)
		for _, scene := range scenes {
			picks := Sample(scene, opts.Tiers.TargetFor(scene), opts.Strategy)
			for _, idx := range picks {
				if _, ok := sceneByFrame[idx]; !ok {
					sceneByFrame[idx] = scene.Number
				}
			}
			perScene = append(perScene, picks)
		}

		indices = MergeWithBudget(perScene, opts.GlobalMaxKeyframes)
		if len(indices) == 0 {
			slog.Info("scenes yielded no candidates, finishing with empty output",
				"path", videoPath,
				"scenes", len(scenes),
			)
			return nil, nil
		}
	}

	result := ExtractFrames(video, indices)
	if len(result) == 0 {
		return nil, nil
	}

	saved, err := SaveFrames(result, opts.OutputDir, opts.FilePrefix, sceneByFrame, video.FPS())
	if err != nil {
		return nil, err
	}

	slog.Info("extraction complete",
		"path", videoPath,
		"scenes", len(scenes),
		"requested", len(indices),
		"saved", len(saved),
	)
	return saved, nil
}
