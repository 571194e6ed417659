package keyframe

import (
	"context"
	"errors"
	"testing"
)

func pipelineOptions(dir string) Options {
	return Options{
		Threshold:          0.4,
		MinSceneLenFrames:  15,
		Tiers:              DefaultTierConfig(),
		Strategy:           StrategyUniformInterval,
		GlobalMaxKeyframes: 200,
		GlobalMinKeyframes: 5,
		OutputDir:          dir,
		FilePrefix:         "clip",
	}
}

func TestPipeline_Run_SceneBased(t *testing.T) {
	stream := newMockStream(900, 30) // 30 seconds
	detector := &mockDetector{
		detectFn: func(ctx context.Context, v *Video, threshold float64, minLen int) ([]Boundary, error) {
			return []Boundary{
				{StartFrame: 0, EndFrame: 450, StartSec: 0, EndSec: 15},
				{StartFrame: 450, EndFrame: 900, StartSec: 15, EndSec: 30},
			}, nil
		},
	}
	p := NewPipeline(&mockDecoder{stream: stream}, nil, detector)

	saved, err := p.Run(context.Background(), tempVideoFile(t), pipelineOptions(t.TempDir()))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Two 15-second scenes, long tier, three picks each.
	if len(saved) != 6 {
		t.Fatalf("saved %d files, want 6", len(saved))
	}
	for _, f := range saved {
		if f.SceneNumber < 1 || f.SceneNumber > 2 {
			t.Errorf("frame %d attributed to scene %d, want 1 or 2", f.FrameIndex, f.SceneNumber)
		}
	}
	if stream.releaseCalls != 1 {
		t.Errorf("stream released %d times, want 1", stream.releaseCalls)
	}
}

func TestPipeline_Run_DetectorErrorFallsBack(t *testing.T) {
	stream := newMockStream(900, 30)
	detector := &mockDetector{
		detectFn: func(ctx context.Context, v *Video, threshold float64, minLen int) ([]Boundary, error) {
			return nil, errors.New("detector crashed")
		},
	}
	p := NewPipeline(&mockDecoder{stream: stream}, nil, detector)

	saved, err := p.Run(context.Background(), tempVideoFile(t), pipelineOptions(t.TempDir()))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(saved) != 5 {
		t.Fatalf("saved %d files, want the fallback minimum of 5", len(saved))
	}
	for _, f := range saved {
		if f.SceneNumber != 0 {
			t.Errorf("fallback frame %d carries scene number %d, want 0", f.FrameIndex, f.SceneNumber)
		}
	}
}

func TestPipeline_Run_NoScenesNoDuration(t *testing.T) {
	stream := newMockStream(0, 30)
	p := NewPipeline(&mockDecoder{stream: stream}, nil, &mockDetector{})

	saved, err := p.Run(context.Background(), tempVideoFile(t), pipelineOptions(t.TempDir()))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if saved != nil {
		t.Errorf("saved = %v, want nil when nothing is extractable", saved)
	}
	if stream.releaseCalls != 1 {
		t.Errorf("stream released %d times, want 1", stream.releaseCalls)
	}
}

func TestPipeline_Run_PrecomputedScenesSkipDetection(t *testing.T) {
	stream := newMockStream(900, 30)
	detector := &mockDetector{}
	p := NewPipeline(&mockDecoder{stream: stream}, nil, detector)

	opts := pipelineOptions(t.TempDir())
	opts.PrecomputedScenes = []Scene{
		{Number: 1, StartFrame: 0, EndFrame: 900, StartSec: 0, EndSec: 30},
	}

	saved, err := p.Run(context.Background(), tempVideoFile(t), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if detector.detectCalls != 0 {
		t.Errorf("detector called %d times, want 0 with precomputed scenes", detector.detectCalls)
	}
	if len(saved) != 3 {
		t.Errorf("saved %d files, want 3 for one long scene", len(saved))
	}
}

func TestPipeline_Run_OpenFailurePropagates(t *testing.T) {
	dec := &mockDecoder{
		openFn: func(path string) (Stream, error) {
			return nil, errors.New("container not supported")
		},
	}
	p := NewPipeline(dec, nil, &mockDetector{})

	_, err := p.Run(context.Background(), tempVideoFile(t), pipelineOptions(t.TempDir()))
	if !errors.Is(err, ErrOpenFailed) {
		t.Errorf("got %v, want ErrOpenFailed", err)
	}
}

func TestPipeline_Run_GlobalMaxCapsOutput(t *testing.T) {
	stream := newMockStream(3000, 30) // 100 seconds
	detector := &mockDetector{
		detectFn: func(ctx context.Context, v *Video, threshold float64, minLen int) ([]Boundary, error) {
			// Twenty 5-second scenes, medium tier, two picks each.
			boundaries := make([]Boundary, 0, 20)
			for i := 0; i < 20; i++ {
				boundaries = append(boundaries, Boundary{
					StartFrame: i * 150,
					EndFrame:   (i + 1) * 150,
					StartSec:   float64(i) * 5,
					EndSec:     float64(i+1) * 5,
				})
			}
			return boundaries, nil
		},
	}
	p := NewPipeline(&mockDecoder{stream: stream}, nil, detector)

	opts := pipelineOptions(t.TempDir())
	opts.GlobalMaxKeyframes = 10

	saved, err := p.Run(context.Background(), tempVideoFile(t), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(saved) > 10 {
		t.Errorf("saved %d files, want at most 10", len(saved))
	}
}
