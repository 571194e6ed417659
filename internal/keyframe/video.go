package keyframe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

var (
	// ErrVideoNotFound is returned when the input path does not exist.
	ErrVideoNotFound = errors.New("video file not found")

	// ErrOpenFailed is returned when the decoder cannot open the stream or
	// the stream metadata is unusable (no frame rate, invalid dimensions).
	ErrOpenFailed = errors.New("failed to open video")
)

// Video is an exclusively owned decode handle for one pipeline run.
// It must be released exactly once; Release is safe to call multiple times.
type Video struct {
	path        string
	stream      Stream
	fps         float64
	totalFrames int
	width       int
	height      int
	durationSec float64
	released    bool
}

// OpenVideo opens path through the decoder and validates the stream metadata.
// When the decoder reports a non-positive frame rate, the prober is consulted
// before giving up; the handle itself never falls back to a default fps.
func OpenVideo(ctx context.Context, dec Decoder, prober Prober, path string) (*Video, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, path)
		}
		return nil, fmt.Errorf("stat video file: %w", err)
	}

	stream, err := dec.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	fps := stream.FPS()
	total := stream.FrameCount()
	if total < 0 {
		total = 0
	}

	var probed *ProbeInfo
	if (fps <= 0 || total == 0) && prober != nil {
		info, perr := prober.Probe(ctx, path)
		if perr != nil {
			slog.Warn("secondary stream probe failed",
				"path", path,
				"error", perr,
			)
		} else {
			probed = &info
		}
	}

	if fps <= 0 && probed != nil {
		fps = probed.FPS
	}
	if fps <= 0 {
		stream.Release()
		return nil, fmt.Errorf("%w: no usable frame rate for %s", ErrOpenFailed, path)
	}

	width, height := stream.Dimensions()
	if width <= 0 || height <= 0 {
		stream.Release()
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d for %s", ErrOpenFailed, width, height, path)
	}

	duration := 0.0
	if total > 0 {
		duration = float64(total) / fps
	} else if probed != nil {
		duration = probed.DurationSec
	}

	return &Video{
		path:        path,
		stream:      stream,
		fps:         fps,
		totalFrames: total,
		width:       width,
		height:      height,
		durationSec: duration,
	}, nil
}

// Path returns the file path the handle was opened from.
func (v *Video) Path() string { return v.path }

// FPS returns the probed frame rate, always positive for an open handle.
func (v *Video) FPS() float64 { return v.fps }

// TotalFrames returns the frame count, or 0 when unknown.
func (v *Video) TotalFrames() int { return v.totalFrames }

// Dimensions returns the pixel width and height of the stream.
func (v *Video) Dimensions() (int, int) { return v.width, v.height }

// Duration returns the video duration in seconds, or 0 when unknown.
func (v *Video) Duration() float64 { return v.durationSec }

// Seek repositions the stream to frameIndex.
func (v *Video) Seek(frameIndex int) bool {
	if v.released {
		return false
	}
	return v.stream.Seek(frameIndex)
}

// Read decodes the frame at the current position.
func (v *Video) Read() ([]byte, bool) {
	if v.released {
		return nil, false
	}
	return v.stream.Read()
}

// Release frees the decode resources. Idempotent.
func (v *Video) Release() {
	if v.released {
		return
	}
	v.released = true
	v.stream.Release()
}
