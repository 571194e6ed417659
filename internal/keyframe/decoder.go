// Package keyframe implements scene-aware keyframe selection and extraction
// over a sequential video decoder. A single run opens one video, segments it
// into scenes, samples a budget-constrained set of frame indices and pulls
// exactly those frames from the stream with minimal re-seeking.
package keyframe

import "context"

// Stream is an open decode session over a single video file.
// Implementations are not required to be safe for concurrent use; a stream
// is owned exclusively by one extraction run.
type Stream interface {
	// FrameCount reports the number of frames in the stream, or 0 when the
	// container does not expose a frame count.
	FrameCount() int

	// FPS reports the stream frame rate. A non-positive value means the
	// decoder could not determine it.
	FPS() float64

	// Dimensions reports the pixel width and height of the video stream.
	Dimensions() (width, height int)

	// Seek repositions the stream so the next Read returns frameIndex.
	Seek(frameIndex int) bool

	// Read decodes the frame at the current position and advances by one.
	// The returned bytes are an encoded still image owned by the caller.
	Read() ([]byte, bool)

	// Release frees the underlying decode resources. Implementations must
	// tolerate multiple calls.
	Release()
}

// Decoder opens video files into decode streams.
type Decoder interface {
	Open(path string) (Stream, error)
}

// ProbeInfo carries stream metadata from a secondary, duration-aware probe.
type ProbeInfo struct {
	FPS         float64
	DurationSec float64
}

// Prober supplies fps and duration when the primary decoder cannot.
type Prober interface {
	Probe(ctx context.Context, path string) (ProbeInfo, error)
}
