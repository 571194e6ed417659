// Package opencv adapts OpenCV's VideoCapture to the keyframe decoder port.
package opencv

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"github.com/hszk-dev/keyva/internal/keyframe"
)

// Decoder opens video files through OpenCV.
type Decoder struct{}

// Compile-time verification that Decoder implements keyframe.Decoder.
var _ keyframe.Decoder = (*Decoder)(nil)

// NewDecoder creates a new OpenCV-backed decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens path for decoding. The returned stream owns the capture and
// must be released by the caller.
func (d *Decoder) Open(path string) (keyframe.Stream, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open capture for %s: %w", path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("capture for %s did not open", path)
	}

	return &captureStream{
		capture: capture,
		mat:     gocv.NewMat(),
	}, nil
}

// captureStream wraps a gocv.VideoCapture as a keyframe.Stream. Frames are
// handed out JPEG-encoded so callers never touch OpenCV memory.
type captureStream struct {
	capture  *gocv.VideoCapture
	mat      gocv.Mat
	released bool
}

var _ keyframe.Stream = (*captureStream)(nil)

func (s *captureStream) FrameCount() int {
	n := s.capture.Get(gocv.VideoCaptureFrameCount)
	if n < 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

func (s *captureStream) FPS() float64 {
	return s.capture.Get(gocv.VideoCaptureFPS)
}

func (s *captureStream) Dimensions() (int, int) {
	width := int(s.capture.Get(gocv.VideoCaptureFrameWidth))
	height := int(s.capture.Get(gocv.VideoCaptureFrameHeight))
	return width, height
}

// Seek repositions the capture to frameIndex. OpenCV accepts out-of-range
// positions silently, so the position is read back to verify the seek took.
func (s *captureStream) Seek(frameIndex int) bool {
	if s.released {
		return false
	}
	s.capture.Set(gocv.VideoCapturePosFrames, float64(frameIndex))
	return int(s.capture.Get(gocv.VideoCapturePosFrames)) == frameIndex
}

// Read decodes the frame at the current position and returns it JPEG-encoded.
func (s *captureStream) Read() ([]byte, bool) {
	if s.released {
		return nil, false
	}
	if ok := s.capture.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, false
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, s.mat)
	if err != nil {
		return nil, false
	}
	defer buf.Close()

	// The native buffer is freed on Close; copy before returning.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, true
}

// Release frees the capture and the scratch frame. Idempotent.
func (s *captureStream) Release() {
	if s.released {
		return
	}
	s.released = true
	s.mat.Close()
	s.capture.Close()
}
