package keyframe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// mockStream provides a configurable in-memory Stream.
// The default behavior models an ideal sequential decoder: Seek repositions,
// Read returns a one-byte payload identifying the frame and advances.
type mockStream struct {
	frameCount int
	fps        float64
	width      int
	height     int

	seekFn func(frameIndex int) bool
	readFn func(pos int) ([]byte, bool)

	pos          int
	seekCalls    []int
	readCalls    int
	releaseCalls int
}

func newMockStream(frameCount int, fps float64) *mockStream {
	return &mockStream{
		frameCount: frameCount,
		fps:        fps,
		width:      640,
		height:     480,
	}
}

func (m *mockStream) FrameCount() int { return m.frameCount }

func (m *mockStream) FPS() float64 { return m.fps }

func (m *mockStream) Dimensions() (int, int) { return m.width, m.height }

func (m *mockStream) Seek(frameIndex int) bool {
	m.seekCalls = append(m.seekCalls, frameIndex)
	if m.seekFn != nil {
		if !m.seekFn(frameIndex) {
			return false
		}
	}
	m.pos = frameIndex
	return true
}

func (m *mockStream) Read() ([]byte, bool) {
	m.readCalls++
	pos := m.pos
	if m.readFn != nil {
		data, ok := m.readFn(pos)
		if !ok {
			return nil, false
		}
		m.pos++
		return data, true
	}
	if m.frameCount > 0 && pos >= m.frameCount {
		return nil, false
	}
	m.pos++
	return []byte{byte(pos)}, true
}

func (m *mockStream) Release() { m.releaseCalls++ }

// mockDecoder implements Decoder for testing.
type mockDecoder struct {
	openFn func(path string) (Stream, error)
	stream Stream
}

func (m *mockDecoder) Open(path string) (Stream, error) {
	if m.openFn != nil {
		return m.openFn(path)
	}
	return m.stream, nil
}

// mockProber implements Prober for testing.
type mockProber struct {
	probeFn func(ctx context.Context, path string) (ProbeInfo, error)
}

func (m *mockProber) Probe(ctx context.Context, path string) (ProbeInfo, error) {
	if m.probeFn != nil {
		return m.probeFn(ctx, path)
	}
	return ProbeInfo{}, nil
}

// mockDetector implements SceneDetector for testing.
type mockDetector struct {
	detectFn    func(ctx context.Context, video *Video, threshold float64, minSceneLenFrames int) ([]Boundary, error)
	detectCalls int
}

func (m *mockDetector) Detect(ctx context.Context, video *Video, threshold float64, minSceneLenFrames int) ([]Boundary, error) {
	m.detectCalls++
	if m.detectFn != nil {
		return m.detectFn(ctx, video, threshold, minSceneLenFrames)
	}
	return nil, nil
}

// tempVideoFile creates a dummy file so OpenVideo's existence check passes.
func tempVideoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mp4")
	if err := os.WriteFile(path, []byte("dummy"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// newTestVideo opens a Video over the given mock stream.
func newTestVideo(t *testing.T, stream *mockStream) *Video {
	t.Helper()
	video, err := OpenVideo(context.Background(), &mockDecoder{stream: stream}, nil, tempVideoFile(t))
	if err != nil {
		t.Fatalf("OpenVideo failed: %v", err)
	}
	return video
}
