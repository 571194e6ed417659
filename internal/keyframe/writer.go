package keyframe

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/hszk-dev/keyva/internal/infrastructure/metrics"
)

// SavedFile records one keyframe image written to disk.
type SavedFile struct {
	Path        string
	FrameIndex  int
	SceneNumber int // 0 when the frame was not tagged with a scene
	Timecode    string
}

// Timecode renders frameIndex/fps as a compact HHMMSSmmm token for use in
// filenames. A non-positive fps falls back to DefaultTimecodeFPS.
func Timecode(frameIndex int, fps float64) string {
	if fps <= 0 {
		fps = DefaultTimecodeFPS
	}
	totalMillis := int64(math.Round(float64(frameIndex) / fps * 1000))
	hours := totalMillis / 3600000
	minutes := totalMillis % 3600000 / 60000
	seconds := totalMillis % 60000 / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d%02d%02d%03d", hours, minutes, seconds, millis)
}

// SaveFrames writes every extracted frame under outputDir with a
// deterministic, collision-free filename. Failure to create the directory
// aborts the batch; per-file write failures are logged and skipped.
// sceneByFrame tags frames with their owning scene number and may be nil.
func SaveFrames(result ExtractionResult, outputDir, prefix string, sceneByFrame map[int]int, fps float64) ([]SavedFile, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if len(result) == 0 {
		return nil, nil
	}

	indices := make([]int, 0, len(result))
	for idx := range result {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	saved := make([]SavedFile, 0, len(indices))
	for _, idx := range indices {
		timecode := Timecode(idx, fps)
		sceneNumber := sceneByFrame[idx]
		name := frameFileName(prefix, sceneNumber, idx, timecode)
		path := filepath.Join(outputDir, name)

		if err := os.WriteFile(path, result[idx], 0644); err != nil {
			slog.Warn("failed to write keyframe image, skipping",
				"path", path,
				"frame", idx,
				"error", err,
			)
			continue
		}

		metrics.KeyframesSavedTotal.Inc()
		saved = append(saved, SavedFile{
			Path:        path,
			FrameIndex:  idx,
			SceneNumber: sceneNumber,
			Timecode:    timecode,
		})
	}
	return saved, nil
}

// frameFileName formats "<prefix>_scene003_frame0001234_000041133.jpg".
// The scene token is omitted for frames without scene attribution.
func frameFileName(prefix string, sceneNumber, frameIndex int, timecode string) string {
	if sceneNumber > 0 {
		return fmt.Sprintf("%s_scene%03d_frame%07d_%s.jpg", prefix, sceneNumber, frameIndex, timecode)
	}
	return fmt.Sprintf("%s_frame%07d_%s.jpg", prefix, frameIndex, timecode)
}
