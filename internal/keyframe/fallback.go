package keyframe

import "math"

const (
	// DefaultFallbackFrameCount is the number of evenly spaced frames taken
	// from an unsegmented video when no global minimum is configured.
	DefaultFallbackFrameCount = 5

	// DefaultTimecodeFPS is the last-resort divisor for timestamp and
	// timecode math when no usable frame rate is available. The video
	// handle itself never uses it; only fallback index conversion and
	// filename timecode rendering do.
	DefaultTimecodeFPS = 30.0
)

// FallbackTimestamps spreads count timestamps evenly across
// [0, durationSec], inclusive of both endpoints.
func FallbackTimestamps(durationSec float64, count int) []float64 {
	if durationSec <= 0 || count <= 0 {
		return nil
	}
	if count == 1 {
		return []float64{0}
	}
	out := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, durationSec*float64(i)/float64(count-1))
	}
	return out
}

// FallbackIndices derives evenly spaced frame indices across the whole
// video for a run where scene detection yielded nothing. It returns nil
// when the video has no known positive duration.
func FallbackIndices(video *Video, minTotalKeyframes int) []int {
	if video.Duration() <= 0 {
		return nil
	}

	count := minTotalKeyframes
	if count <= 0 {
		count = DefaultFallbackFrameCount
	}
	total := video.TotalFrames()
	if total > 0 && count > total {
		count = total
	}

	fps := video.FPS()
	if fps <= 0 {
		fps = DefaultTimecodeFPS
	}

	seen := make(map[int]struct{}, count)
	out := make([]int, 0, count)
	for _, ts := range FallbackTimestamps(video.Duration(), count) {
		idx := int(math.Round(ts * fps))
		if idx < 0 {
			idx = 0
		}
		if total > 0 && idx >= total {
			idx = total - 1
		}
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	return out
}
