package keyframe

import (
	"log/slog"

	"github.com/hszk-dev/keyva/internal/infrastructure/metrics"
)

// ExtractionResult maps an absolute frame index to its encoded image data.
// Indices that failed to decode have no entry.
type ExtractionResult map[int][]byte

// positionUnknown forces the next iteration to seek after a failed seek or
// read left the stream position indeterminate.
const positionUnknown = -2

// ExtractFrames reads the requested frames in ascending index order, seeking
// only when the next index does not immediately follow the last frame read.
// Contiguous runs of indices decode sequentially without repositioning.
//
// A failed seek or read skips that index. A read failure at or beyond the
// known frame count is treated as end-of-stream and stops the scan.
func ExtractFrames(video *Video, indices []int) ExtractionResult {
	result := make(ExtractionResult, len(indices))

	// A fresh stream is positioned at frame 0, so index 0 needs no seek.
	lastRead := -1

	for _, idx := range indices {
		if idx == lastRead+1 {
			metrics.DecoderSeeksTotal.WithLabelValues(metrics.SeekElided).Inc()
		} else {
			if !video.Seek(idx) {
				slog.Warn("seek failed, skipping frame",
					"path", video.Path(),
					"frame", idx,
				)
				metrics.FramesExtractedTotal.WithLabelValues(metrics.FrameStatusSeekFailed).Inc()
				lastRead = positionUnknown
				continue
			}
			metrics.DecoderSeeksTotal.WithLabelValues(metrics.SeekIssued).Inc()
			lastRead = idx - 1
		}

		data, ok := video.Read()
		if !ok {
			metrics.FramesExtractedTotal.WithLabelValues(metrics.FrameStatusReadFailed).Inc()
			if total := video.TotalFrames(); total > 0 && idx >= total {
				slog.Warn("read past known end of stream, stopping extraction",
					"path", video.Path(),
					"frame", idx,
					"total_frames", total,
				)
				break
			}
			slog.Warn("read failed, skipping frame",
				"path", video.Path(),
				"frame", idx,
			)
			lastRead = positionUnknown
			continue
		}

		metrics.FramesExtractedTotal.WithLabelValues(metrics.FrameStatusOK).Inc()
		result[idx] = data
		lastRead = idx
	}

	return result
}
