// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "keyva"

var (
	// ScenesDetectedTotal counts scenes produced by the segmenter,
	// including the synthesized whole-video scene.
	ScenesDetectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenes_detected_total",
			Help:      "Total number of scenes produced by the segmenter",
		},
	)

	// DecoderSeeksTotal tracks seek scheduling decisions in the extraction loop.
	// Labels:
	//   - result: issued (repositioning was required), elided (sequential read)
	DecoderSeeksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decoder_seeks_total",
			Help:      "Total number of seek decisions made by the extraction scheduler",
		},
		[]string{"result"},
	)

	// FramesExtractedTotal tracks per-frame extraction outcomes.
	// Labels:
	//   - status: ok, seek_failed, read_failed
	FramesExtractedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_extracted_total",
			Help:      "Total number of frame extraction attempts",
		},
		[]string{"status"},
	)

	// KeyframesSavedTotal counts keyframe image files written to disk.
	KeyframesSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keyframes_saved_total",
			Help:      "Total number of keyframe images written",
		},
	)

	// CacheOperationsTotal tracks cache operations (get, set, delete).
	// Labels:
	//   - operation: get, set, delete
	//   - status: hit, miss, success, error
	//   - cache_type: redis
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Seek decision result constants.
const (
	SeekIssued = "issued"
	SeekElided = "elided"
)

// Frame extraction status constants.
const (
	FrameStatusOK         = "ok"
	FrameStatusSeekFailed = "seek_failed"
	FrameStatusReadFailed = "read_failed"
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"
)

// Cache type constants.
const (
	CacheTypeRedis = "redis"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
