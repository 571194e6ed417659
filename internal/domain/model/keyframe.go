package model

import (
	"time"

	"github.com/google/uuid"
)

// Keyframe is one extracted frame image belonging to a job.
type Keyframe struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	ObjectKey   string
	FrameIndex  int
	SceneNumber int
	Timecode    string
	Ordinal     int
	CreatedAt   time.Time
}

// NewKeyframe creates a Keyframe record for a stored frame image.
// Ordinal is the frame's position within the job's sorted output.
func NewKeyframe(jobID uuid.UUID, objectKey string, frameIndex, sceneNumber int, timecode string, ordinal int) *Keyframe {
	return &Keyframe{
		ID:          uuid.New(),
		JobID:       jobID,
		ObjectKey:   objectKey,
		FrameIndex:  frameIndex,
		SceneNumber: sceneNumber,
		Timecode:    timecode,
		Ordinal:     ordinal,
		CreatedAt:   time.Now(),
	}
}
