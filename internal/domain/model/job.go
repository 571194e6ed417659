package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the processing state of an extraction job.
type Status string

const (
	StatusPendingUpload Status = "PENDING_UPLOAD"
	StatusProcessing    Status = "PROCESSING"
	StatusReady         Status = "READY"
	StatusFailed        Status = "FAILED"
)

// Valid status transitions:
// PENDING_UPLOAD -> PROCESSING -> READY
//                            \-> FAILED
var validTransitions = map[Status][]Status{
	StatusPendingUpload: {StatusProcessing},
	StatusProcessing:    {StatusReady, StatusFailed},
	StatusReady:         {},
	StatusFailed:        {},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingUpload, StatusProcessing, StatusReady, StatusFailed:
		return true
	default:
		return false
	}
}

func (s Status) CanTransitionTo(next Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, status := range allowed {
		if status == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Job represents one keyframe extraction request over a single video.
type Job struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Status        Status
	SourceKey     string
	KeyframeCount int
	SceneCount    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidUserID     = errors.New("user ID cannot be nil")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTitleTooLong      = errors.New("title exceeds maximum length of 255 characters")
)

const maxTitleLength = 255

// NewJob creates a new Job with PENDING_UPLOAD status.
func NewJob(userID uuid.UUID, title string) (*Job, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}

	now := time.Now()
	return &Job{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Status:    StatusPendingUpload,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TransitionTo attempts to change the job status.
// Returns error if the transition is not allowed.
func (j *Job) TransitionTo(next Status) error {
	if !next.IsValid() {
		return ErrInvalidTransition
	}
	if !j.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	j.Status = next
	j.UpdatedAt = time.Now()
	return nil
}

// SetSourceKey records the object key the source video was uploaded to.
func (j *Job) SetSourceKey(key string) {
	j.SourceKey = key
	j.UpdatedAt = time.Now()
}

// SetResults records the extraction outcome after processing completes.
func (j *Job) SetResults(keyframeCount, sceneCount int) {
	j.KeyframeCount = keyframeCount
	j.SceneCount = sceneCount
	j.UpdatedAt = time.Now()
}

// IsReady returns true if the job's keyframes are available.
func (j *Job) IsReady() bool {
	return j.Status == StatusReady
}

// IsFailed returns true if the extraction failed.
func (j *Job) IsFailed() bool {
	return j.Status == StatusFailed
}
