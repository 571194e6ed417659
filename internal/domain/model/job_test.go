package model

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"PENDING_UPLOAD is valid", StatusPendingUpload, true},
		{"PROCESSING is valid", StatusProcessing, true},
		{"READY is valid", StatusReady, true},
		{"FAILED is valid", StatusFailed, true},
		{"empty string is invalid", Status(""), false},
		{"unknown status is invalid", Status("UNKNOWN"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("Status.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		next    Status
		want    bool
	}{
		// Valid transitions
		{"PENDING_UPLOAD -> PROCESSING", StatusPendingUpload, StatusProcessing, true},
		{"PROCESSING -> READY", StatusProcessing, StatusReady, true},
		{"PROCESSING -> FAILED", StatusProcessing, StatusFailed, true},

		// Invalid transitions
		{"PENDING_UPLOAD -> READY (skip)", StatusPendingUpload, StatusReady, false},
		{"PENDING_UPLOAD -> FAILED (skip)", StatusPendingUpload, StatusFailed, false},
		{"READY -> PROCESSING (reverse)", StatusReady, StatusProcessing, false},
		{"FAILED -> READY (terminal)", StatusFailed, StatusReady, false},
		{"READY -> PENDING_UPLOAD (reverse)", StatusReady, StatusPendingUpload, false},

		// Self transitions
		{"PENDING_UPLOAD -> PENDING_UPLOAD", StatusPendingUpload, StatusPendingUpload, false},
		{"PROCESSING -> PROCESSING", StatusProcessing, StatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.current.CanTransitionTo(tt.next); got != tt.want {
				t.Errorf("Status.CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewJob(t *testing.T) {
	validUserID := uuid.New()

	tests := []struct {
		name    string
		userID  uuid.UUID
		title   string
		wantErr error
	}{
		{
			name:    "valid job creation",
			userID:  validUserID,
			title:   "My Video",
			wantErr: nil,
		},
		{
			name:    "nil user ID",
			userID:  uuid.Nil,
			title:   "My Video",
			wantErr: ErrInvalidUserID,
		},
		{
			name:    "empty title",
			userID:  validUserID,
			title:   "",
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "title too long",
			userID:  validUserID,
			title:   strings.Repeat("a", 256),
			wantErr: ErrTitleTooLong,
		},
		{
			name:    "title at max length",
			userID:  validUserID,
			title:   strings.Repeat("a", 255),
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewJob(tt.userID, tt.title)

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("NewJob() error = %v, wantErr %v", err, tt.wantErr)
				}
				if job != nil {
					t.Error("NewJob() should return nil job on error")
				}
				return
			}

			if err != nil {
				t.Errorf("NewJob() unexpected error = %v", err)
				return
			}

			if job.ID == uuid.Nil {
				t.Error("NewJob() should generate non-nil ID")
			}
			if job.UserID != tt.userID {
				t.Errorf("NewJob() UserID = %v, want %v", job.UserID, tt.userID)
			}
			if job.Title != tt.title {
				t.Errorf("NewJob() Title = %v, want %v", job.Title, tt.title)
			}
			if job.Status != StatusPendingUpload {
				t.Errorf("NewJob() Status = %v, want %v", job.Status, StatusPendingUpload)
			}
			if job.CreatedAt.IsZero() {
				t.Error("NewJob() should set CreatedAt")
			}
			if job.UpdatedAt.IsZero() {
				t.Error("NewJob() should set UpdatedAt")
			}
		})
	}
}

func TestJob_TransitionTo(t *testing.T) {
	tests := []struct {
		name       string
		setup      func() *Job
		nextStatus Status
		wantErr    bool
		wantStatus Status
	}{
		{
			name: "valid transition PENDING_UPLOAD -> PROCESSING",
			setup: func() *Job {
				j, _ := NewJob(uuid.New(), "test")
				return j
			},
			nextStatus: StatusProcessing,
			wantErr:    false,
			wantStatus: StatusProcessing,
		},
		{
			name: "valid transition PROCESSING -> READY",
			setup: func() *Job {
				j, _ := NewJob(uuid.New(), "test")
				j.Status = StatusProcessing
				return j
			},
			nextStatus: StatusReady,
			wantErr:    false,
			wantStatus: StatusReady,
		},
		{
			name: "valid transition PROCESSING -> FAILED",
			setup: func() *Job {
				j, _ := NewJob(uuid.New(), "test")
				j.Status = StatusProcessing
				return j
			},
			nextStatus: StatusFailed,
			wantErr:    false,
			wantStatus: StatusFailed,
		},
		{
			name: "invalid transition PENDING_UPLOAD -> READY",
			setup: func() *Job {
				j, _ := NewJob(uuid.New(), "test")
				return j
			},
			nextStatus: StatusReady,
			wantErr:    true,
			wantStatus: StatusPendingUpload,
		},
		{
			name: "invalid status value",
			setup: func() *Job {
				j, _ := NewJob(uuid.New(), "test")
				return j
			},
			nextStatus: Status("INVALID"),
			wantErr:    true,
			wantStatus: StatusPendingUpload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := tt.setup()
			oldUpdatedAt := job.UpdatedAt

			err := job.TransitionTo(tt.nextStatus)

			if (err != nil) != tt.wantErr {
				t.Errorf("Job.TransitionTo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if job.Status != tt.wantStatus {
				t.Errorf("Job.Status = %v, want %v", job.Status, tt.wantStatus)
			}
			if !tt.wantErr && !job.UpdatedAt.After(oldUpdatedAt) {
				t.Error("Job.TransitionTo() should update UpdatedAt on success")
			}
		})
	}
}

func TestJob_SetSourceKey(t *testing.T) {
	job, _ := NewJob(uuid.New(), "test")
	oldUpdatedAt := job.UpdatedAt

	job.SetSourceKey("uploads/abc/source.mp4")

	if job.SourceKey != "uploads/abc/source.mp4" {
		t.Errorf("Job.SourceKey = %v, want %v", job.SourceKey, "uploads/abc/source.mp4")
	}
	if !job.UpdatedAt.After(oldUpdatedAt) {
		t.Error("Job.SetSourceKey() should update UpdatedAt")
	}
}

func TestJob_SetResults(t *testing.T) {
	job, _ := NewJob(uuid.New(), "test")
	oldUpdatedAt := job.UpdatedAt

	job.SetResults(12, 4)

	if job.KeyframeCount != 12 {
		t.Errorf("Job.KeyframeCount = %d, want 12", job.KeyframeCount)
	}
	if job.SceneCount != 4 {
		t.Errorf("Job.SceneCount = %d, want 4", job.SceneCount)
	}
	if !job.UpdatedAt.After(oldUpdatedAt) {
		t.Error("Job.SetResults() should update UpdatedAt")
	}
}

func TestJob_IsReady(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"READY returns true", StatusReady, true},
		{"PENDING_UPLOAD returns false", StatusPendingUpload, false},
		{"PROCESSING returns false", StatusProcessing, false},
		{"FAILED returns false", StatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, _ := NewJob(uuid.New(), "test")
			job.Status = tt.status

			if got := job.IsReady(); got != tt.want {
				t.Errorf("Job.IsReady() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_IsFailed(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"FAILED returns true", StatusFailed, true},
		{"PENDING_UPLOAD returns false", StatusPendingUpload, false},
		{"PROCESSING returns false", StatusProcessing, false},
		{"READY returns false", StatusReady, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, _ := NewJob(uuid.New(), "test")
			job.Status = tt.status

			if got := job.IsFailed(); got != tt.want {
				t.Errorf("Job.IsFailed() = %v, want %v", got, tt.want)
			}
		})
	}
}
