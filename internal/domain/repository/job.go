package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/keyva/internal/domain/model"
)

// JobRepository defines the interface for extraction job persistence.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type JobRepository interface {
	// Create persists a new job entity.
	// Returns error if the job already exists or persistence fails.
	Create(ctx context.Context, job *model.Job) error

	// GetByID retrieves a job by its unique identifier.
	// Returns nil and ErrJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Job, error)

	// GetByUserID retrieves all jobs belonging to a user.
	// Returns empty slice if no jobs exist for the user.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Job, error)

	// Update persists changes to an existing job entity.
	// Returns ErrJobNotFound if the job does not exist.
	Update(ctx context.Context, job *model.Job) error

	// UpdateStatus updates only the status field of a job.
	// This is optimized for status transitions without full entity update.
	// Returns ErrJobNotFound if the job does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) error
}

// KeyframeRepository defines the interface for persisting extracted keyframes.
type KeyframeRepository interface {
	// CreateBatch persists all keyframe records for a job in one call.
	CreateBatch(ctx context.Context, keyframes []*model.Keyframe) error

	// GetByJobID retrieves a job's keyframes ordered by ordinal.
	// Returns empty slice if the job has no keyframes.
	GetByJobID(ctx context.Context, jobID uuid.UUID) ([]*model.Keyframe, error)

	// DeleteByJobID removes all keyframe records for a job.
	DeleteByJobID(ctx context.Context, jobID uuid.UUID) error
}
