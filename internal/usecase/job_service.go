package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/keyva/internal/domain/model"
	"github.com/hszk-dev/keyva/internal/domain/repository"
)

var (
	// ErrJobAlreadyCompleted is returned when attempting to process a job that has already completed.
	ErrJobAlreadyCompleted = errors.New("job processing has already completed")
)

// CreateJobInput contains the input parameters for creating an extraction job.
type CreateJobInput struct {
	UserID   uuid.UUID
	Title    string
	FileName string
}

// CreateJobOutput contains the result of creating a job.
type CreateJobOutput struct {
	Job       *model.Job
	UploadURL string
}

// KeyframeItem pairs a keyframe record with a presigned download URL for its image.
type KeyframeItem struct {
	Keyframe    *model.Keyframe
	DownloadURL string
}

// JobService defines the interface for extraction job business logic.
type JobService interface {
	// CreateJob creates job metadata and returns a presigned upload URL.
	CreateJob(ctx context.Context, input CreateJobInput) (*CreateJobOutput, error)

	// TriggerExtract initiates keyframe extraction for an uploaded video.
	// This operation is idempotent - calling it on an already processing job returns nil.
	TriggerExtract(ctx context.Context, jobID uuid.UUID) error

	// GetJob retrieves job information by ID.
	GetJob(ctx context.Context, jobID uuid.UUID) (*model.Job, error)

	// ListKeyframes retrieves a job's extracted keyframes ordered by ordinal,
	// each with a presigned download URL for the image.
	ListKeyframes(ctx context.Context, jobID uuid.UUID) ([]KeyframeItem, error)
}

// JobServiceConfig holds configuration for JobService.
type JobServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultJobServiceConfig returns the default configuration.
func DefaultJobServiceConfig() JobServiceConfig {
	return JobServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
	}
}

type jobService struct {
	repo      repository.JobRepository
	keyframes repository.KeyframeRepository
	storage   repository.ObjectStorage
	queue     repository.MessageQueue

	uploadURLExpiry   time.Duration
	downloadURLExpiry time.Duration
}

// NewJobService creates a new JobService instance.
func NewJobService(
	repo repository.JobRepository,
	keyframes repository.KeyframeRepository,
	storage repository.ObjectStorage,
	queue repository.MessageQueue,
	cfg JobServiceConfig,
) JobService {
	return &jobService{
		repo:              repo,
		keyframes:         keyframes,
		storage:           storage,
		queue:             queue,
		uploadURLExpiry:   cfg.UploadURLExpiry,
		downloadURLExpiry: cfg.DownloadURLExpiry,
	}
}

// CreateJob creates job metadata and generates a presigned upload URL.
func (s *jobService) CreateJob(ctx context.Context, input CreateJobInput) (*CreateJobOutput, error) {
	job, err := model.NewJob(input.UserID, input.Title)
	if err != nil {
		return nil, err
	}

	key := s.generateSourceKey(job.ID, input.FileName)

	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, key, s.uploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate presigned upload URL: %w", err)
	}

	job.SetSourceKey(key)

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	return &CreateJobOutput{
		Job:       job,
		UploadURL: uploadURL,
	}, nil
}

// TriggerExtract initiates async keyframe extraction for a job.
// Idempotency: returns nil if the job is already processing.
func (s *jobService) TriggerExtract(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	if job.Status == model.StatusProcessing {
		return nil
	}

	if job.Status == model.StatusReady || job.Status == model.StatusFailed {
		return ErrJobAlreadyCompleted
	}

	if err := job.TransitionTo(model.StatusProcessing); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("update job status: %w", err)
	}

	task := repository.ExtractTask{
		JobID:        job.ID,
		SourceKey:    job.SourceKey,
		OutputPrefix: s.generateOutputPrefix(job.ID),
	}

	if err := s.queue.PublishExtractTask(ctx, task); err != nil {
		return fmt.Errorf("publish extract task: %w", err)
	}

	return nil
}

// GetJob retrieves job information by ID.
func (s *jobService) GetJob(ctx context.Context, jobID uuid.UUID) (*model.Job, error) {
	return s.repo.GetByID(ctx, jobID)
}

// ListKeyframes retrieves a job's extracted keyframes ordered by ordinal.
// Each item carries a presigned download URL for the stored image.
func (s *jobService) ListKeyframes(ctx context.Context, jobID uuid.UUID) ([]KeyframeItem, error) {
	// Confirm the job exists so a missing job and an empty result are distinguishable.
	if _, err := s.repo.GetByID(ctx, jobID); err != nil {
		return nil, err
	}

	frames, err := s.keyframes.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	items := make([]KeyframeItem, 0, len(frames))
	for _, kf := range frames {
		url, err := s.storage.GeneratePresignedDownloadURL(ctx, kf.ObjectKey, s.downloadURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("generate presigned download URL: %w", err)
		}
		items = append(items, KeyframeItem{Keyframe: kf, DownloadURL: url})
	}
	return items, nil
}

// generateSourceKey creates the storage key for uploaded source videos.
// Format: uploads/{job_id}/{filename}
func (s *jobService) generateSourceKey(jobID uuid.UUID, filename string) string {
	return path.Join("uploads", jobID.String(), filename)
}

// generateOutputPrefix creates the storage key prefix for keyframe output.
// Format: keyframes/{job_id}/
func (s *jobService) generateOutputPrefix(jobID uuid.UUID) string {
	return path.Join("keyframes", jobID.String()) + "/"
}
