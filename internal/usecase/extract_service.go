package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hszk-dev/keyva/internal/domain/model"
	"github.com/hszk-dev/keyva/internal/domain/repository"
	"github.com/hszk-dev/keyva/internal/infrastructure/cache"
	"github.com/hszk-dev/keyva/internal/keyframe"
)

const (
	// DefaultMaxRetries is the default maximum number of retry attempts before marking as failed.
	DefaultMaxRetries = 3
)

// FrameExtractor runs keyframe extraction over a local video file.
// Satisfied by *keyframe.Pipeline.
type FrameExtractor interface {
	Run(ctx context.Context, videoPath string, opts keyframe.Options) ([]keyframe.SavedFile, error)
}

// ExtractServiceConfig holds configuration for ExtractService.
type ExtractServiceConfig struct {
	// TempDir is the base directory for temporary files during extraction.
	TempDir string
	// MaxRetries is the maximum number of retry attempts before marking the job as failed.
	MaxRetries int

	// Threshold is the scene-change sensitivity passed to the detector.
	Threshold float64
	// MinSceneLenFrames is the minimum scene length passed to the detector.
	MinSceneLenFrames int
	// Tiers selects the per-scene keyframe target by scene duration.
	Tiers keyframe.TierConfig
	// Strategy selects how picks are spread inside each scene.
	Strategy keyframe.Strategy
	// GlobalMaxKeyframes caps the total keyframes per job.
	GlobalMaxKeyframes int
	// GlobalMinKeyframes sizes the fallback sample for unsegmented videos.
	GlobalMinKeyframes int
}

// DefaultExtractServiceConfig returns the default configuration.
func DefaultExtractServiceConfig() ExtractServiceConfig {
	return ExtractServiceConfig{
		TempDir:            os.TempDir(),
		MaxRetries:         DefaultMaxRetries,
		Threshold:          0.4,
		MinSceneLenFrames:  15,
		Tiers:              keyframe.DefaultTierConfig(),
		Strategy:           keyframe.StrategyUniformInterval,
		GlobalMaxKeyframes: 200,
		GlobalMinKeyframes: keyframe.DefaultFallbackFrameCount,
	}
}

// ExtractService defines the interface for keyframe extraction task processing.
type ExtractService interface {
	// ProcessTask handles an extraction task from the message queue.
	// Returns nil on success or permanent failure (max retries exceeded).
	// Returns error for transient failures that should trigger a retry.
	ProcessTask(ctx context.Context, task repository.ExtractTask) error
}

type extractService struct {
	repo      repository.JobRepository
	keyframes repository.KeyframeRepository
	storage   repository.ObjectStorage
	extractor FrameExtractor
	cache     cache.JobCache // optional, may be nil

	cfg ExtractServiceConfig
}

// NewExtractService creates a new ExtractService instance.
// jobCache may be nil when no cache invalidation is wanted.
func NewExtractService(
	repo repository.JobRepository,
	keyframes repository.KeyframeRepository,
	storage repository.ObjectStorage,
	extractor FrameExtractor,
	jobCache cache.JobCache,
	cfg ExtractServiceConfig,
) ExtractService {
	return &extractService{
		repo:      repo,
		keyframes: keyframes,
		storage:   storage,
		extractor: extractor,
		cache:     jobCache,
		cfg:       cfg,
	}
}

// ProcessTask handles an extraction task.
// It downloads the source video, extracts keyframes, uploads the images,
// records keyframe metadata and updates the job status in the database.
func (s *extractService) ProcessTask(ctx context.Context, task repository.ExtractTask) error {
	// Check if max retries exceeded - mark as failed and return nil (ack the message)
	if task.RetryCount >= s.cfg.MaxRetries {
		if err := s.markJobFailed(ctx, task.JobID); err != nil {
			slog.Error("failed to mark job as failed",
				"job_id", task.JobID,
				"retry_count", task.RetryCount,
				"error", err,
			)
			// Still return nil to ack the message
			// The job remains in PROCESSING state, which is acceptable
			return nil
		}
		return nil
	}

	workDir, err := s.createWorkDir(task.JobID)
	if err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	defer s.cleanup(workDir)

	inputPath, err := s.downloadSource(ctx, task.SourceKey, workDir)
	if err != nil {
		return fmt.Errorf("download source: %w", err)
	}

	opts := keyframe.Options{
		Threshold:          s.cfg.Threshold,
		MinSceneLenFrames:  s.cfg.MinSceneLenFrames,
		Tiers:              s.cfg.Tiers,
		Strategy:           s.cfg.Strategy,
		GlobalMaxKeyframes: s.cfg.GlobalMaxKeyframes,
		GlobalMinKeyframes: s.cfg.GlobalMinKeyframes,
		OutputDir:          filepath.Join(workDir, "frames"),
		FilePrefix:         filePrefix(task.SourceKey),
	}

	saved, err := s.extractor.Run(ctx, inputPath, opts)
	if err != nil {
		return fmt.Errorf("extract keyframes: %w", err)
	}

	records, err := s.uploadKeyframes(ctx, task, saved)
	if err != nil {
		return fmt.Errorf("upload keyframes: %w", err)
	}

	if err := s.keyframes.CreateBatch(ctx, records); err != nil {
		return fmt.Errorf("store keyframe records: %w", err)
	}

	if err := s.markJobReady(ctx, task.JobID, records); err != nil {
		return fmt.Errorf("update job status: %w", err)
	}

	return nil
}

// createWorkDir creates a temporary directory for processing a specific job.
func (s *extractService) createWorkDir(jobID uuid.UUID) (string, error) {
	workDir := filepath.Join(s.cfg.TempDir, "keyva", jobID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	return workDir, nil
}

// cleanup removes the temporary working directory.
func (s *extractService) cleanup(workDir string) {
	_ = os.RemoveAll(workDir)
}

// downloadSource downloads the source video from object storage to a local file.
func (s *extractService) downloadSource(ctx context.Context, key, workDir string) (string, error) {
	reader, err := s.storage.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("storage download: %w", err)
	}
	defer func() { _ = reader.Close() }()

	// Extract filename from key or use default
	filename := filepath.Base(key)
	if filename == "." || filename == "/" {
		filename = "source.mp4"
	}

	localPath := filepath.Join(workDir, filename)
	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create local file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("copy to local file: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close local file: %w", err)
	}

	return localPath, nil
}

// uploadKeyframes uploads the extracted images and builds their metadata
// records. Ordinals follow the saved order, which SaveFrames keeps sorted
// by frame index.
func (s *extractService) uploadKeyframes(ctx context.Context, task repository.ExtractTask, saved []keyframe.SavedFile) ([]*model.Keyframe, error) {
	records := make([]*model.Keyframe, 0, len(saved))
	for i, sf := range saved {
		key := task.OutputPrefix + filepath.Base(sf.Path)
		if err := s.uploadFile(ctx, sf.Path, key, "image/jpeg"); err != nil {
			return nil, fmt.Errorf("upload %s: %w", filepath.Base(sf.Path), err)
		}
		records = append(records, model.NewKeyframe(task.JobID, key, sf.FrameIndex, sf.SceneNumber, sf.Timecode, i))
	}
	return records, nil
}

// uploadFile uploads a single file to object storage.
func (s *extractService) uploadFile(ctx context.Context, localPath, key, contentType string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := s.storage.Upload(ctx, key, file, contentType); err != nil {
		return fmt.Errorf("storage upload: %w", err)
	}

	return nil
}

// markJobReady updates the job status to READY and records the result counts.
func (s *extractService) markJobReady(ctx context.Context, jobID uuid.UUID, records []*model.Keyframe) error {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}

	// Validate current status
	if job.Status != model.StatusProcessing {
		// Job is not in expected state - log but don't fail
		return nil
	}

	job.SetResults(len(records), countScenes(records))
	if err := job.TransitionTo(model.StatusReady); err != nil {
		return fmt.Errorf("transition to ready: %w", err)
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	s.invalidateCache(ctx, jobID)
	return nil
}

// markJobFailed updates the job status to FAILED.
func (s *extractService) markJobFailed(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}

	// Only transition if in PROCESSING state
	if job.Status != model.StatusProcessing {
		return nil
	}

	if err := job.TransitionTo(model.StatusFailed); err != nil {
		return fmt.Errorf("transition to failed: %w", err)
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	s.invalidateCache(ctx, jobID)
	return nil
}

// invalidateCache drops any cached copy of the job after a status change.
// Cache errors are logged, never propagated.
func (s *extractService) invalidateCache(ctx context.Context, jobID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, jobID); err != nil {
		slog.Warn("failed to invalidate job cache",
			"job_id", jobID,
			"error", err,
		)
	}
}

// countScenes counts the distinct scene numbers among the records.
// Fallback-path frames carry scene number 0 and do not count.
func countScenes(records []*model.Keyframe) int {
	seen := make(map[int]struct{})
	for _, r := range records {
		if r.SceneNumber > 0 {
			seen[r.SceneNumber] = struct{}{}
		}
	}
	return len(seen)
}

// filePrefix derives the output filename prefix from the source key.
func filePrefix(sourceKey string) string {
	base := filepath.Base(sourceKey)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == "/" {
		return "frame"
	}
	return base
}
