package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/keyva/internal/domain/model"
	"github.com/hszk-dev/keyva/internal/domain/repository"
	"github.com/hszk-dev/keyva/internal/keyframe"
)

// mockJobRepository provides a configurable mock for JobRepository.
type mockJobRepository struct {
	createFn       func(ctx context.Context, job *model.Job) error
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*model.Job, error)
	getByUserIDFn  func(ctx context.Context, userID uuid.UUID) ([]*model.Job, error)
	updateFn       func(ctx context.Context, job *model.Job) error
	updateStatusFn func(ctx context.Context, id uuid.UUID, status model.Status) error
}

func (m *mockJobRepository) Create(ctx context.Context, job *model.Job) error {
	if m.createFn != nil {
		return m.createFn(ctx, job)
	}
	return nil
}

func (m *mockJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockJobRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Job, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockJobRepository) Update(ctx context.Context, job *model.Job) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, job)
	}
	return nil
}

func (m *mockJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

// mockKeyframeRepository provides a configurable mock for KeyframeRepository.
type mockKeyframeRepository struct {
	createBatchFn   func(ctx context.Context, keyframes []*model.Keyframe) error
	getByJobIDFn    func(ctx context.Context, jobID uuid.UUID) ([]*model.Keyframe, error)
	deleteByJobIDFn func(ctx context.Context, jobID uuid.UUID) error
}

func (m *mockKeyframeRepository) CreateBatch(ctx context.Context, keyframes []*model.Keyframe) error {
	if m.createBatchFn != nil {
		return m.createBatchFn(ctx, keyframes)
	}
	return nil
}

func (m *mockKeyframeRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) ([]*model.Keyframe, error) {
	if m.getByJobIDFn != nil {
		return m.getByJobIDFn(ctx, jobID)
	}
	return nil, nil
}

func (m *mockKeyframeRepository) DeleteByJobID(ctx context.Context, jobID uuid.UUID) error {
	if m.deleteByJobIDFn != nil {
		return m.deleteByJobIDFn(ctx, jobID)
	}
	return nil
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	generatePresignedUploadURLFn   func(ctx context.Context, key string, expiry time.Duration) (string, error)
	generatePresignedDownloadURLFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
	uploadFn                       func(ctx context.Context, key string, reader io.Reader, contentType string) error
	downloadFn                     func(ctx context.Context, key string) (io.ReadCloser, error)
	deleteFn                       func(ctx context.Context, key string) error
	existsFn                       func(ctx context.Context, key string) (bool, error)
}

func (m *mockObjectStorage) GeneratePresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedUploadURLFn != nil {
		return m.generatePresignedUploadURLFn(ctx, key, expiry)
	}
	return "http://example.com/upload", nil
}

func (m *mockObjectStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedDownloadURLFn != nil {
		return m.generatePresignedDownloadURLFn(ctx, key, expiry)
	}
	return "http://example.com/download", nil
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, contentType)
	}
	return nil
}

func (m *mockObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return nil, nil
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishExtractTaskFn  func(ctx context.Context, task repository.ExtractTask) error
	consumeExtractTasksFn func(ctx context.Context, handler func(task repository.ExtractTask) error) error
}

func (m *mockMessageQueue) PublishExtractTask(ctx context.Context, task repository.ExtractTask) error {
	if m.publishExtractTaskFn != nil {
		return m.publishExtractTaskFn(ctx, task)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeExtractTasks(ctx context.Context, handler func(task repository.ExtractTask) error) error {
	if m.consumeExtractTasksFn != nil {
		return m.consumeExtractTasksFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}

// mockExtractor provides a configurable mock for FrameExtractor.
type mockExtractor struct {
	runFn func(ctx context.Context, videoPath string, opts keyframe.Options) ([]keyframe.SavedFile, error)
}

func (m *mockExtractor) Run(ctx context.Context, videoPath string, opts keyframe.Options) ([]keyframe.SavedFile, error) {
	if m.runFn != nil {
		return m.runFn(ctx, videoPath, opts)
	}
	return nil, nil
}

// mockJobCache provides a configurable mock for JobCache.
type mockJobCache struct {
	getFn    func(ctx context.Context, jobID uuid.UUID) (*model.Job, error)
	setFn    func(ctx context.Context, job *model.Job, ttl time.Duration) error
	deleteFn func(ctx context.Context, jobID uuid.UUID) error
}

func (m *mockJobCache) Get(ctx context.Context, jobID uuid.UUID) (*model.Job, error) {
	if m.getFn != nil {
		return m.getFn(ctx, jobID)
	}
	return nil, nil
}

func (m *mockJobCache) Set(ctx context.Context, job *model.Job, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, job, ttl)
	}
	return nil
}

func (m *mockJobCache) Delete(ctx context.Context, jobID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, jobID)
	}
	return nil
}
