package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/keyva/internal/domain/model"
	"github.com/hszk-dev/keyva/internal/domain/repository"
)

// KeyframeRepository implements repository.KeyframeRepository using PostgreSQL.
type KeyframeRepository struct {
	db DBTX
}

// NewKeyframeRepository creates a new KeyframeRepository instance.
func NewKeyframeRepository(db DBTX) *KeyframeRepository {
	return &KeyframeRepository{db: db}
}

// CreateBatch persists all keyframe records for a job in one call.
func (r *KeyframeRepository) CreateBatch(ctx context.Context, keyframes []*model.Keyframe) error {
	if len(keyframes) == 0 {
		return nil
	}

	const query = `
		INSERT INTO keyframes (id, job_id, object_key, frame_index, scene_number, timecode, ordinal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, kf := range keyframes {
		batch.Queue(query,
			kf.ID,
			kf.JobID,
			kf.ObjectKey,
			kf.FrameIndex,
			kf.SceneNumber,
			kf.Timecode,
			kf.Ordinal,
			kf.CreatedAt,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range keyframes {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert keyframe batch: %w", err)
		}
	}

	return nil
}

// GetByJobID retrieves a job's keyframes ordered by ordinal.
func (r *KeyframeRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) ([]*model.Keyframe, error) {
	const query = `
		SELECT id, job_id, object_key, frame_index, scene_number, timecode, ordinal, created_at
		FROM keyframes
		WHERE job_id = $1
		ORDER BY ordinal ASC
	`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query keyframes by job ID: %w", err)
	}
	defer rows.Close()

	var keyframes []*model.Keyframe
	for rows.Next() {
		var kf model.Keyframe
		if err := rows.Scan(
			&kf.ID,
			&kf.JobID,
			&kf.ObjectKey,
			&kf.FrameIndex,
			&kf.SceneNumber,
			&kf.Timecode,
			&kf.Ordinal,
			&kf.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan keyframe: %w", err)
		}
		keyframes = append(keyframes, &kf)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyframes: %w", err)
	}

	return keyframes, nil
}

// DeleteByJobID removes all keyframe records for a job.
func (r *KeyframeRepository) DeleteByJobID(ctx context.Context, jobID uuid.UUID) error {
	const query = `DELETE FROM keyframes WHERE job_id = $1`

	if _, err := r.db.Exec(ctx, query, jobID); err != nil {
		return fmt.Errorf("failed to delete keyframes by job ID: %w", err)
	}

	return nil
}

// Compile-time verification that KeyframeRepository implements repository.KeyframeRepository.
var _ repository.KeyframeRepository = (*KeyframeRepository)(nil)
