package repository

import (
	"context"

	"github.com/google/uuid"
)

// ExtractTask represents a keyframe extraction job message.
type ExtractTask struct {
	JobID        uuid.UUID `json:"job_id"`
	SourceKey    string    `json:"source_key"`
	OutputPrefix string    `json:"output_prefix"`
	RetryCount   int       `json:"retry_count"`
}

// MessageQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type MessageQueue interface {
	// PublishExtractTask sends an extraction task to the queue.
	// Used by the API server to trigger async processing.
	PublishExtractTask(ctx context.Context, task ExtractTask) error

	// ConsumeExtractTasks starts consuming extraction tasks from the queue.
	// The handler function is called for each received task.
	// Used by the worker service.
	ConsumeExtractTasks(ctx context.Context, handler func(task ExtractTask) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
