package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/citasmx/citas-api/internal/store"
	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// ParseTaskStatus validates a status name. Empty selects every status.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	switch s := TaskStatus(raw); s {
	case "", TaskStatusPending, TaskStatusProcessing, TaskStatusCompleted, TaskStatusFailed:
		return s, true
	default:
		return "", false
	}
}

// TaskTypeNotificationEmail sends one registration or recovery e-mail.
const TaskTypeNotificationEmail = "notification_email"

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// Record is a persisted task row.
type Record struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"tipo"`
	Payload      json.RawMessage `json:"payload"`
	Status       TaskStatus      `json:"estatus"`
	ErrorMessage string          `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"creado_en"`
	UpdatedAt    time.Time       `json:"actualizado_en"`
}

// TaskStore defines the interface for persisting tasks
type TaskStore interface {
	// SaveTask persists a task to the database
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks retrieves all tasks with "pending" status
	GetPendingTasks(ctx context.Context) ([]Record, error)

	// GetProcessingTasks retrieves tasks with "processing" status
	// If olderThan is non-zero, only returns tasks that have been in this state
	// longer than the specified duration
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Record, error)

	// ResetStuckTasks moves processing tasks idle for longer than olderThan
	// back to pending in one transaction and returns them.
	ResetStuckTasks(ctx context.Context, olderThan time.Duration) ([]Record, error)
}

// Reader lists persisted tasks for the administrative API.
type Reader interface {
	List(ctx context.Context, filter store.TaskFilter, page store.Page) (store.Result[Record], error)
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
}

// Factory creates executable tasks, either new ones from an event payload or
// existing ones from their persisted record.
type Factory interface {
	Build(taskType string, payload json.RawMessage) (Task, error)
	Restore(rec Record) (Task, error)
}
