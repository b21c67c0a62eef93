package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/citasmx/citas-api/internal/platform/logger"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/citasmx/citas-api/internal/task"
	"github.com/google/uuid"
)

const taskColumns = "id, type, payload, status, error_message, created_at, updated_at"

var taskTable = table[task.Record]{
	name:     "tasks",
	columns:  taskColumns,
	orderBy:  "created_at DESC, id",
	notFound: store.ErrTaskNotFound,
	scan:     scanTask,
}

func scanTask(r rowScanner) (task.Record, error) {
	var rec task.Record
	var payload []byte
	var errorMessage sql.NullString
	err := r.Scan(&rec.ID, &rec.Type, &payload, &rec.Status, &errorMessage, &rec.CreatedAt, &rec.UpdatedAt)
	rec.Payload = payload
	rec.ErrorMessage = errorMessage.String
	return rec, err
}

// PostgresTaskStore implements the task.TaskStore interface using PostgreSQL
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresTaskStore creates a new PostgresTaskStore
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:     db,
		logger: componentLogger(logger, "task_store"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var (
	_ task.TaskStore = (*PostgresTaskStore)(nil)
	_ task.Reader    = (*PostgresTaskStore)(nil)
)

// SaveTask persists a task to the database
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	now := s.now()
	_, err := s.db.ExecContext(ctx, query, t.ID(), t.Type(), t.Payload(), string(t.Status()), now, now)
	if err != nil {
		log.Error("failed to save task",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save task to database: %w", MapError(err))
	}
	return nil
}

// UpdateTaskStatus updates the status of a task in the database.
// A missing task is treated as a no-op.
func (s *PostgresTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	return s.updateStatus(ctx, s.db, taskID, status, errorMsg)
}

func (s *PostgresTaskStore) updateStatus(
	ctx context.Context,
	db store.DBTX,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := db.ExecContext(ctx, query, string(status), errorMsg, s.now(), taskID)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("task_id", taskID.String()),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to update task status: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("no task found with ID to update status", slog.String("task_id", taskID.String()))
			return nil
		}
		return err
	}
	return nil
}

// GetPendingTasks retrieves all tasks with "pending" status
func (s *PostgresTaskStore) GetPendingTasks(ctx context.Context) ([]task.Record, error) {
	return s.getTasksByStatus(ctx, s.db, task.TaskStatusPending, 0, false)
}

// GetProcessingTasks retrieves tasks with "processing" status
func (s *PostgresTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]task.Record, error) {
	return s.getTasksByStatus(ctx, s.db, task.TaskStatusProcessing, olderThan, false)
}

// ResetStuckTasks implements task.TaskStore. Rows are locked while they are
// reset so that concurrent monitors do not requeue the same task twice.
func (s *PostgresTaskStore) ResetStuckTasks(ctx context.Context, olderThan time.Duration) ([]task.Record, error) {
	var reset []task.Record
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		stuck, err := s.getTasksByStatus(ctx, tx, task.TaskStatusProcessing, olderThan, true)
		if err != nil {
			return err
		}
		for _, rec := range stuck {
			if err := s.updateStatus(ctx, tx, rec.ID, task.TaskStatusPending,
				"Reset after being stuck in processing state"); err != nil {
				return err
			}
			rec.Status = task.TaskStatusPending
			reset = append(reset, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset stuck tasks: %w", err)
	}
	return reset, nil
}

func (s *PostgresTaskStore) getTasksByStatus(
	ctx context.Context,
	db store.DBTX,
	status task.TaskStatus,
	olderThan time.Duration,
	lock bool,
) ([]task.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + taskColumns + " FROM tasks WHERE status = $1"
	args := []any{string(status)}
	if olderThan > 0 {
		query += " AND updated_at < $2"
		args = append(args, s.now().Add(-olderThan))
	}
	query += " ORDER BY created_at ASC"
	if lock {
		query += " FOR UPDATE SKIP LOCKED"
	}

	records, err := taskTable.query(ctx, db, query, args...)
	if err != nil {
		log.Error("failed to query tasks by status",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil, err
	}
	return records, nil
}

// List implements task.Reader.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	f store.TaskFilter,
	page store.Page,
) (store.Result[task.Record], error) {
	c := newConditions()
	c.text("status", f.Status)
	c.text("type", f.Type)
	return taskTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements task.Reader.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*task.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rec, err := scanTask(s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("task_id", id.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}
	return &rec, nil
}
