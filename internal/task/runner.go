package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/citasmx/citas-api/internal/config"
)

var (
	// ErrQueueFull is returned by Submit when the in-memory queue has no room.
	ErrQueueFull = errors.New("task queue is full, try again later")

	// ErrRunnerStopped is returned by Submit after Stop.
	ErrRunnerStopped = errors.New("task runner is stopped")
)

// Outcomes reported to the Observer.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// Observer is notified when a task finishes.
type Observer interface {
	ObserveTask(taskType, outcome string, elapsed time.Duration)
}

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckTaskAge defines how long a task can be in processing state
	// before it's considered stuck and reset
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks
	// If zero, defaults to 5 minutes
	StuckTaskCheckInterval time.Duration

	// TaskTimeout bounds a single Execute call. If zero, defaults to 2 minutes.
	TaskTimeout time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
		TaskTimeout:            2 * time.Minute,
	}
}

// ConfigFromSettings builds the runner configuration from application settings.
func ConfigFromSettings(cfg config.TaskConfig) TaskRunnerConfig {
	rc := DefaultTaskRunnerConfig()
	rc.WorkerCount = cfg.WorkerCount
	rc.QueueSize = cfg.QueueSize
	rc.StuckTaskAge = time.Duration(cfg.StuckTaskAgeMinutes) * time.Minute
	return rc
}

// TaskRunner manages background task processing
type TaskRunner struct {
	store      TaskStore
	factory    Factory
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
	observer   Observer
	errHandler func(task Task, err error)
}

// NewTaskRunner creates a new TaskRunner. The factory rebuilds tasks read
// back from the store during recovery and stuck-task resets.
func NewTaskRunner(store TaskStore, factory Factory, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}
	if config.TaskTimeout == 0 {
		config.TaskTimeout = 2 * time.Minute
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "task_runner")

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskRunner{
		store:      store,
		factory:    factory,
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// SetObserver reports finished tasks to o.
func (r *TaskRunner) SetObserver(o Observer) {
	r.observer = o
}

// Submit persists a task and adds it to the queue. When the queue is full
// the stored task is marked failed so it is not picked up again on restart.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if r.ctx.Err() != nil {
		return ErrRunnerStopped
	}

	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	select {
	case r.taskChan <- task:
		return nil
	default:
		if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusFailed, ErrQueueFull.Error()); err != nil {
			r.logger.Error("failed to mark rejected task as failed",
				"task_id", task.ID(),
				"error", err)
		}
		return ErrQueueFull
	}
}

// Start recovers unfinished tasks and starts the workers and the stuck
// task monitor.
func (r *TaskRunner) Start() error {
	if err := r.Recover(r.ctx); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	r.logger.Info("task runner started",
		"workers", r.config.WorkerCount,
		"queue_size", r.config.QueueSize)
	return nil
}

// Stop cancels the workers and waits for in-flight tasks to finish.
// Queued tasks stay pending in the store and are recovered on next start.
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	r.logger.Info("task runner stopped")
}

// Recover requeues the pending tasks of a previous run and resets the
// processing ones, which were interrupted, back to pending.
func (r *TaskRunner) Recover(ctx context.Context) error {
	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	processing, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, rec := range processing {
		if err := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusPending, "reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing task status",
				"task_id", rec.ID,
				"task_type", rec.Type,
				"error", err)
			continue
		}
		pending = append(pending, rec)
	}

	r.requeue(ctx, pending, "recovered")
	return nil
}

// requeue rebuilds records through the factory and enqueues them. Records
// that cannot be rebuilt are marked failed.
func (r *TaskRunner) requeue(ctx context.Context, records []Record, reason string) {
	for _, rec := range records {
		task, err := r.factory.Restore(rec)
		if err != nil {
			r.logger.Error("failed to restore task",
				"task_id", rec.ID,
				"task_type", rec.Type,
				"error", err)
			if err := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusFailed, err.Error()); err != nil {
				r.logger.Error("failed to mark unrestorable task as failed", "task_id", rec.ID, "error", err)
			}
			continue
		}

		select {
		case r.taskChan <- task:
			r.logger.Debug("requeued task", "task_id", rec.ID, "task_type", rec.Type, "reason", reason)
		default:
			// left pending in the store for the next recovery
			r.logger.Error("failed to requeue task, queue is full",
				"task_id", rec.ID,
				"task_type", rec.Type,
				"reason", reason)
		}
	}
}

func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case task := <-r.taskChan:
			r.processTask(task, id)
		}
	}
}

func (r *TaskRunner) processTask(task Task, workerID int) {
	// Status updates must land even while stopping.
	ctx := context.WithoutCancel(r.ctx)
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusProcessing, ""); err != nil {
		logger.Error("failed to update task status to processing", "error", err)
		return
	}

	logger.Debug("processing task")
	start := time.Now()

	execCtx, cancel := context.WithTimeout(ctx, r.config.TaskTimeout)
	err := task.Execute(execCtx)
	cancel()
	elapsed := time.Since(start)

	if err != nil {
		if updateErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			logger.Error("failed to update task status to failed", "error", updateErr)
		}
		r.observe(task, OutcomeFailed, elapsed)
		r.errHandler(task, err)
		return
	}

	if updateErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusCompleted, ""); updateErr != nil {
		logger.Error("failed to update task status to completed", "error", updateErr)
	}
	r.observe(task, OutcomeCompleted, elapsed)
	logger.Info("task completed", "elapsed_ms", elapsed.Milliseconds())
}

func (r *TaskRunner) observe(task Task, outcome string, elapsed time.Duration) {
	if r.observer != nil {
		r.observer.ObserveTask(task.Type(), outcome, elapsed)
	}
}

// stuckTaskMonitor periodically resets tasks that stayed in processing
// longer than StuckTaskAge and requeues them.
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			stuck, err := r.store.ResetStuckTasks(r.ctx, r.config.StuckTaskAge)
			if err != nil {
				if r.ctx.Err() == nil {
					r.logger.Error("failed to reset stuck tasks", "error", err)
				}
				continue
			}
			if len(stuck) > 0 {
				r.logger.Warn("reset stuck tasks", "count", len(stuck))
				r.requeue(r.ctx, stuck, "stuck")
			}
		}
	}
}
