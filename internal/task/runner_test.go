package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/citasmx/citas-api/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func waitFor(t *testing.T, ch <-chan uuid.UUID, n int) map[uuid.UUID]bool {
	t.Helper()
	seen := make(map[uuid.UUID]bool)
	timeout := time.After(2 * time.Second)
	for len(seen) < n {
		select {
		case id := <-ch:
			seen[id] = true
		case <-timeout:
			t.Fatalf("timed out waiting for %d tasks, got %d", n, len(seen))
		}
	}
	return seen
}

func TestConfigFromSettings(t *testing.T) {
	t.Parallel()

	rc := ConfigFromSettings(config.TaskConfig{WorkerCount: 4, QueueSize: 50, StuckTaskAgeMinutes: 10})
	assert.Equal(t, 4, rc.WorkerCount)
	assert.Equal(t, 50, rc.QueueSize)
	assert.Equal(t, 10*time.Minute, rc.StuckTaskAge)
	assert.Equal(t, 5*time.Minute, rc.StuckTaskCheckInterval)
}

func TestTaskRunner_Submit(t *testing.T) {
	t.Parallel()

	t.Run("successful submission", func(t *testing.T) {
		t.Parallel()
		store := NewMockTaskStore()
		runner := NewTaskRunner(store, &mockFactory{}, DefaultTaskRunnerConfig(), discardLogger())

		task := NewMockTask("test task")
		require.NoError(t, runner.Submit(context.Background(), task))
		assert.Equal(t, TaskStatusPending, store.status(task.ID()))
	})

	t.Run("queue full marks the task failed", func(t *testing.T) {
		t.Parallel()
		store := NewMockTaskStore()
		cfg := DefaultTaskRunnerConfig()
		cfg.QueueSize = 1
		runner := NewTaskRunner(store, &mockFactory{}, cfg, discardLogger())

		require.NoError(t, runner.Submit(context.Background(), NewMockTask("task 1")))

		rejected := NewMockTask("task 2")
		err := runner.Submit(context.Background(), rejected)
		assert.ErrorIs(t, err, ErrQueueFull)
		assert.Equal(t, TaskStatusFailed, store.status(rejected.ID()))
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()
		store := NewMockTaskStore()
		store.SaveFn = func(context.Context, Task) error { return errors.New("mock store error") }
		runner := NewTaskRunner(store, &mockFactory{}, DefaultTaskRunnerConfig(), discardLogger())

		err := runner.Submit(context.Background(), NewMockTask("error task"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save task")
	})

	t.Run("stopped runner", func(t *testing.T) {
		t.Parallel()
		runner := NewTaskRunner(NewMockTaskStore(), &mockFactory{}, DefaultTaskRunnerConfig(), discardLogger())
		require.NoError(t, runner.Start())
		runner.Stop()

		assert.ErrorIs(t, runner.Submit(context.Background(), NewMockTask("late")), ErrRunnerStopped)
	})
}

func TestTaskRunner_ProcessesSubmittedTasks(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	cfg := DefaultTaskRunnerConfig()
	cfg.QueueSize = 10
	runner := NewTaskRunner(store, &mockFactory{}, cfg, discardLogger())
	observer := &recordingObserver{}
	runner.SetObserver(observer)

	done := make(chan uuid.UUID, 5)
	ids := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		task := NewMockTask("test task")
		task.ExecuteFn = func(context.Context) error {
			done <- task.ID()
			return nil
		}
		ids = append(ids, task.ID())
		require.NoError(t, runner.Submit(context.Background(), task))
	}

	require.NoError(t, runner.Start())
	seen := waitFor(t, done, 3)
	runner.Stop()

	for _, id := range ids {
		assert.True(t, seen[id])
		assert.Equal(t, TaskStatusCompleted, store.status(id))
	}
	assert.Equal(t, []string{OutcomeCompleted, OutcomeCompleted, OutcomeCompleted}, observer.snapshot())
}

func TestTaskRunner_TaskFailure(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	runner := NewTaskRunner(store, &mockFactory{}, DefaultTaskRunnerConfig(), discardLogger())

	failed := make(chan error, 1)
	runner.SetErrorHandler(func(_ Task, err error) { failed <- err })

	task := NewMockTask("failing task")
	task.ExecuteFn = func(context.Context) error { return errors.New("intentional test failure") }
	require.NoError(t, runner.Submit(context.Background(), task))
	require.NoError(t, runner.Start())

	select {
	case err := <-failed:
		assert.EqualError(t, err, "intentional test failure")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error handler")
	}
	runner.Stop()

	assert.Equal(t, TaskStatusFailed, store.status(task.ID()))
}

func TestTaskRunner_Recover(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	pending := Record{ID: uuid.New(), Type: "mock_task", Status: TaskStatusPending, UpdatedAt: time.Now()}
	processing := Record{ID: uuid.New(), Type: "mock_task", Status: TaskStatusProcessing, UpdatedAt: time.Now()}
	completed := Record{ID: uuid.New(), Type: "mock_task", Status: TaskStatusCompleted, UpdatedAt: time.Now()}
	store.put(pending)
	store.put(processing)
	store.put(completed)

	factory := &mockFactory{done: make(chan uuid.UUID, 5)}
	runner := NewTaskRunner(store, factory, DefaultTaskRunnerConfig(), discardLogger())
	require.NoError(t, runner.Start())

	seen := waitFor(t, factory.done, 2)
	runner.Stop()

	assert.True(t, seen[pending.ID])
	assert.True(t, seen[processing.ID])
	assert.False(t, seen[completed.ID])
}

func TestTaskRunner_RecoverUnrestorable(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	rec := Record{ID: uuid.New(), Type: "retired_type", Status: TaskStatusPending, UpdatedAt: time.Now()}
	store.put(rec)

	runner := NewTaskRunner(store, &mockFactory{restoreErr: ErrUnknownTaskType}, DefaultTaskRunnerConfig(), discardLogger())
	require.NoError(t, runner.Recover(context.Background()))
	assert.Equal(t, TaskStatusFailed, store.status(rec.ID))
}

func TestTaskRunner_StuckTasks(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	factory := &mockFactory{done: make(chan uuid.UUID, 5)}

	cfg := DefaultTaskRunnerConfig()
	cfg.StuckTaskAge = 15 * time.Minute
	cfg.StuckTaskCheckInterval = 50 * time.Millisecond
	runner := NewTaskRunner(store, factory, cfg, discardLogger())
	require.NoError(t, runner.Start())

	// placed after start so only the monitor can find it
	stuck := Record{ID: uuid.New(), Type: "mock_task", Status: TaskStatusProcessing, UpdatedAt: time.Now().Add(-30 * time.Minute)}
	fresh := Record{ID: uuid.New(), Type: "mock_task", Status: TaskStatusProcessing, UpdatedAt: time.Now()}
	store.put(stuck)
	store.put(fresh)

	select {
	case id := <-factory.done:
		assert.Equal(t, stuck.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stuck task")
	}
	runner.Stop()

	assert.Equal(t, TaskStatusProcessing, store.status(fresh.ID))
}
