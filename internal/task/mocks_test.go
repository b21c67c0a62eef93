package task

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockTaskStore keeps task records in memory.
type MockTaskStore struct {
	mu             sync.Mutex
	records        map[uuid.UUID]*Record
	SaveFn         func(ctx context.Context, task Task) error
	UpdateStatusFn func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error
}

func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{records: make(map[uuid.UUID]*Record)}
}

func (s *MockTaskStore) SaveTask(ctx context.Context, task Task) error {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, task)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.records[task.ID()] = &Record{
		ID:        task.ID(),
		Type:      task.Type(),
		Payload:   json.RawMessage(task.Payload()),
		Status:    task.Status(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *MockTaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, taskID, status, errorMsg)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[taskID]; ok {
		rec.Status = status
		rec.ErrorMessage = errorMsg
		rec.UpdatedAt = time.Now()
	}
	return nil
}

func (s *MockTaskStore) byStatus(status TaskStatus, olderThan time.Duration) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	cutoff := time.Now().Add(-olderThan)
	for _, rec := range s.records {
		if rec.Status != status {
			continue
		}
		if olderThan > 0 && rec.UpdatedAt.After(cutoff) {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

func (s *MockTaskStore) GetPendingTasks(context.Context) ([]Record, error) {
	return s.byStatus(TaskStatusPending, 0), nil
}

func (s *MockTaskStore) GetProcessingTasks(_ context.Context, olderThan time.Duration) ([]Record, error) {
	return s.byStatus(TaskStatusProcessing, olderThan), nil
}

func (s *MockTaskStore) ResetStuckTasks(ctx context.Context, olderThan time.Duration) ([]Record, error) {
	stuck := s.byStatus(TaskStatusProcessing, olderThan)
	for i := range stuck {
		_ = s.UpdateTaskStatus(ctx, stuck[i].ID, TaskStatusPending, "reset")
		stuck[i].Status = TaskStatusPending
	}
	return stuck, nil
}

// put stores a record directly, bypassing SaveTask.
func (s *MockTaskStore) put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = &rec
}

func (s *MockTaskStore) status(id uuid.UUID) TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		return rec.Status
	}
	return ""
}

// MockTask runs ExecuteFn.
type MockTask struct {
	id        uuid.UUID
	taskType  string
	payload   []byte
	status    TaskStatus
	ExecuteFn func(ctx context.Context) error
}

func NewMockTask(payload string) *MockTask {
	raw, _ := json.Marshal(map[string]string{"message": payload})
	return &MockTask{id: uuid.New(), taskType: "mock_task", payload: raw, status: TaskStatusPending}
}

func (t *MockTask) ID() uuid.UUID      { return t.id }
func (t *MockTask) Type() string       { return t.taskType }
func (t *MockTask) Payload() []byte    { return t.payload }
func (t *MockTask) Status() TaskStatus { return t.status }

func (t *MockTask) Execute(ctx context.Context) error {
	if t.ExecuteFn != nil {
		return t.ExecuteFn(ctx)
	}
	return nil
}

// mockFactory restores records into MockTasks that report on done.
type mockFactory struct {
	done       chan uuid.UUID
	restoreErr error
}

func (f *mockFactory) Build(taskType string, payload json.RawMessage) (Task, error) {
	if taskType != "mock_task" {
		return nil, ErrUnknownTaskType
	}
	return &MockTask{id: uuid.New(), taskType: taskType, payload: payload, status: TaskStatusPending}, nil
}

func (f *mockFactory) Restore(rec Record) (Task, error) {
	if f.restoreErr != nil {
		return nil, f.restoreErr
	}
	t := &MockTask{id: rec.ID, taskType: rec.Type, payload: rec.Payload, status: rec.Status}
	t.ExecuteFn = func(context.Context) error {
		if f.done != nil {
			f.done <- rec.ID
		}
		return nil
	}
	return t, nil
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveTask(_ string, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) snapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.outcomes...)
}
