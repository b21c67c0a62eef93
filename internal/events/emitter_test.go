package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler records the events it receives.
type MockEventHandler struct {
	LastEvent    *TaskRequestEvent
	HandlerError error
	HandledCount int
}

// HandleEvent implements EventHandler.
func (h *MockEventHandler) HandleEvent(_ context.Context, event *TaskRequestEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(logger)
		event, err := NewTaskRequestEvent("notification_email", map[string]string{"key": "value"})
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.ErrorIs(t, err, ErrNoHandler)
	})

	t.Run("dispatches by event type", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(logger)

		mail1 := &MockEventHandler{}
		mail2 := &MockEventHandler{}
		other := &MockEventHandler{}
		emitter.RegisterHandler("notification_email", mail1)
		emitter.RegisterHandler("notification_email", mail2)
		emitter.RegisterHandler("report", other)

		event, err := NewTaskRequestEvent("notification_email", map[string]string{"key": "value"})
		require.NoError(t, err)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, 1, mail1.HandledCount)
		assert.Equal(t, 1, mail2.HandledCount)
		assert.Zero(t, other.HandledCount)
		assert.Same(t, event, mail1.LastEvent)
	})

	t.Run("failing handler does not stop the others", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(logger)

		failing := &MockEventHandler{HandlerError: errors.New("handler error")}
		success := &MockEventHandler{}
		emitter.RegisterHandler("notification_email", failing)
		emitter.RegisterHandler("notification_email", success)

		event, err := NewTaskRequestEvent("notification_email", nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "handler error")
		assert.Equal(t, 1, failing.HandledCount)
		assert.Equal(t, 1, success.HandledCount)
	})

	t.Run("nil event", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, NewInMemoryEventEmitter(nil).EmitEvent(context.Background(), nil))
	})
}
