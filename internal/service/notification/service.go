// Package notification re-sends the e-mail links of registrations and
// password recoveries that are still waiting to be used.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/events"
	"github.com/citasmx/citas-api/internal/platform/logger"
	"github.com/citasmx/citas-api/internal/redact"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/citasmx/citas-api/internal/task"
)

// ResendResult counts what one resend run did.
type ResendResult struct {
	Tipo    domain.PendingKind `json:"tipo"`
	Queued  int                `json:"encoladas"`
	Expired int                `json:"vencidas"`
	Failed  int                `json:"fallidas"`
}

// Service runs the resend loop.
type Service struct {
	pending map[domain.PendingKind]store.PendingStore
	emitter events.EventEmitter
	now     func() time.Time
	logger  *slog.Logger
}

// NewService creates the service. Every pending kind needs a store.
func NewService(pending []store.PendingStore, emitter events.EventEmitter, logger *slog.Logger) (*Service, error) {
	if emitter == nil {
		return nil, fmt.Errorf("event emitter cannot be nil")
	}
	stores := make(map[domain.PendingKind]store.PendingStore, len(pending))
	for _, s := range pending {
		stores[s.Kind()] = s
	}
	for _, kind := range []domain.PendingKind{domain.PendingRegistration, domain.PendingRecovery} {
		if stores[kind] == nil {
			return nil, fmt.Errorf("no pending store for %s", kind)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pending: stores,
		emitter: emitter,
		now:     time.Now,
		logger:  logger.With("component", "notification_service"),
	}, nil
}

// ResendPending deactivates the expired rows of kind and queues one
// notification for every other pending row. A row that cannot be
// deactivated or queued is counted as failed and the loop continues.
func (s *Service) ResendPending(ctx context.Context, kind domain.PendingKind) (ResendResult, error) {
	result := ResendResult{Tipo: kind}
	pending, ok := s.pending[kind]
	if !ok {
		return result, domain.NewValidationError("tipo", "unknown pending kind", domain.ErrValidation)
	}
	log := logger.FromContextOrDefault(ctx, s.logger).With("tipo", kind)

	rows, err := pending.ListPending(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list pending %s rows: %w", kind, err)
	}

	now := s.now()
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		row := &rows[i]

		if row.Expired(now) {
			if err := pending.Deactivate(ctx, row.ID); err != nil {
				result.Failed++
				log.Error("failed to deactivate expired row",
					"pending_id", row.ID,
					"error", redact.Error(err))
				continue
			}
			result.Expired++
			continue
		}

		event, err := events.NewTaskRequestEvent(task.TaskTypeNotificationEmail,
			task.NotificationPayload{Tipo: kind, ID: row.ID})
		if err == nil {
			err = s.emitter.EmitEvent(ctx, event)
		}
		if err != nil {
			result.Failed++
			log.Error("failed to queue notification",
				"pending_id", row.ID,
				"to", redact.String(row.Email),
				"error", redact.Error(err))
			continue
		}
		result.Queued++
	}

	log.Info("resend finished",
		"queued", result.Queued,
		"expired", result.Expired,
		"failed", result.Failed)
	return result, nil
}
