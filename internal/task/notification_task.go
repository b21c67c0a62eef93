package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/platform/logger"
	"github.com/citasmx/citas-api/internal/platform/mailer"
	"github.com/citasmx/citas-api/internal/redact"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/google/uuid"
)

// ErrUnknownTaskType is returned when a record or event names a task type no
// factory can build.
var ErrUnknownTaskType = errors.New("unknown task type")

// NotificationPayload identifies the registros or recuperaciones row to
// notify. The token is read from the row at execution time so it never
// appears in the tasks table.
type NotificationPayload struct {
	Tipo domain.PendingKind `json:"tipo"`
	ID   int64              `json:"id"`
}

// Validate checks the kind and id.
func (p NotificationPayload) Validate() error {
	if _, err := domain.ParsePendingKind(string(p.Tipo)); err != nil {
		return err
	}
	if p.ID <= 0 {
		return domain.NewValidationError("id", "must be a positive integer", domain.ErrInvalidID)
	}
	return nil
}

// linkPaths are the portal pages the e-mailed tokens open.
var linkPaths = map[domain.PendingKind]string{
	domain.PendingRegistration: "/registro/confirmar",
	domain.PendingRecovery:     "/recuperar",
}

var linkTemplates = map[domain.PendingKind]mailer.TemplateName{
	domain.PendingRegistration: mailer.TemplateRegistro,
	domain.PendingRecovery:     mailer.TemplateRecuperacion,
}

// NotificationDeps are the collaborators notification tasks need.
type NotificationDeps struct {
	Pending   []store.PendingStore
	Renderer  *mailer.Renderer
	Sender    mailer.Sender
	PortalURL string
	Location  *time.Location
	Logger    *slog.Logger
}

// NotificationTaskFactory builds notification_email tasks.
type NotificationTaskFactory struct {
	pending   map[domain.PendingKind]store.PendingStore
	renderer  *mailer.Renderer
	sender    mailer.Sender
	portalURL string
	location  *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

var _ Factory = (*NotificationTaskFactory)(nil)

// NewNotificationTaskFactory validates deps and creates the factory.
func NewNotificationTaskFactory(deps NotificationDeps) (*NotificationTaskFactory, error) {
	if deps.Renderer == nil || deps.Sender == nil {
		return nil, fmt.Errorf("renderer and sender cannot be nil")
	}
	pending := make(map[domain.PendingKind]store.PendingStore, len(deps.Pending))
	for _, s := range deps.Pending {
		pending[s.Kind()] = s
	}
	for kind := range linkPaths {
		if pending[kind] == nil {
			return nil, fmt.Errorf("no pending store for %s", kind)
		}
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &NotificationTaskFactory{
		pending:   pending,
		renderer:  deps.Renderer,
		sender:    deps.Sender,
		portalURL: strings.TrimRight(deps.PortalURL, "/"),
		location:  loc,
		now:       time.Now,
		logger:    log.With("component", "notification_task"),
	}, nil
}

// Create builds a new pending task for payload.
func (f *NotificationTaskFactory) Create(payload NotificationPayload) (*NotificationTask, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return &NotificationTask{
		id:      uuid.New(),
		payload: payload,
		raw:     raw,
		status:  TaskStatusPending,
		factory: f,
	}, nil
}

// Build decodes an event payload into a new task.
func (f *NotificationTaskFactory) Build(taskType string, payload json.RawMessage) (Task, error) {
	if taskType != TaskTypeNotificationEmail {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTaskType, taskType)
	}
	var p NotificationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return f.Create(p)
}

// Restore rebuilds a persisted task, keeping its id.
func (f *NotificationTaskFactory) Restore(rec Record) (Task, error) {
	t, err := f.Build(rec.Type, rec.Payload)
	if err != nil {
		return nil, err
	}
	nt := t.(*NotificationTask)
	nt.id = rec.ID
	nt.status = rec.Status
	return nt, nil
}

// NotificationTask e-mails the link of one registration or recovery.
type NotificationTask struct {
	id      uuid.UUID
	payload NotificationPayload
	raw     []byte
	status  TaskStatus
	factory *NotificationTaskFactory
}

var _ Task = (*NotificationTask)(nil)

// ID returns the task id.
func (t *NotificationTask) ID() uuid.UUID { return t.id }

// Type returns TaskTypeNotificationEmail.
func (t *NotificationTask) Type() string { return TaskTypeNotificationEmail }

// Payload returns the JSON payload.
func (t *NotificationTask) Payload() []byte { return t.raw }

// Status returns the status the task was created or restored with.
func (t *NotificationTask) Status() TaskStatus { return t.status }

// Target returns the row the task notifies.
func (t *NotificationTask) Target() NotificationPayload { return t.payload }

// Execute loads the row, renders the template of its kind and sends it.
// Rows that were used or deleted meanwhile are skipped without error; rows
// that expired meanwhile are deactivated instead of sent.
func (t *NotificationTask) Execute(ctx context.Context) error {
	f := t.factory
	log := logger.FromContextOrDefault(ctx, f.logger).With(
		"task_id", t.id,
		"tipo", t.payload.Tipo,
		"pending_id", t.payload.ID)

	pending := f.pending[t.payload.Tipo]
	row, err := pending.GetByID(ctx, t.payload.ID)
	if err != nil {
		return fmt.Errorf("failed to load %s %d: %w", t.payload.Tipo, t.payload.ID, err)
	}
	if !row.Estatus.IsActive() || row.Usado {
		log.Info("notification skipped, link no longer pending")
		return nil
	}
	if row.Expired(f.now()) {
		err := pending.Deactivate(ctx, row.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to deactivate expired %s %d: %w", t.payload.Tipo, row.ID, err)
		}
		log.Info("notification skipped, link expired before sending")
		return nil
	}

	msg, err := f.renderer.Compose(linkTemplates[t.payload.Tipo], mailer.Address{Email: row.Email, Name: row.Nombre},
		mailer.LinkData{
			Nombre:   row.Nombre,
			Enlace:   f.link(t.payload.Tipo, row.Token),
			ExpiraEn: row.ExpiraEn.In(f.location).Format("02/01/2006 15:04"),
		})
	if err != nil {
		return err
	}
	if err := f.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s notification: %w", t.payload.Tipo, err)
	}

	log.Info("notification sent", "to", redact.String(row.Email))
	return nil
}

func (f *NotificationTaskFactory) link(kind domain.PendingKind, token string) string {
	return f.portalURL + linkPaths[kind] + "?token=" + url.QueryEscape(token)
}
