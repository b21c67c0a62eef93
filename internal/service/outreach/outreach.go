// Package outreach e-mails appointment reminders and survey invitations to
// the clients booked on a given day.
package outreach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/platform/logger"
	"github.com/citasmx/citas-api/internal/platform/mailer"
	"github.com/citasmx/citas-api/internal/redact"
	"github.com/citasmx/citas-api/internal/store"
)

// Directory looks up the rows a message is built from. Missing or
// soft-deleted rows are reported with store.ErrNotFound and the recipients
// behind them are skipped.
type Directory interface {
	EachAppointment(ctx context.Context, fecha domain.Date, attended *bool, fn func(domain.Appointment) error) error
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	GetOffice(ctx context.Context, id int64) (*domain.Office, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// Result counts the outcome of one run.
type Result struct {
	Sent    int `json:"enviados"`
	Skipped int `json:"omitidos"`
	Failed  int `json:"fallidos"`
}

// Deps are the collaborators of a Mailer.
type Deps struct {
	Directory Directory
	Renderer  *mailer.Renderer
	Sender    mailer.Sender
	PortalURL string
	Logger    *slog.Logger
}

// Mailer sends the outreach e-mails.
type Mailer struct {
	dir       Directory
	renderer  *mailer.Renderer
	sender    mailer.Sender
	portalURL string
	logger    *slog.Logger
}

// NewMailer validates deps and creates the Mailer.
func NewMailer(deps Deps) (*Mailer, error) {
	if deps.Directory == nil {
		return nil, fmt.Errorf("directory cannot be nil")
	}
	if deps.Renderer == nil || deps.Sender == nil {
		return nil, fmt.Errorf("renderer and sender cannot be nil")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Mailer{
		dir:       deps.Directory,
		renderer:  deps.Renderer,
		sender:    deps.Sender,
		portalURL: strings.TrimRight(deps.PortalURL, "/"),
		logger:    log.With("component", "outreach"),
	}, nil
}

// SendReminders e-mails a reminder for every active appointment on fecha.
func (m *Mailer) SendReminders(ctx context.Context, fecha domain.Date) (Result, error) {
	run := m.newRun(ctx, mailer.TemplateRecordatorio)
	err := m.dir.EachAppointment(ctx, fecha, nil, func(cita domain.Appointment) error {
		client, ok := run.recipient(cita)
		if !ok {
			return nil
		}
		office, err := run.office(cita.OficinaID)
		if err != nil {
			return run.skipOrFail(cita, err)
		}
		service, err := run.service(cita.ServicioID)
		if err != nil {
			return run.skipOrFail(cita, err)
		}
		run.send(cita, client, mailer.ReminderData{
			Nombre:    client.FullName(),
			Folio:     cita.Folio,
			Servicio:  service.Nombre,
			Fecha:     cita.Fecha.Format("02/01/2006"),
			Hora:      cita.Hora.String(),
			Oficina:   office.Nombre,
			Direccion: office.Direccion,
		})
		return ctx.Err()
	})
	return run.finish(err)
}

// SendSurveyInvitations e-mails a survey invitation to every client who
// attended an appointment on fecha.
func (m *Mailer) SendSurveyInvitations(ctx context.Context, fecha domain.Date) (Result, error) {
	run := m.newRun(ctx, mailer.TemplateEncuesta)
	attended := true
	err := m.dir.EachAppointment(ctx, fecha, &attended, func(cita domain.Appointment) error {
		client, ok := run.recipient(cita)
		if !ok {
			return nil
		}
		run.send(cita, client, mailer.SurveyData{
			Nombre: client.FullName(),
			Folio:  cita.Folio,
			Enlace: m.portalURL + "/encuesta?folio=" + url.QueryEscape(cita.Folio),
		})
		return ctx.Err()
	})
	return run.finish(err)
}

// run holds the lookups cached during one SendReminders or
// SendSurveyInvitations call.
type run struct {
	ctx      context.Context
	m        *Mailer
	template mailer.TemplateName
	log      *slog.Logger
	result   Result

	clients  map[int64]*domain.Client
	offices  map[int64]*domain.Office
	services map[int64]*domain.Service
}

func (m *Mailer) newRun(ctx context.Context, template mailer.TemplateName) *run {
	return &run{
		ctx:      ctx,
		m:        m,
		template: template,
		log:      logger.FromContextOrDefault(ctx, m.logger).With("template", template),
		clients:  make(map[int64]*domain.Client),
		offices:  make(map[int64]*domain.Office),
		services: make(map[int64]*domain.Service),
	}
}

// recipient returns the client of cita when it can receive mail.
func (r *run) recipient(cita domain.Appointment) (*domain.Client, bool) {
	client, ok := r.clients[cita.ClienteID]
	if !ok {
		var err error
		client, err = r.m.dir.GetClient(r.ctx, cita.ClienteID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			r.log.Warn("client lookup failed", "cita_id", cita.ID, "error", redact.Error(err))
			r.result.Failed++
			return nil, false
		}
		r.clients[cita.ClienteID] = client
	}
	if client == nil || strings.TrimSpace(client.Email) == "" {
		r.log.Debug("appointment skipped, no recipient", "cita_id", cita.ID, "cliente_id", cita.ClienteID)
		r.result.Skipped++
		return nil, false
	}
	return client, true
}

func (r *run) office(id int64) (*domain.Office, error) {
	if o, ok := r.offices[id]; ok {
		return o, nil
	}
	o, err := r.m.dir.GetOffice(r.ctx, id)
	if err != nil {
		return nil, err
	}
	r.offices[id] = o
	return o, nil
}

func (r *run) service(id int64) (*domain.Service, error) {
	if s, ok := r.services[id]; ok {
		return s, nil
	}
	s, err := r.m.dir.GetService(r.ctx, id)
	if err != nil {
		return nil, err
	}
	r.services[id] = s
	return s, nil
}

// skipOrFail counts a failed lookup and keeps the walk going.
func (r *run) skipOrFail(cita domain.Appointment, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		r.result.Skipped++
		return nil
	}
	r.log.Warn("appointment lookup failed", "cita_id", cita.ID, "error", redact.Error(err))
	r.result.Failed++
	return nil
}

func (r *run) send(cita domain.Appointment, client *domain.Client, data any) {
	to := mailer.Address{Email: client.Email, Name: client.FullName()}
	msg, err := r.m.renderer.Compose(r.template, to, data)
	if err == nil {
		err = r.m.sender.Send(r.ctx, msg)
	}
	if err != nil {
		r.log.Warn("outreach e-mail failed", "cita_id", cita.ID, "error", redact.Error(err))
		r.result.Failed++
		return
	}
	r.result.Sent++
}

func (r *run) finish(err error) (Result, error) {
	if err != nil {
		return r.result, fmt.Errorf("failed to walk appointments: %w", err)
	}
	r.log.Info("outreach finished",
		"sent", r.result.Sent,
		"skipped", r.result.Skipped,
		"failed", r.result.Failed)
	return r.result, nil
}
