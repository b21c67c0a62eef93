package outreach

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/platform/mailer"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	citas    []domain.Appointment
	clients  map[int64]*domain.Client
	offices  map[int64]*domain.Office
	services map[int64]*domain.Service

	walkErr       error
	clientErr     error
	clientLookups int
	gotAttended   *bool
	gotFecha      domain.Date
}

func (d *fakeDirectory) EachAppointment(_ context.Context, fecha domain.Date, attended *bool, fn func(domain.Appointment) error) error {
	d.gotFecha = fecha
	d.gotAttended = attended
	if d.walkErr != nil {
		return d.walkErr
	}
	for _, c := range d.citas {
		if attended != nil && c.Asistio != *attended {
			continue
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

func (d *fakeDirectory) GetClient(_ context.Context, id int64) (*domain.Client, error) {
	d.clientLookups++
	if d.clientErr != nil {
		return nil, d.clientErr
	}
	if c, ok := d.clients[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("cliente %d: %w", id, store.ErrNotFound)
}

func (d *fakeDirectory) GetOffice(_ context.Context, id int64) (*domain.Office, error) {
	if o, ok := d.offices[id]; ok {
		return o, nil
	}
	return nil, store.ErrNotFound
}

func (d *fakeDirectory) GetService(_ context.Context, id int64) (*domain.Service, error) {
	if s, ok := d.services[id]; ok {
		return s, nil
	}
	return nil, store.ErrNotFound
}

type recordingSender struct {
	sent []mailer.Message
	fail map[string]bool
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	if s.fail[msg.To.Email] {
		return mailer.ErrProvider
	}
	s.sent = append(s.sent, msg)
	return nil
}

func fixture(t *testing.T) (*Mailer, *fakeDirectory, *recordingSender) {
	t.Helper()
	fecha := domain.NewDate(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))
	dir := &fakeDirectory{
		citas: []domain.Appointment{
			{ID: 1, Folio: "F-001", ClienteID: 10, OficinaID: 1, ServicioID: 5, Fecha: fecha, Hora: domain.Clock(9*60 + 30), Asistio: true},
			{ID: 2, Folio: "F-002", ClienteID: 11, OficinaID: 1, ServicioID: 5, Fecha: fecha, Hora: domain.Clock(10 * 60)},
			{ID: 3, Folio: "F-003", ClienteID: 10, OficinaID: 1, ServicioID: 5, Fecha: fecha, Hora: domain.Clock(11 * 60), Asistio: true},
			{ID: 4, Folio: "F-004", ClienteID: 99, OficinaID: 1, ServicioID: 5, Fecha: fecha, Hora: domain.Clock(12 * 60)},
			{ID: 5, Folio: "F-005", ClienteID: 12, OficinaID: 1, ServicioID: 5, Fecha: fecha, Hora: domain.Clock(13 * 60)},
		},
		clients: map[int64]*domain.Client{
			10: {ID: 10, Nombre: "Ana", ApellidoPaterno: "López", Email: "ana@example.com"},
			11: {ID: 11, Nombre: "Luis", Email: ""},
			12: {ID: 12, Nombre: "Rosa", Email: "rosa@example.com"},
		},
		offices:  map[int64]*domain.Office{1: {ID: 1, Nombre: "Oficina Centro", Direccion: "Av. Juárez 10"}},
		services: map[int64]*domain.Service{5: {ID: 5, Nombre: "Licencia de conducir"}},
	}
	sender := &recordingSender{fail: map[string]bool{"rosa@example.com": true}}
	renderer, err := mailer.NewRenderer()
	require.NoError(t, err)

	m, err := NewMailer(Deps{
		Directory: dir,
		Renderer:  renderer,
		Sender:    sender,
		PortalURL: "https://citas.example.gob.mx/",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return m, dir, sender
}

func TestNewMailer(t *testing.T) {
	t.Parallel()

	_, err := NewMailer(Deps{})
	assert.Error(t, err)

	_, err = NewMailer(Deps{Directory: &fakeDirectory{}})
	assert.Error(t, err)
}

func TestSendReminders(t *testing.T) {
	t.Parallel()

	m, dir, sender := fixture(t)
	res, err := m.SendReminders(context.Background(), dir.citas[0].Fecha)
	require.NoError(t, err)

	// ana twice, luis without e-mail, 99 missing, rosa rejected by the provider
	assert.Equal(t, Result{Sent: 2, Skipped: 2, Failed: 1}, res)
	assert.Nil(t, dir.gotAttended)
	assert.Equal(t, 4, dir.clientLookups, "clients are looked up once per run")

	require.Len(t, sender.sent, 2)
	msg := sender.sent[0]
	assert.Equal(t, mailer.TemplateRecordatorio, msg.Template)
	assert.Equal(t, "ana@example.com", msg.To.Email)
	assert.Equal(t, "Ana López", msg.To.Name)
	assert.Equal(t, "Recordatorio de su cita F-001", msg.Subject)
	assert.Contains(t, msg.Text, "Fecha: 04/03/2025 a las 09:30")
	assert.Contains(t, msg.Text, "Oficina: Oficina Centro, Av. Juárez 10")
	assert.Contains(t, msg.Text, "Servicio: Licencia de conducir")
}

func TestSendReminders_MissingOfficeSkips(t *testing.T) {
	t.Parallel()

	m, dir, sender := fixture(t)
	dir.offices = map[int64]*domain.Office{}

	res, err := m.SendReminders(context.Background(), dir.citas[0].Fecha)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sent)
	assert.Equal(t, 5, res.Skipped)
	assert.Empty(t, sender.sent)
}

func TestSendReminders_ClientLookupFailureCounts(t *testing.T) {
	t.Parallel()

	m, dir, _ := fixture(t)
	dir.clientErr = errors.New("api responded 500")

	res, err := m.SendReminders(context.Background(), dir.citas[0].Fecha)
	require.NoError(t, err)
	assert.Equal(t, Result{Failed: 5}, res)
}

func TestSendReminders_WalkError(t *testing.T) {
	t.Parallel()

	m, dir, _ := fixture(t)
	dir.walkErr = errors.New("connection refused")

	_, err := m.SendReminders(context.Background(), dir.citas[0].Fecha)
	assert.ErrorContains(t, err, "failed to walk appointments")
}

func TestSendSurveyInvitations(t *testing.T) {
	t.Parallel()

	m, dir, sender := fixture(t)
	res, err := m.SendSurveyInvitations(context.Background(), dir.citas[0].Fecha)
	require.NoError(t, err)

	require.NotNil(t, dir.gotAttended)
	assert.True(t, *dir.gotAttended)
	assert.Equal(t, Result{Sent: 2}, res)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, mailer.TemplateEncuesta, sender.sent[1].Template)
	assert.Contains(t, sender.sent[1].HTML, `href="https://citas.example.gob.mx/encuesta?folio=F-003"`)
}
