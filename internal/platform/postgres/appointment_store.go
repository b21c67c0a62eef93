package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/platform/logger"
	"github.com/citasmx/citas-api/internal/store"
)

var clientTable = table[domain.Client]{
	name: "clientes",
	columns: "id, curp, nombre, apellido_paterno, apellido_materno, email, telefono, " +
		"estatus, creado_en",
	notFound: store.ErrClientNotFound,
	scan: func(r rowScanner) (domain.Client, error) {
		var c domain.Client
		err := r.Scan(&c.ID, &c.CURP, &c.Nombre, &c.ApellidoPaterno, &c.ApellidoMaterno,
			&c.Email, &c.Telefono, &c.Estatus, &c.CreatedAt)
		return c, err
	},
}

var appointmentTable = table[domain.Appointment]{
	name: "citas",
	columns: "id, folio, cliente_id, oficina_id, servicio_id, fecha, to_char(hora, 'HH24:MI'), " +
		"asistio, estatus, creado_en",
	notFound: store.ErrAppointmentNotFound,
	scan: func(r rowScanner) (domain.Appointment, error) {
		var a domain.Appointment
		err := r.Scan(&a.ID, &a.Folio, &a.ClienteID, &a.OficinaID, &a.ServicioID, &a.Fecha,
			&a.Hora, &a.Asistio, &a.Estatus, &a.CreatedAt)
		return a, err
	},
}

var surveyTable = table[domain.Survey]{
	name:     "encuestas",
	columns:  "id, cita_id, calificacion, comentario, estatus, creado_en",
	notFound: store.ErrSurveyNotFound,
	scan: func(r rowScanner) (domain.Survey, error) {
		var s domain.Survey
		err := r.Scan(&s.ID, &s.CitaID, &s.Calificacion, &s.Comentario, &s.Estatus, &s.CreatedAt)
		return s, err
	},
}

var paymentTable = table[domain.Payment]{
	name:     "pagos",
	columns:  "id, cita_id, referencia, monto, pagado, fecha_pago, estatus, creado_en",
	notFound: store.ErrPaymentNotFound,
	scan: func(r rowScanner) (domain.Payment, error) {
		var p domain.Payment
		var fechaPago sql.NullTime
		err := r.Scan(&p.ID, &p.CitaID, &p.Referencia, &p.Monto, &p.Pagado, &fechaPago,
			&p.Estatus, &p.CreatedAt)
		if fechaPago.Valid {
			t := fechaPago.Time
			p.FechaPago = &t
		}
		return p, err
	},
}

// PostgresClientStore implements store.ClientStore.
type PostgresClientStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresClientStore creates a clientes store.
func NewPostgresClientStore(db store.DBTX, logger *slog.Logger) *PostgresClientStore {
	return &PostgresClientStore{db: db, logger: componentLogger(logger, "client_store")}
}

var _ store.ClientStore = (*PostgresClientStore)(nil)

// List implements store.ClientStore.
func (s *PostgresClientStore) List(
	ctx context.Context,
	f store.ClientFilter,
	page store.Page,
) (store.Result[domain.Client], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.text("curp", f.CURP)
	c.textFold("email", f.Email)
	if f.Nombre != "" {
		c.add("(nombre ILIKE %[1]s OR apellido_paterno ILIKE %[1]s OR apellido_materno ILIKE %[1]s)",
			likePattern(f.Nombre))
	}
	return clientTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.ClientStore.
func (s *PostgresClientStore) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return clientTable.get(ctx, s.db, s.logger, id)
}

// PostgresAppointmentStore implements store.AppointmentStore.
type PostgresAppointmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAppointmentStore creates a citas store.
func NewPostgresAppointmentStore(db store.DBTX, logger *slog.Logger) *PostgresAppointmentStore {
	return &PostgresAppointmentStore{db: db, logger: componentLogger(logger, "appointment_store")}
}

var _ store.AppointmentStore = (*PostgresAppointmentStore)(nil)

// List implements store.AppointmentStore.
func (s *PostgresAppointmentStore) List(
	ctx context.Context,
	f store.AppointmentFilter,
	page store.Page,
) (store.Result[domain.Appointment], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.text("folio", f.Folio)
	c.id("cliente_id", f.ClienteID)
	c.id("oficina_id", f.OficinaID)
	c.id("servicio_id", f.ServicioID)
	c.dateFrom("fecha", f.FechaDesde)
	c.dateTo("fecha", f.FechaHasta)
	c.flag("asistio", f.Asistio)
	return appointmentTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.AppointmentStore.
func (s *PostgresAppointmentStore) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return appointmentTable.get(ctx, s.db, s.logger, id)
}

// CountBooked implements store.AppointmentStore.
func (s *PostgresAppointmentStore) CountBooked(
	ctx context.Context,
	oficinaID, servicioID int64,
	fecha domain.Date,
) (map[domain.Clock]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT to_char(hora, 'HH24:MI'), COUNT(*)
		FROM citas
		WHERE oficina_id = $1 AND servicio_id = $2 AND fecha = $3 AND estatus = 'A'
		GROUP BY hora
	`
	rows, err := s.db.QueryContext(ctx, query, oficinaID, servicioID, fecha.Time)
	if err != nil {
		log.Error("failed to count booked slots",
			slog.Int64("oficina_id", oficinaID),
			slog.String("fecha", fecha.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to count booked slots: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	booked := make(map[domain.Clock]int)
	for rows.Next() {
		var slot domain.Clock
		var count int
		if err := rows.Scan(&slot, &count); err != nil {
			return nil, fmt.Errorf("failed to scan booked slot: %w", err)
		}
		booked[slot] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booked slots: %w", err)
	}
	return booked, nil
}

// PostgresSurveyStore implements store.SurveyStore.
type PostgresSurveyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSurveyStore creates an encuestas store.
func NewPostgresSurveyStore(db store.DBTX, logger *slog.Logger) *PostgresSurveyStore {
	return &PostgresSurveyStore{db: db, logger: componentLogger(logger, "survey_store")}
}

var _ store.SurveyStore = (*PostgresSurveyStore)(nil)

// List implements store.SurveyStore.
func (s *PostgresSurveyStore) List(
	ctx context.Context,
	f store.SurveyFilter,
	page store.Page,
) (store.Result[domain.Survey], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.id("cita_id", f.CitaID)
	if f.CalificacionMin != nil {
		c.add("calificacion >= %[1]s", *f.CalificacionMin)
	}
	if f.CalificacionMax != nil {
		c.add("calificacion <= %[1]s", *f.CalificacionMax)
	}
	return surveyTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.SurveyStore.
func (s *PostgresSurveyStore) GetByID(ctx context.Context, id int64) (*domain.Survey, error) {
	return surveyTable.get(ctx, s.db, s.logger, id)
}

// PostgresPaymentStore implements store.PaymentStore.
type PostgresPaymentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPaymentStore creates a pagos store.
func NewPostgresPaymentStore(db store.DBTX, logger *slog.Logger) *PostgresPaymentStore {
	return &PostgresPaymentStore{db: db, logger: componentLogger(logger, "payment_store")}
}

var _ store.PaymentStore = (*PostgresPaymentStore)(nil)

// List implements store.PaymentStore.
func (s *PostgresPaymentStore) List(
	ctx context.Context,
	f store.PaymentFilter,
	page store.Page,
) (store.Result[domain.Payment], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.id("cita_id", f.CitaID)
	c.text("referencia", f.Referencia)
	c.flag("pagado", f.Pagado)
	if f.MontoMin != nil {
		c.add("monto >= %[1]s::numeric", f.MontoMin.String())
	}
	if f.MontoMax != nil {
		c.add("monto <= %[1]s::numeric", f.MontoMax.String())
	}
	return paymentTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.PaymentStore.
func (s *PostgresPaymentStore) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	return paymentTable.get(ctx, s.db, s.logger, id)
}
