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

var scheduleTable = table[domain.Schedule]{
	name: "horarios",
	columns: "id, oficina_id, servicio_id, dia_semana, to_char(hora_inicio, 'HH24:MI'), " +
		"to_char(hora_fin, 'HH24:MI'), intervalo_minutos, capacidad, estatus",
	notFound: store.ErrScheduleNotFound,
	scan: func(r rowScanner) (domain.Schedule, error) {
		var s domain.Schedule
		var servicioID sql.NullInt64
		err := r.Scan(&s.ID, &s.OficinaID, &servicioID, &s.DiaSemana, &s.HoraInicio, &s.HoraFin,
			&s.IntervaloMinutos, &s.Capacidad, &s.Estatus)
		s.ServicioID = int64Ptr(servicioID)
		return s, err
	},
}

var holidayTable = table[domain.Holiday]{
	name:     "dias_inhabiles",
	columns:  "id, fecha, descripcion, oficina_id, estatus",
	notFound: store.ErrHolidayNotFound,
	scan: func(r rowScanner) (domain.Holiday, error) {
		var h domain.Holiday
		var oficinaID sql.NullInt64
		err := r.Scan(&h.ID, &h.Fecha, &h.Descripcion, &oficinaID, &h.Estatus)
		h.OficinaID = int64Ptr(oficinaID)
		return h, err
	},
}

// PostgresScheduleStore implements store.ScheduleStore.
type PostgresScheduleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScheduleStore creates a horarios store.
func NewPostgresScheduleStore(db store.DBTX, logger *slog.Logger) *PostgresScheduleStore {
	return &PostgresScheduleStore{db: db, logger: componentLogger(logger, "schedule_store")}
}

var _ store.ScheduleStore = (*PostgresScheduleStore)(nil)

// List implements store.ScheduleStore.
func (s *PostgresScheduleStore) List(
	ctx context.Context,
	f store.ScheduleFilter,
	page store.Page,
) (store.Result[domain.Schedule], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.id("oficina_id", f.OficinaID)
	c.id("servicio_id", f.ServicioID)
	if f.DiaSemana != nil {
		c.add("dia_semana = %[1]s", *f.DiaSemana)
	}
	return scheduleTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.ScheduleStore.
func (s *PostgresScheduleStore) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	return scheduleTable.get(ctx, s.db, s.logger, id)
}

// ListForOffice implements store.ScheduleStore.
func (s *PostgresScheduleStore) ListForOffice(
	ctx context.Context,
	oficinaID, servicioID int64,
) ([]domain.Schedule, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM horarios
		WHERE oficina_id = $1 AND (servicio_id IS NULL OR servicio_id = $2) AND estatus = 'A'
		ORDER BY dia_semana, hora_inicio, id`, scheduleTable.columns)

	schedules, err := scheduleTable.query(ctx, s.db, query, oficinaID, servicioID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list office schedules",
			slog.Int64("oficina_id", oficinaID),
			slog.Int64("servicio_id", servicioID),
			slog.String("error", err.Error()))
		return nil, err
	}
	return schedules, nil
}

// PostgresHolidayStore implements store.HolidayStore.
type PostgresHolidayStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresHolidayStore creates a dias_inhabiles store.
func NewPostgresHolidayStore(db store.DBTX, logger *slog.Logger) *PostgresHolidayStore {
	return &PostgresHolidayStore{db: db, logger: componentLogger(logger, "holiday_store")}
}

var _ store.HolidayStore = (*PostgresHolidayStore)(nil)

// List implements store.HolidayStore.
func (s *PostgresHolidayStore) List(
	ctx context.Context,
	f store.HolidayFilter,
	page store.Page,
) (store.Result[domain.Holiday], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.id("oficina_id", f.OficinaID)
	c.dateFrom("fecha", f.Desde)
	c.dateTo("fecha", f.Hasta)
	return holidayTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.HolidayStore.
func (s *PostgresHolidayStore) GetByID(ctx context.Context, id int64) (*domain.Holiday, error) {
	return holidayTable.get(ctx, s.db, s.logger, id)
}

// ListBetween implements store.HolidayStore.
func (s *PostgresHolidayStore) ListBetween(
	ctx context.Context,
	oficinaID int64,
	from, to domain.Date,
) ([]domain.Holiday, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM dias_inhabiles
		WHERE (oficina_id IS NULL OR oficina_id = $1) AND fecha BETWEEN $2 AND $3 AND estatus = 'A'
		ORDER BY fecha, id`, holidayTable.columns)

	holidays, err := holidayTable.query(ctx, s.db, query, oficinaID, from.Time, to.Time)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list holidays",
			slog.Int64("oficina_id", oficinaID),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
			slog.String("error", err.Error()))
		return nil, err
	}
	return holidays, nil
}
