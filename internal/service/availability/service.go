// Package availability answers which days and hours an office service can
// still be booked.
package availability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/citasmx/citas-api/internal/config"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/domain/calendar"
	"github.com/citasmx/citas-api/internal/platform/logger"
	"github.com/citasmx/citas-api/internal/service/catalog"
	"github.com/citasmx/citas-api/internal/store"
)

// Stores groups the persistence the service reads.
type Stores struct {
	Offices      store.OfficeStore
	Services     store.ServiceStore
	Schedules    store.ScheduleStore
	Holidays     store.HolidayStore
	Appointments store.AppointmentStore
}

func (s Stores) validate() error {
	if s.Offices == nil || s.Services == nil || s.Schedules == nil ||
		s.Holidays == nil || s.Appointments == nil {
		return fmt.Errorf("availability stores cannot be nil")
	}
	return nil
}

// Days is the response of Service.Days.
type Days struct {
	OficinaID  int64         `json:"oficina_id"`
	ServicioID int64         `json:"servicio_id"`
	Dias       []domain.Date `json:"dias"`
}

// Hours is the response of Service.Hours.
type Hours struct {
	OficinaID  int64           `json:"oficina_id"`
	ServicioID int64           `json:"servicio_id"`
	Fecha      domain.Date     `json:"fecha"`
	Horas      []calendar.Slot `json:"horas"`
}

// Service combines stored holidays, schedules and bookings with the
// calendar rules.
type Service struct {
	stores   Stores
	calendar calendar.Service
	extra    []domain.Date
	limit    int
	now      func() time.Time
	logger   *slog.Logger
}

// NewService builds the service from the citas configuration.
func NewService(cfg config.CitasConfig, stores Stores, logger *slog.Logger) (*Service, error) {
	if err := stores.validate(); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cal, err := calendar.NewServiceWithParams(calendar.Params{
		LimitDays:  cfg.LimitDays,
		CutoffHour: cfg.CutoffHour,
		Location:   loc,
	})
	if err != nil {
		return nil, err
	}

	extra := make([]domain.Date, 0, len(cfg.Holidays))
	for _, raw := range cfg.Holidays {
		d, err := domain.ParseDate(raw, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid configured holiday: %w", err)
		}
		extra = append(extra, d)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		stores:   stores,
		calendar: cal,
		extra:    extra,
		limit:    cfg.LimitDays,
		now:      time.Now,
		logger:   logger.With("component", "availability_service"),
	}, nil
}

// Location returns the time zone dates are interpreted in.
func (s *Service) Location() *time.Location {
	return s.calendar.Location()
}

// Days lists the bookable days of an office service.
func (s *Service) Days(ctx context.Context, oficinaID, servicioID int64) (*Days, error) {
	if err := s.checkOfficeService(ctx, oficinaID, servicioID); err != nil {
		return nil, err
	}
	now := s.now()
	holidays, err := s.holidaySet(ctx, oficinaID, now)
	if err != nil {
		return nil, err
	}
	days, err := s.calendar.AvailableDays(now, holidays)
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []domain.Date{}
	}
	return &Days{OficinaID: oficinaID, ServicioID: servicioID, Dias: days}, nil
}

// Hours lists the free slots of an office service on fecha, which must be
// one of the days Days returns.
func (s *Service) Hours(ctx context.Context, oficinaID, servicioID int64, fecha domain.Date) (*Hours, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkOfficeService(ctx, oficinaID, servicioID); err != nil {
		return nil, err
	}
	now := s.now()
	holidays, err := s.holidaySet(ctx, oficinaID, now)
	if err != nil {
		return nil, err
	}
	schedules, err := s.stores.Schedules.ListForOffice(ctx, oficinaID, servicioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	booked, err := s.stores.Appointments.CountBooked(ctx, oficinaID, servicioID, fecha)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	slots, err := s.calendar.AvailableHours(now, fecha, holidays, schedules, booked)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []calendar.Slot{}
	}
	log.Debug("computed available hours",
		"oficina_id", oficinaID,
		"servicio_id", servicioID,
		"fecha", fecha.String(),
		"windows", len(schedules),
		"slots", len(slots))
	return &Hours{OficinaID: oficinaID, ServicioID: servicioID, Fecha: fecha, Horas: slots}, nil
}

func (s *Service) checkOfficeService(ctx context.Context, oficinaID, servicioID int64) error {
	if _, err := catalog.Get[domain.Office, *domain.Office, store.OfficeFilter](ctx, s.stores.Offices, oficinaID); err != nil {
		return fmt.Errorf("oficina: %w", err)
	}
	svc, err := catalog.Get[domain.Service, *domain.Service, store.ServiceFilter](ctx, s.stores.Services, servicioID)
	if err != nil {
		return fmt.Errorf("servicio: %w", err)
	}
	if svc.OficinaID != oficinaID {
		return domain.NewValidationError("servicio_id",
			fmt.Sprintf("servicio %d is not offered by oficina %d", servicioID, oficinaID), domain.ErrValidation)
	}
	return nil
}

// holidaySet loads the holidays from today through the last day the
// calendar can offer.
func (s *Service) holidaySet(ctx context.Context, oficinaID int64, now time.Time) (calendar.HolidaySet, error) {
	today := domain.NewDate(now.In(s.Location()))
	last := domain.NewDate(today.AddDate(0, 0, s.limit))
	rows, err := s.stores.Holidays.ListBetween(ctx, oficinaID, today, last)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	return calendar.NewHolidaySet(rows, s.extra...), nil
}
