package store

import (
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Text filters match case-insensitively on a substring unless noted. Nil
// pointers and empty strings disable a condition.

// DistrictFilter narrows distritos lists.
type DistrictFilter struct {
	Status domain.StatusFilter
	Nombre string
	Clave  string // exact
}

// OfficeFilter narrows oficinas lists.
type OfficeFilter struct {
	Status     domain.StatusFilter
	Nombre     string
	DistritoID *int64
}

// ServiceFilter narrows servicios lists.
type ServiceFilter struct {
	Status       domain.StatusFilter
	Nombre       string
	OficinaID    *int64
	RequierePago *bool
}

// ScheduleFilter narrows horarios lists.
type ScheduleFilter struct {
	Status     domain.StatusFilter
	OficinaID  *int64
	ServicioID *int64
	DiaSemana  *int
}

// Validate checks the weekday bound.
func (f ScheduleFilter) Validate() error {
	if f.DiaSemana != nil {
		return domain.ValidateISOWeekday(*f.DiaSemana)
	}
	return nil
}

// HolidayFilter narrows dias_inhabiles lists.
type HolidayFilter struct {
	Status    domain.StatusFilter
	OficinaID *int64
	Desde     *domain.Date
	Hasta     *domain.Date
}

// Validate checks the date range.
func (f HolidayFilter) Validate() error {
	return validateDateRange("desde", f.Desde, f.Hasta)
}

// ClientFilter narrows clientes lists.
type ClientFilter struct {
	Status domain.StatusFilter
	CURP   string // exact, upper case
	Email  string // exact, case-insensitive
	Nombre string // matches any name part
}

// AppointmentFilter narrows citas lists.
type AppointmentFilter struct {
	Status     domain.StatusFilter
	Folio      string // exact
	ClienteID  *int64
	OficinaID  *int64
	ServicioID *int64
	FechaDesde *domain.Date
	FechaHasta *domain.Date
	Asistio    *bool
}

// Validate checks the date range.
func (f AppointmentFilter) Validate() error {
	return validateDateRange("fecha_desde", f.FechaDesde, f.FechaHasta)
}

// SurveyFilter narrows encuestas lists.
type SurveyFilter struct {
	Status          domain.StatusFilter
	CitaID          *int64
	CalificacionMin *int
	CalificacionMax *int
}

// Validate checks rating bounds.
func (f SurveyFilter) Validate() error {
	if err := validateRating("calificacion_min", f.CalificacionMin); err != nil {
		return err
	}
	if err := validateRating("calificacion_max", f.CalificacionMax); err != nil {
		return err
	}
	if f.CalificacionMin != nil && f.CalificacionMax != nil && *f.CalificacionMin > *f.CalificacionMax {
		return domain.NewValidationError("calificacion_min", "must not exceed calificacion_max", domain.ErrOutOfRange)
	}
	return nil
}

// PaymentFilter narrows pagos lists.
type PaymentFilter struct {
	Status     domain.StatusFilter
	CitaID     *int64
	Referencia string // exact
	Pagado     *bool
	MontoMin   *decimal.Decimal
	MontoMax   *decimal.Decimal
}

// Validate checks the amount range.
func (f PaymentFilter) Validate() error {
	if f.MontoMin != nil && f.MontoMin.IsNegative() {
		return domain.NewValidationError("monto_min", "must not be negative", domain.ErrOutOfRange)
	}
	if f.MontoMin != nil && f.MontoMax != nil && f.MontoMin.GreaterThan(*f.MontoMax) {
		return domain.NewValidationError("monto_min", "must not exceed monto_max", domain.ErrOutOfRange)
	}
	return nil
}

// PermissionFilter narrows permisos lists.
type PermissionFilter struct {
	Status domain.StatusFilter
	Clave  string // exact
}

// RoleFilter narrows roles lists.
type RoleFilter struct {
	Status domain.StatusFilter
	Nombre string
}

// UserFilter narrows usuarios lists.
type UserFilter struct {
	Status    domain.StatusFilter
	Email     string // exact, case-insensitive
	RolID     *int64
	OficinaID *int64
}

// PendingFilter narrows registros and recuperaciones lists.
type PendingFilter struct {
	Status domain.StatusFilter
	Email  string // exact, case-insensitive
}

// TaskFilter narrows the background task list. Tasks carry a processing
// status instead of the soft-delete flag.
type TaskFilter struct {
	Status string
	Type   string
}

func validateDateRange(field string, from, to *domain.Date) error {
	if from != nil && to != nil && from.After(to.Time) {
		return domain.NewValidationError(field, "must not be after the end of the range", domain.ErrInvalidDateRange)
	}
	return nil
}

func validateRating(field string, v *int) error {
	if v != nil && (*v < domain.MinRating || *v > domain.MaxRating) {
		return domain.NewValidationError(field, "must be between 1 and 5", domain.ErrOutOfRange)
	}
	return nil
}
