package store

import (
	"context"

	"github.com/citasmx/citas-api/internal/domain"
)

// DistrictStore defines the interface for distritos persistence.
type DistrictStore interface {
	Lister[domain.District, DistrictFilter]
}

// OfficeStore defines the interface for oficinas persistence.
type OfficeStore interface {
	Lister[domain.Office, OfficeFilter]
}

// ServiceStore defines the interface for servicios persistence.
type ServiceStore interface {
	Lister[domain.Service, ServiceFilter]
}

// ScheduleStore defines the interface for horarios persistence.
type ScheduleStore interface {
	Lister[domain.Schedule, ScheduleFilter]

	// ListForOffice returns the active windows of an office that apply to
	// servicioID, including the office-wide ones (servicio_id NULL).
	ListForOffice(ctx context.Context, oficinaID, servicioID int64) ([]domain.Schedule, error)
}

// HolidayStore defines the interface for dias_inhabiles persistence.
type HolidayStore interface {
	Lister[domain.Holiday, HolidayFilter]

	// ListBetween returns the active global and office holidays whose date
	// falls in [from, to].
	ListBetween(ctx context.Context, oficinaID int64, from, to domain.Date) ([]domain.Holiday, error)
}
