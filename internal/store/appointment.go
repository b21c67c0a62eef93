package store

import (
	"context"

	"github.com/citasmx/citas-api/internal/domain"
)

// ClientStore defines the interface for clientes persistence.
type ClientStore interface {
	Lister[domain.Client, ClientFilter]
}

// AppointmentStore defines the interface for citas persistence.
type AppointmentStore interface {
	Lister[domain.Appointment, AppointmentFilter]

	// CountBooked returns the number of active appointments per slot for an
	// office service on a date. Slots without bookings are absent.
	CountBooked(ctx context.Context, oficinaID, servicioID int64, fecha domain.Date) (map[domain.Clock]int, error)
}

// SurveyStore defines the interface for encuestas persistence.
type SurveyStore interface {
	Lister[domain.Survey, SurveyFilter]
}

// PaymentStore defines the interface for pagos persistence.
type PaymentStore interface {
	Lister[domain.Payment, PaymentFilter]
}
