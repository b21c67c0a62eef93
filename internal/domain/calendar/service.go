package calendar

import (
	"fmt"
	"time"

	"github.com/citasmx/citas-api/internal/domain"
)

// Service computes appointment availability.
type Service interface {
	// AvailableDays lists the bookable business days after now.
	AvailableDays(now time.Time, holidays HolidaySet) ([]domain.Date, error)

	// AvailableHours lists the free slots of date. The date must be one of
	// the days AvailableDays returns for now, otherwise ErrOutOfRange.
	AvailableHours(
		now time.Time,
		date domain.Date,
		holidays HolidaySet,
		schedules []domain.Schedule,
		booked map[domain.Clock]int,
	) ([]Slot, error)

	// Location returns the time zone dates are interpreted in.
	Location() *time.Location
}

type defaultService struct {
	params Params
}

// NewDefaultService creates a calendar service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a calendar service with custom parameters.
func NewServiceWithParams(params Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

func (s *defaultService) Location() *time.Location {
	return s.params.location()
}

func (s *defaultService) AvailableDays(now time.Time, holidays HolidaySet) ([]domain.Date, error) {
	if err := s.params.Validate(); err != nil {
		return nil, err
	}
	return availableDays(now, s.params, holidays), nil
}

func (s *defaultService) AvailableHours(
	now time.Time,
	date domain.Date,
	holidays HolidaySet,
	schedules []domain.Schedule,
	booked map[domain.Clock]int,
) ([]Slot, error) {
	days, err := s.AvailableDays(now, holidays)
	if err != nil {
		return nil, err
	}
	// Compare in the service location regardless of how the date was parsed.
	local := domain.NewDate(time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.params.location()))
	if !containsDate(days, local) {
		return nil, domain.NewValidationError("fecha",
			fmt.Sprintf("%s is not an available day", local), domain.ErrOutOfRange)
	}
	return availableHours(local, schedules, booked), nil
}
