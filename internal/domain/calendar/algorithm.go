// Package calendar computes the days and hours on which appointments can be
// booked.
package calendar

import (
	"sort"
	"time"

	"github.com/citasmx/citas-api/internal/domain"
)

// Slot is a bookable time of day with its remaining capacity.
type Slot struct {
	Hora        domain.Clock `json:"hora"`
	Disponibles int          `json:"disponibles"`
}

// availableDays walks forward from tomorrow through today+LimitDays and keeps
// business days. The first kept day is dropped when today is not a business
// day or now is already past the cutoff hour, so a citizen always has a full
// business day before the appointment.
func availableDays(now time.Time, params Params, holidays HolidaySet) []domain.Date {
	local := now.In(params.location())
	today := domain.NewDate(local)

	days := make([]domain.Date, 0, params.LimitDays)
	for i := 1; i <= params.LimitDays; i++ {
		day := today.AddDate(0, 0, i)
		if !IsBusinessDay(day, holidays) {
			continue
		}
		days = append(days, domain.NewDate(day))
	}

	if len(days) > 0 && (!IsBusinessDay(today.Time, holidays) || local.Hour() >= params.CutoffHour) {
		days = days[1:]
	}
	return days
}

// availableHours expands the schedule windows of the date's weekday into
// slots and subtracts the bookings already taken.
func availableHours(date domain.Date, schedules []domain.Schedule, booked map[domain.Clock]int) []Slot {
	capacity := make(map[domain.Clock]int)
	for i := range schedules {
		s := &schedules[i]
		if !s.Estatus.IsActive() || s.DiaSemana != domain.ISO(date.Weekday()) {
			continue
		}
		if s.IntervaloMinutos <= 0 || s.Capacidad <= 0 || s.HoraFin <= s.HoraInicio {
			continue
		}
		for t := s.HoraInicio; t < s.HoraFin; t += domain.Clock(s.IntervaloMinutos) {
			capacity[t] += s.Capacidad
		}
	}

	slots := make([]Slot, 0, len(capacity))
	for hora, total := range capacity {
		free := total - booked[hora]
		if free <= 0 {
			continue
		}
		slots = append(slots, Slot{Hora: hora, Disponibles: free})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Hora < slots[j].Hora })
	return slots
}

// containsDate reports whether day is one of days.
func containsDate(days []domain.Date, day domain.Date) bool {
	key := day.String()
	for _, d := range days {
		if d.String() == key {
			return true
		}
	}
	return false
}
