package calendar

import (
	"time"

	"github.com/citasmx/citas-api/internal/domain"
)

// HolidaySet holds non-business calendar days keyed by YYYY-MM-DD.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a set from holiday rows and extra configured dates.
// Soft-deleted rows are ignored.
func NewHolidaySet(rows []domain.Holiday, extra ...domain.Date) HolidaySet {
	set := make(HolidaySet, len(rows)+len(extra))
	for i := range rows {
		if !rows[i].Estatus.IsActive() {
			continue
		}
		set[rows[i].Fecha.String()] = struct{}{}
	}
	for _, d := range extra {
		set[d.String()] = struct{}{}
	}
	return set
}

// Contains reports whether the calendar day of t is a holiday.
func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h[t.Format(domain.DateLayout)]
	return ok
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsBusinessDay reports whether t is neither a weekend nor a holiday.
func IsBusinessDay(t time.Time, holidays HolidaySet) bool {
	return !IsWeekend(t) && !holidays.Contains(t)
}
