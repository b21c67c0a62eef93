package calendar

import (
	"fmt"
	"time"

	"github.com/citasmx/citas-api/internal/domain"
)

// MaxLimitDays bounds how far ahead availability may be computed.
const MaxLimitDays = 90

// Params configures the available-days computation.
type Params struct {
	// LimitDays is how many calendar days after today are considered.
	LimitDays int

	// CutoffHour is the hour of day from which the first business day is
	// no longer offered.
	CutoffHour int

	// Location is the time zone the offices work in.
	Location *time.Location
}

// NewDefaultParams returns the parameters used when nothing is configured.
func NewDefaultParams() Params {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		loc = time.UTC
	}
	return Params{
		LimitDays:  30,
		CutoffHour: 14,
		Location:   loc,
	}
}

// Validate checks the bounds of every parameter.
func (p Params) Validate() error {
	if p.LimitDays < 1 || p.LimitDays > MaxLimitDays {
		return domain.NewValidationError("limite",
			fmt.Sprintf("must be between 1 and %d days", MaxLimitDays), domain.ErrOutOfRange)
	}
	if p.CutoffHour < 0 || p.CutoffHour > 23 {
		return domain.NewValidationError("hora_corte", "must be between 0 and 23", domain.ErrOutOfRange)
	}
	return nil
}

func (p Params) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}
