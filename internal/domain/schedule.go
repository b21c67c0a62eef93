package domain

import "time"

// Schedule is a weekly attention window of an office.
// A nil ServicioID applies to every service of the office.
type Schedule struct {
	ID               int64  `json:"id"`
	OficinaID        int64  `json:"oficina_id"`
	ServicioID       *int64 `json:"servicio_id"`
	DiaSemana        int    `json:"dia_semana"` // 1 Monday .. 7 Sunday
	HoraInicio       Clock  `json:"hora_inicio"`
	HoraFin          Clock  `json:"hora_fin"`
	IntervaloMinutos int    `json:"intervalo_minutos"`
	Capacidad        int    `json:"capacidad"`
	Estatus          Status `json:"estatus"`
}

// EntityStatus returns the soft-delete flag.
func (s *Schedule) EntityStatus() Status { return s.Estatus }

// ValidateISOWeekday checks a 1..7 (Monday..Sunday) day number.
func ValidateISOWeekday(n int) error {
	if n < 1 || n > 7 {
		return NewValidationError("dia_semana", "must be between 1 and 7", ErrOutOfRange)
	}
	return nil
}

// ISO returns the 1..7 (Monday..Sunday) number of a weekday.
func ISO(w time.Weekday) int {
	if w == time.Sunday {
		return 7
	}
	return int(w)
}
