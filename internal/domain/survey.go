package domain

import "time"

// Survey rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Survey is the satisfaction answer a client leaves after an appointment.
type Survey struct {
	ID           int64     `json:"id"`
	CitaID       int64     `json:"cita_id"`
	Calificacion int       `json:"calificacion"`
	Comentario   string    `json:"comentario"`
	Estatus      Status    `json:"estatus"`
	CreatedAt    time.Time `json:"creado_en"`
}

// EntityStatus returns the soft-delete flag.
func (s *Survey) EntityStatus() Status { return s.Estatus }
