package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a procedure an office attends by appointment.
type Service struct {
	ID              int64           `json:"id"`
	Nombre          string          `json:"nombre"`
	Descripcion     string          `json:"descripcion"`
	OficinaID       int64           `json:"oficina_id"`
	DuracionMinutos int             `json:"duracion_minutos"`
	RequierePago    bool            `json:"requiere_pago"`
	Costo           decimal.Decimal `json:"costo"`
	Estatus         Status          `json:"estatus"`
	CreatedAt       time.Time       `json:"creado_en"`
}

// EntityStatus returns the soft-delete flag.
func (s *Service) EntityStatus() Status { return s.Estatus }
