package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records the fee of an appointment whose service requires one.
type Payment struct {
	ID         int64           `json:"id"`
	CitaID     int64           `json:"cita_id"`
	Referencia string          `json:"referencia"`
	Monto      decimal.Decimal `json:"monto"`
	Pagado     bool            `json:"pagado"`
	FechaPago  *time.Time      `json:"fecha_pago"`
	Estatus    Status          `json:"estatus"`
	CreatedAt  time.Time       `json:"creado_en"`
}

// EntityStatus returns the soft-delete flag.
func (p *Payment) EntityStatus() Status { return p.Estatus }
