package domain

import "time"

// District is a judicial district grouping offices.
type District struct {
	ID        int64     `json:"id"`
	Nombre    string    `json:"nombre"`
	Clave     string    `json:"clave"`
	Estatus   Status    `json:"estatus"`
	CreatedAt time.Time `json:"creado_en"`
}

// EntityStatus returns the soft-delete flag.
func (d *District) EntityStatus() Status { return d.Estatus }
