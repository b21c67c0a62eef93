package domain

import "time"

// Office is a physical location where appointments are attended.
type Office struct {
	ID         int64     `json:"id"`
	Nombre     string    `json:"nombre"`
	Direccion  string    `json:"direccion"`
	Telefono   string    `json:"telefono"`
	Email      string    `json:"email"`
	DistritoID int64     `json:"distrito_id"`
	Estatus    Status    `json:"estatus"`
	CreatedAt  time.Time `json:"creado_en"`
}

// EntityStatus returns the soft-delete flag.
func (o *Office) EntityStatus() Status { return o.Estatus }
