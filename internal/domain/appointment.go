package domain

import "time"

// Appointment (cita) books a client into an office service slot.
type Appointment struct {
	ID         int64     `json:"id"`
	Folio      string    `json:"folio"`
	ClienteID  int64     `json:"cliente_id"`
	OficinaID  int64     `json:"oficina_id"`
	ServicioID int64     `json:"servicio_id"`
	Fecha      Date      `json:"fecha"`
	Hora       Clock     `json:"hora"`
	Asistio    bool      `json:"asistio"`
	Estatus    Status    `json:"estatus"`
	CreatedAt  time.Time `json:"creado_en"`
}

// EntityStatus returns the soft-delete flag.
func (a *Appointment) EntityStatus() Status { return a.Estatus }
