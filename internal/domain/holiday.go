package domain

// Holiday is a non-business day. A nil OficinaID applies to every office.
type Holiday struct {
	ID          int64  `json:"id"`
	Fecha       Date   `json:"fecha"`
	Descripcion string `json:"descripcion"`
	OficinaID   *int64 `json:"oficina_id"`
	Estatus     Status `json:"estatus"`
}

// EntityStatus returns the soft-delete flag.
func (h *Holiday) EntityStatus() Status { return h.Estatus }
