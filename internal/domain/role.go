package domain

// Role groups users under a permission bitmask.
type Role struct {
	ID       int64      `json:"id"`
	Nombre   string     `json:"nombre"`
	Permisos Permission `json:"permisos"`
	Estatus  Status     `json:"estatus"`
}

// EntityStatus returns the soft-delete flag.
func (r *Role) EntityStatus() Status { return r.Estatus }

// Allows reports whether an active role grants every bit of required.
func (r *Role) Allows(required Permission) bool {
	if r == nil || !r.Estatus.IsActive() {
		return false
	}
	return r.Permisos.Has(required)
}
