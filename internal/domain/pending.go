package domain

import (
	"fmt"
	"time"
)

// PendingKind names the two flows that wait for a citizen to follow an
// e-mailed link.
type PendingKind string

const (
	// PendingRegistration is an account registration waiting for confirmation.
	PendingRegistration PendingKind = "registro"
	// PendingRecovery is a password recovery waiting to be used.
	PendingRecovery PendingKind = "recuperacion"
)

// ParsePendingKind validates the tipo parameter.
func ParsePendingKind(raw string) (PendingKind, error) {
	switch k := PendingKind(raw); k {
	case PendingRegistration, PendingRecovery:
		return k, nil
	default:
		return "", NewValidationError("tipo", fmt.Sprintf("must be %s or %s", PendingRegistration, PendingRecovery), ErrValidation)
	}
}

// Pending is a registros or recuperaciones row.
type Pending struct {
	ID        int64       `json:"id"`
	Kind      PendingKind `json:"tipo"`
	UsuarioID *int64      `json:"usuario_id,omitempty"`
	Email     string      `json:"email"`
	Nombre    string      `json:"nombre"`
	Token     string      `json:"-"`
	ExpiraEn  time.Time   `json:"expira_en"`
	Usado     bool        `json:"usado"`
	Estatus   Status      `json:"estatus"`
	CreatedAt time.Time   `json:"creado_en"`
}

// EntityStatus returns the soft-delete flag.
func (p *Pending) EntityStatus() Status { return p.Estatus }

// Expired reports whether the link can no longer be used at now.
func (p *Pending) Expired(now time.Time) bool {
	return !p.ExpiraEn.After(now)
}
