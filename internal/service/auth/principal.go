package auth

import (
	"context"

	"github.com/citasmx/citas-api/internal/domain"
)

// PrincipalKind tells users apart from service clients.
type PrincipalKind string

const (
	// KindUser is an administrator authenticated with a bearer token.
	KindUser PrincipalKind = "usuario"
	// KindService is a client authenticated with the API key.
	KindService PrincipalKind = "servicio"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	Kind        PrincipalKind     `json:"tipo"`
	UserID      int64             `json:"usuario_id,omitempty"`
	Email       string            `json:"email,omitempty"`
	Nombre      string            `json:"nombre,omitempty"`
	RolID       int64             `json:"rol_id,omitempty"`
	OficinaID   *int64            `json:"oficina_id,omitempty"`
	Permissions domain.Permission `json:"permisos"`
}

// Can reports whether the principal holds every bit of required.
func (p *Principal) Can(required domain.Permission) bool {
	return p != nil && p.Permissions.Has(required)
}

type principalKey struct{}

// WithPrincipal stores the principal in the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
