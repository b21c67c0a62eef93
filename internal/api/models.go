package api

import (
	"time"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/service/auth"
)

// TokenRequest defines the payload for the token endpoint.
type TokenRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse is returned by both token endpoints.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	// ExpiresAt is the RFC 3339 expiry of the access token.
	ExpiresAt string `json:"expires_at"`
}

func tokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    pair.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	Tipo      auth.PrincipalKind `json:"tipo"`
	UsuarioID int64              `json:"usuario_id,omitempty"`
	Email     string             `json:"email,omitempty"`
	Nombre    string             `json:"nombre,omitempty"`
	RolID     int64              `json:"rol_id,omitempty"`
	OficinaID *int64             `json:"oficina_id,omitempty"`
	Permisos  []string           `json:"permisos"`
	Mascara   domain.Permission  `json:"mascara"`
}

func meResponse(p *auth.Principal) MeResponse {
	return MeResponse{
		Tipo:      p.Kind,
		UsuarioID: p.UserID,
		Email:     p.Email,
		Nombre:    p.Nombre,
		RolID:     p.RolID,
		OficinaID: p.OficinaID,
		Permisos:  p.Permissions.Names(),
		Mascara:   p.Permissions,
	}
}
