package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/citasmx/citas-api/internal/api/shared"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/service/auth"
)

// APIKeyHeader carries the service API key.
const APIKeyHeader = "X-API-Key"

// Authenticator resolves request credentials into a principal.
// *auth.Service implements it.
type Authenticator interface {
	AuthenticateToken(ctx context.Context, token string) (*auth.Principal, error)
	AuthenticateAPIKey(ctx context.Context, key string) (*auth.Principal, error)
}

// AuthMiddleware authenticates requests with a bearer token or an API key.
type AuthMiddleware struct {
	authenticator Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate stores the caller's principal in the request context.
// The API key header wins when both credentials are sent.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.principal(r)
		if err != nil {
			respondAuthError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

func (m *AuthMiddleware) principal(r *http.Request) (*auth.Principal, error) {
	if key := strings.TrimSpace(r.Header.Get(APIKeyHeader)); key != "" {
		return m.authenticator.AuthenticateAPIKey(r.Context(), key)
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, auth.ErrInvalidToken
	}
	return m.authenticator.AuthenticateToken(r.Context(), strings.TrimSpace(token))
}

// RequirePermission rejects callers whose principal lacks any bit of required.
// It must run after Authenticate.
func RequirePermission(required domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := auth.PrincipalFromContext(r.Context())
			if err := auth.Authorize(principal, required); err != nil {
				respondAuthError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		shared.RespondWithErrorAndLog(w, r, http.StatusForbidden,
			"Insufficient permissions", err, shared.WithElevatedLogLevel())
	case errors.Is(err, auth.ErrExpiredToken):
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Token expired", err)
	case errors.Is(err, auth.ErrMissingToken):
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Authorization header required", err)
	case auth.IsUnauthenticated(err):
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
			"Invalid credentials", err, shared.WithElevatedLogLevel())
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
	}
}
