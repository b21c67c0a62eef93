package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/citasmx/citas-api/internal/config"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/platform/logger"
	"github.com/citasmx/citas-api/internal/store"
)

// TokenPair is returned by Login and Refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Service authenticates callers and issues tokens.
type Service struct {
	jwt       JWTService
	passwords PasswordVerifier
	users     store.UserStore
	roles     store.RoleStore
	apiKey    []byte
	lifetime  time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewService wires the authentication service.
func NewService(
	cfg config.AuthConfig,
	jwtService JWTService,
	passwords PasswordVerifier,
	users store.UserStore,
	roles store.RoleStore,
	logger *slog.Logger,
) (*Service, error) {
	if jwtService == nil {
		return nil, fmt.Errorf("jwt service cannot be nil")
	}
	if passwords == nil {
		return nil, fmt.Errorf("password verifier cannot be nil")
	}
	if users == nil || roles == nil {
		return nil, fmt.Errorf("user and role stores cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		jwt:       jwtService,
		passwords: passwords,
		users:     users,
		roles:     roles,
		apiKey:    []byte(cfg.APIKey),
		lifetime:  time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		now:       time.Now,
		logger:    logger.With("component", "auth_service"),
	}, nil
}

// Login checks an e-mail and password and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login rejected: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login rejected: password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	if _, err := s.activeRole(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(ctx, user.ID)
}

// Refresh exchanges a valid refresh token for a new token pair.
// The user and role are checked again so revoked accounts cannot refresh.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrMissingToken
	}
	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if _, err := s.userPrincipal(ctx, claims.UserID); err != nil {
		return nil, err
	}
	return s.issue(ctx, claims.UserID)
}

// AuthenticateToken resolves a bearer access token to a user principal
// holding the permission mask of the user's role.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	claims, err := s.jwt.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.userPrincipal(ctx, claims.UserID)
}

// AuthenticateAPIKey resolves the X-API-Key header to a service principal
// with every permission. An empty configured key disables API keys.
func (s *Service) AuthenticateAPIKey(ctx context.Context, key string) (*Principal, error) {
	if key == "" {
		return nil, ErrMissingToken
	}
	if len(s.apiKey) == 0 || subtle.ConstantTimeCompare([]byte(key), s.apiKey) != 1 {
		logger.FromContextOrDefault(ctx, s.logger).Debug("api key rejected")
		return nil, ErrInvalidAPIKey
	}
	return &Principal{Kind: KindService, Permissions: domain.AllPermissions}, nil
}

// Authorize checks the static permission mask of a principal.
func Authorize(p *Principal, required domain.Permission) error {
	if p == nil {
		return ErrMissingToken
	}
	if !p.Can(required) {
		return fmt.Errorf("%w: requires %s", ErrForbidden, required)
	}
	return nil
}

func (s *Service) userPrincipal(ctx context.Context, userID int64) (*Principal, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	role, err := s.activeRole(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Principal{
		Kind:        KindUser,
		UserID:      user.ID,
		Email:       user.Email,
		Nombre:      user.Nombre,
		RolID:       role.ID,
		OficinaID:   user.OficinaID,
		Permissions: role.Permisos,
	}, nil
}

func (s *Service) activeRole(ctx context.Context, user *domain.User) (*domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if !user.Estatus.IsActive() {
		log.Debug("inactive user rejected", "user_id", user.ID)
		return nil, ErrInactiveAccount
	}
	role, err := s.roles.GetByID(ctx, user.RolID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("user references a missing role", "user_id", user.ID, "rol_id", user.RolID)
			return nil, ErrInactiveAccount
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	if !role.Estatus.IsActive() {
		log.Debug("user with inactive role rejected", "user_id", user.ID, "rol_id", role.ID)
		return nil, ErrInactiveAccount
	}
	return role, nil
}

func (s *Service) issue(ctx context.Context, userID int64) (*TokenPair, error) {
	access, err := s.jwt.GenerateToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    s.now().Add(s.lifetime).UTC(),
	}, nil
}
