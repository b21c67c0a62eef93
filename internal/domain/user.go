package domain

import (
	"errors"
	"strings"
	"time"
)

// Common validation errors
var (
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User is an administrator of the platform.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Nombre         string    `json:"nombre"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	RolID          int64     `json:"rol_id"`
	OficinaID      *int64    `json:"oficina_id"`
	Estatus        Status    `json:"estatus"`
	CreatedAt      time.Time `json:"creado_en"`
}

// EntityStatus returns the soft-delete flag.
func (u *User) EntityStatus() Status { return u.Estatus }

// Validate checks that the stored user can authenticate.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !ValidEmail(u.Email) {
		return ErrInvalidEmail
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	return nil
}

// ValidEmail performs a basic shape check: one @, a non-empty local part and
// a dotted domain.
func ValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	if len(domainPart) < 3 {
		return false
	}
	dot := strings.IndexByte(domainPart, '.')
	return dot > 0 && dot < len(domainPart)-1
}
