package store

import (
	"context"

	"github.com/citasmx/citas-api/internal/domain"
)

// Lister is the read surface every resource store offers.
type Lister[T any, F any] interface {
	// List returns one page of rows matching filter ordered by id, plus the
	// total number of matches.
	List(ctx context.Context, filter F, page Page) (Result[T], error)

	// GetByID returns the row with the given id regardless of its status.
	// Returns an error wrapping ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*T, error)
}

// UserStore defines the interface for administrator persistence.
type UserStore interface {
	Lister[domain.User, UserFilter]

	// GetByEmail retrieves a user by e-mail, case-insensitively.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user carries the password hash for verification.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RoleStore defines the interface for role persistence.
type RoleStore interface {
	Lister[domain.Role, RoleFilter]
}

// PermissionStore defines the interface for permission catalog persistence.
type PermissionStore interface {
	Lister[domain.PermissionRow, PermissionFilter]
}
