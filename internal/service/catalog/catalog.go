// Package catalog holds the read rules shared by every resource: id
// validation, existence and soft-delete checks, and paged listing.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/store"
)

// ErrDeleted is returned when a row exists but is soft-deleted (estatus B).
var ErrDeleted = errors.New("entity is deleted")

// Entity is implemented by every domain row carrying estatus.
type Entity interface {
	EntityStatus() domain.Status
}

// entityPtr constrains PT to *T implementing Entity.
type entityPtr[T any] interface {
	*T
	Entity
}

// Get returns the row with id if it exists and is active.
// A missing row yields an error wrapping store.ErrNotFound and a
// soft-deleted one an error wrapping ErrDeleted.
func Get[T any, PT entityPtr[T], F any](ctx context.Context, lister store.Lister[T, F], id int64) (*T, error) {
	row, err := Lookup[T, PT](ctx, lister, id)
	if err != nil {
		return nil, err
	}
	if !PT(row).EntityStatus().IsActive() {
		return nil, fmt.Errorf("id %d: %w", id, ErrDeleted)
	}
	return row, nil
}

// Lookup returns the row with id whatever its status.
func Lookup[T any, PT entityPtr[T], F any](ctx context.Context, lister store.Lister[T, F], id int64) (*T, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id", "must be a positive integer", domain.ErrInvalidID)
	}
	row, err := lister.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// List returns one page of rows. Items is never nil so empty pages encode
// as an empty JSON array.
func List[T any, F any](
	ctx context.Context,
	lister store.Lister[T, F],
	filter F,
	page store.Page,
) (store.Result[T], error) {
	if v, ok := any(filter).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return store.Result[T]{}, err
		}
	}
	res, err := lister.List(ctx, filter, page)
	if err != nil {
		return store.Result[T]{}, err
	}
	if res.Items == nil {
		res.Items = []T{}
	}
	return res, nil
}

// CheckStatus classifies a row loaded elsewhere.
func CheckStatus(e Entity) error {
	if !e.EntityStatus().IsActive() {
		return ErrDeleted
	}
	return nil
}
