package store

import (
	"context"

	"github.com/citasmx/citas-api/internal/domain"
)

// PendingStore defines the interface for one of the pending link tables
// (registros or recuperaciones).
type PendingStore interface {
	Lister[domain.Pending, PendingFilter]

	// Kind reports which table the store reads.
	Kind() domain.PendingKind

	// ListPending returns every active row whose link was not used yet,
	// expired ones included, ordered by id.
	ListPending(ctx context.Context) ([]domain.Pending, error)

	// Deactivate soft-deletes a row (estatus B).
	// Returns ErrPendingNotFound if no active row has the id.
	Deactivate(ctx context.Context, id int64) error
}
