package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/platform/logger"
	"github.com/citasmx/citas-api/internal/store"
)

// PostgresPendingStore implements store.PendingStore over registros or
// recuperaciones.
type PostgresPendingStore struct {
	db     store.DBTX
	kind   domain.PendingKind
	table  table[domain.Pending]
	logger *slog.Logger
}

// NewPostgresPendingStore creates a store for the table of kind.
func NewPostgresPendingStore(db store.DBTX, kind domain.PendingKind, logger *slog.Logger) *PostgresPendingStore {
	t := table[domain.Pending]{
		notFound: store.ErrPendingNotFound,
		scan: func(r rowScanner) (domain.Pending, error) {
			var p domain.Pending
			var usuarioID sql.NullInt64
			err := r.Scan(&p.ID, &usuarioID, &p.Email, &p.Nombre, &p.Token, &p.ExpiraEn,
				&p.Usado, &p.Estatus, &p.CreatedAt)
			p.Kind = kind
			p.UsuarioID = int64Ptr(usuarioID)
			return p, err
		},
	}

	switch kind {
	case domain.PendingRegistration:
		t.name = "registros"
		t.columns = "id, NULL::bigint, email, nombre, token, expira_en, usado, estatus, creado_en"
	case domain.PendingRecovery:
		t.name = "recuperaciones"
		t.columns = "id, usuario_id, email, nombre, token, expira_en, usado, estatus, creado_en"
	default:
		// ALLOW-PANIC: constructor invariant enforced during application wiring
		panic(fmt.Sprintf("unknown pending kind %q", kind))
	}

	return &PostgresPendingStore{
		db:     db,
		kind:   kind,
		table:  t,
		logger: componentLogger(logger, "pending_store").With(slog.String("tipo", string(kind))),
	}
}

var _ store.PendingStore = (*PostgresPendingStore)(nil)

// Kind implements store.PendingStore.
func (s *PostgresPendingStore) Kind() domain.PendingKind {
	return s.kind
}

// List implements store.PendingStore.
func (s *PostgresPendingStore) List(
	ctx context.Context,
	f store.PendingFilter,
	page store.Page,
) (store.Result[domain.Pending], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.textFold("email", f.Email)
	return s.table.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.PendingStore.
func (s *PostgresPendingStore) GetByID(ctx context.Context, id int64) (*domain.Pending, error) {
	return s.table.get(ctx, s.db, s.logger, id)
}

// ListPending implements store.PendingStore.
func (s *PostgresPendingStore) ListPending(ctx context.Context) ([]domain.Pending, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE estatus = 'A' AND usado = false ORDER BY id",
		s.table.columns, s.table.name)

	rows, err := s.table.query(ctx, s.db, query)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list pending rows",
			slog.String("error", err.Error()))
		return nil, err
	}
	return rows, nil
}

// Deactivate implements store.PendingStore.
func (s *PostgresPendingStore) Deactivate(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("UPDATE %s SET estatus = 'B' WHERE id = $1 AND estatus = 'A'", s.table.name)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to deactivate pending row",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to deactivate %s %d: %w", s.table.name, id, MapError(err))
	}
	if err := CheckRowsAffected(result, s.table.name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrPendingNotFound
		}
		return err
	}

	log.Debug("pending row deactivated", slog.Int64("id", id))
	return nil
}
