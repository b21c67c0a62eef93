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

var userTable = table[domain.User]{
	name:     "usuarios",
	columns:  "id, email, nombre, password_hash, rol_id, oficina_id, estatus, creado_en",
	notFound: store.ErrUserNotFound,
	scan: func(r rowScanner) (domain.User, error) {
		var u domain.User
		var oficinaID sql.NullInt64
		err := r.Scan(&u.ID, &u.Email, &u.Nombre, &u.HashedPassword, &u.RolID, &oficinaID,
			&u.Estatus, &u.CreatedAt)
		u.OficinaID = int64Ptr(oficinaID)
		return u, err
	},
}

var roleTable = table[domain.Role]{
	name:     "roles",
	columns:  "id, nombre, permisos, estatus",
	notFound: store.ErrRoleNotFound,
	scan: func(r rowScanner) (domain.Role, error) {
		var role domain.Role
		var mask int64
		err := r.Scan(&role.ID, &role.Nombre, &mask, &role.Estatus)
		role.Permisos = domain.Permission(uint64(mask))
		return role, err
	},
}

var permissionTable = table[domain.PermissionRow]{
	name:     "permisos",
	columns:  "id, nombre, clave, bit, estatus",
	notFound: store.ErrPermissionNotFound,
	scan: func(r rowScanner) (domain.PermissionRow, error) {
		var p domain.PermissionRow
		err := r.Scan(&p.ID, &p.Nombre, &p.Clave, &p.Bit, &p.Estatus)
		return p, err
	},
}

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	return &PostgresUserStore{db: db, logger: componentLogger(logger, "user_store")}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// List implements store.UserStore.
func (s *PostgresUserStore) List(
	ctx context.Context,
	f store.UserFilter,
	page store.Page,
) (store.Result[domain.User], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.textFold("email", f.Email)
	c.id("rol_id", f.RolID)
	c.id("oficina_id", f.OficinaID)
	return userTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.UserStore.
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return userTable.get(ctx, s.db, s.logger, id)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE lower(email) = lower($1)", userTable.columns)
	user, err := userTable.scan(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found by email")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by email", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user by email: %w", MapError(err))
	}
	return &user, nil
}

// PostgresRoleStore implements store.RoleStore.
type PostgresRoleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRoleStore creates a roles store.
func NewPostgresRoleStore(db store.DBTX, logger *slog.Logger) *PostgresRoleStore {
	return &PostgresRoleStore{db: db, logger: componentLogger(logger, "role_store")}
}

var _ store.RoleStore = (*PostgresRoleStore)(nil)

// List implements store.RoleStore.
func (s *PostgresRoleStore) List(
	ctx context.Context,
	f store.RoleFilter,
	page store.Page,
) (store.Result[domain.Role], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.contains("nombre", f.Nombre)
	return roleTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.RoleStore.
func (s *PostgresRoleStore) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	return roleTable.get(ctx, s.db, s.logger, id)
}

// PostgresPermissionStore implements store.PermissionStore.
type PostgresPermissionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPermissionStore creates a permisos store.
func NewPostgresPermissionStore(db store.DBTX, logger *slog.Logger) *PostgresPermissionStore {
	return &PostgresPermissionStore{db: db, logger: componentLogger(logger, "permission_store")}
}

var _ store.PermissionStore = (*PostgresPermissionStore)(nil)

// List implements store.PermissionStore.
func (s *PostgresPermissionStore) List(
	ctx context.Context,
	f store.PermissionFilter,
	page store.Page,
) (store.Result[domain.PermissionRow], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.text("clave", f.Clave)
	return permissionTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.PermissionStore.
func (s *PostgresPermissionStore) GetByID(ctx context.Context, id int64) (*domain.PermissionRow, error) {
	return permissionTable.get(ctx, s.db, s.logger, id)
}
