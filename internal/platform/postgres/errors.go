package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/citasmx/citas-api/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
)

type violation struct {
	sentinel error
	kind     string
}

// violations maps PostgreSQL integrity error codes to store sentinels.
var violations = map[string]violation{
	"23505": {store.ErrDuplicate, "unique"},
	"23503": {store.ErrInvalidEntity, "foreign key"},
	"23514": {store.ErrInvalidEntity, "check"},
	"23502": {store.ErrInvalidEntity, "not null"},
}

// MapError translates driver errors into store sentinels. Integrity
// violations name the constraint (or column) that was hit; anything else is
// returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	v, ok := violations[pgErr.Code]
	if !ok {
		return err
	}
	return fmt.Errorf("%w: %s violation on %s", v.sentinel, v.kind, violated(pgErr))
}

func violated(e *pgconn.PgError) string {
	switch {
	case e.ConstraintName != "":
		return e.ConstraintName
	case e.ColumnName != "":
		return e.TableName + "." + e.ColumnName
	default:
		return e.TableName
	}
}

// CheckRowsAffected returns store.ErrNotFound when an UPDATE on table
// matched no row.
func CheckRowsAffected(result sql.Result, table string) error {
	if result == nil {
		return errors.New("no result to check")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: no matching row in %s", store.ErrNotFound, table)
	}
	return nil
}
