package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/platform/logger"
	"github.com/citasmx/citas-api/internal/store"
)

// conditions accumulates WHERE clauses and their positional arguments.
type conditions struct {
	clauses []string
	args    []any
}

func newConditions() *conditions {
	return &conditions{}
}

// add appends a clause. Every %[1]s in format becomes the placeholder of arg.
func (c *conditions) add(format string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(format, placeholder(len(c.args))))
}

// raw appends a clause without arguments.
func (c *conditions) raw(clause string) {
	c.clauses = append(c.clauses, clause)
}

func (c *conditions) status(column string, f domain.StatusFilter) {
	if s, ok := f.Status(); ok {
		c.add(column+" = %[1]s", string(s))
	}
}

func (c *conditions) text(column, value string) {
	if value != "" {
		c.add(column+" = %[1]s", value)
	}
}

func (c *conditions) textFold(column, value string) {
	if value != "" {
		c.add("lower("+column+") = lower(%[1]s)", value)
	}
}

func (c *conditions) contains(column, value string) {
	if value != "" {
		c.add(column+" ILIKE %[1]s", likePattern(value))
	}
}

func (c *conditions) id(column string, v *int64) {
	if v != nil {
		c.add(column+" = %[1]s", *v)
	}
}

func (c *conditions) flag(column string, v *bool) {
	if v != nil {
		c.add(column+" = %[1]s", *v)
	}
}

func (c *conditions) dateFrom(column string, d *domain.Date) {
	if d != nil {
		c.add(column+" >= %[1]s", d.Time)
	}
}

func (c *conditions) dateTo(column string, d *domain.Date) {
	if d != nil {
		c.add(column+" <= %[1]s", d.Time)
	}
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// table describes how one entity is read.
type table[T any] struct {
	name     string
	columns  string
	orderBy  string // defaults to id
	notFound error
	scan     func(rowScanner) (T, error)
}

// list runs a count query and, when the page is not past the end, the page query.
func (t table[T]) list(
	ctx context.Context,
	db store.DBTX,
	log *slog.Logger,
	c *conditions,
	page store.Page,
) (store.Result[T], error) {
	log = logger.FromContextOrDefault(ctx, log)
	where := c.where()
	result := store.Result[T]{Items: []T{}}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.name+where, c.args...).Scan(&result.Total); err != nil {
		log.Error("failed to count rows",
			slog.String("table", t.name),
			slog.String("error", err.Error()))
		return result, fmt.Errorf("failed to count %s: %w", t.name, MapError(err))
	}
	if result.Total == 0 || page.Offset() >= result.Total {
		return result, nil
	}

	args := make([]any, 0, len(c.args)+2)
	args = append(args, c.args...)
	args = append(args, page.Limit(), page.Offset())
	orderBy := t.orderBy
	if orderBy == "" {
		orderBy = "id"
	}
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT %s OFFSET %s",
		t.columns, t.name, where, orderBy, placeholder(len(args)-1), placeholder(len(args)))

	items, err := t.query(ctx, db, query, args...)
	if err != nil {
		log.Error("failed to list rows",
			slog.String("table", t.name),
			slog.String("error", err.Error()))
		return result, err
	}
	result.Items = items
	return result, nil
}

// query runs an arbitrary select returning t.columns.
func (t table[T]) query(ctx context.Context, db store.DBTX, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.name, MapError(err))
	}
	defer func() { _ = rows.Close() }()

	items := []T{}
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", t.name, err)
	}
	return items, nil
}

// get loads one row by primary key regardless of its status.
func (t table[T]) get(ctx context.Context, db store.DBTX, log *slog.Logger, id int64) (*T, error) {
	log = logger.FromContextOrDefault(ctx, log)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", t.columns, t.name)

	item, err := t.scan(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("row not found", slog.String("table", t.name), slog.Int64("id", id))
			return nil, t.notFound
		}
		log.Error("failed to get row",
			slog.String("table", t.name),
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get %s %d: %w", t.name, id, MapError(err))
	}
	return &item, nil
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
