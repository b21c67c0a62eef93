package shared

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/shopspring/decimal"
)

// Query reads typed query-string parameters. The first parse failure is
// kept and returned by Err; later reads return zero values.
type Query struct {
	values url.Values
	err    error
}

// NewQuery wraps the query string of r.
func NewQuery(r *http.Request) *Query {
	return &Query{values: r.URL.Query()}
}

// Err returns the first parse error, if any.
func (q *Query) Err() error {
	return q.err
}

func (q *Query) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

func (q *Query) raw(name string) string {
	return strings.TrimSpace(q.values.Get(name))
}

// String returns the trimmed parameter or "".
func (q *Query) String(name string) string {
	return q.raw(name)
}

// CURP returns the parameter upper-cased after checking its format.
// Absent yields "".
func (q *Query) CURP(name string) string {
	raw := q.raw(name)
	if raw == "" {
		return ""
	}
	curp, err := domain.NormalizeCURP(raw)
	if err != nil {
		q.fail(err)
		return ""
	}
	return curp
}

// ID parses a positive integer id. Absent yields nil.
func (q *Query) ID(name string) *int64 {
	raw := q.raw(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		q.fail(domain.NewValidationError(name, "must be a positive integer", domain.ErrInvalidID))
		return nil
	}
	return &id
}

// RequiredID is ID for mandatory parameters.
func (q *Query) RequiredID(name string) int64 {
	if q.raw(name) == "" {
		q.fail(domain.NewValidationError(name, "is required", domain.ErrValidation))
		return 0
	}
	if id := q.ID(name); id != nil {
		return *id
	}
	return 0
}

// Int parses an integer. Absent yields nil.
func (q *Query) Int(name string) *int {
	raw := q.raw(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(domain.NewValidationError(name, "must be an integer", domain.ErrValidation))
		return nil
	}
	return &n
}

// Bool parses true/false (also 1/0). Absent yields nil.
func (q *Query) Bool(name string) *bool {
	raw := q.raw(name)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(domain.NewValidationError(name, "must be true or false", domain.ErrValidation))
		return nil
	}
	return &b
}

// Date parses YYYY-MM-DD in loc. Absent yields nil.
func (q *Query) Date(name string, loc *time.Location) *domain.Date {
	raw := q.raw(name)
	if raw == "" {
		return nil
	}
	d, err := domain.ParseDate(raw, loc)
	if err != nil {
		q.fail(domain.NewValidationError(name, "must be a date formatted YYYY-MM-DD", domain.ErrInvalidDate))
		return nil
	}
	return &d
}

// RequiredDate is Date for mandatory parameters.
func (q *Query) RequiredDate(name string, loc *time.Location) domain.Date {
	if q.raw(name) == "" {
		q.fail(domain.NewValidationError(name, "is required", domain.ErrValidation))
		return domain.Date{}
	}
	if d := q.Date(name, loc); d != nil {
		return *d
	}
	return domain.Date{}
}

// Decimal parses a decimal amount. Absent yields nil.
func (q *Query) Decimal(name string) *decimal.Decimal {
	raw := q.raw(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		q.fail(domain.NewValidationError(name, "must be a decimal number", domain.ErrValidation))
		return nil
	}
	return &d
}

// Status parses the estatus soft-delete filter.
func (q *Query) Status() domain.StatusFilter {
	f, err := domain.ParseStatusFilter(q.raw("estatus"))
	if err != nil {
		q.fail(err)
		return domain.OnlyActive
	}
	return f
}

// Page parses page and size.
func (q *Query) Page() store.Page {
	number := q.pageInt("page")
	size := q.pageInt("size")
	if q.err != nil {
		return store.DefaultPageRequest()
	}
	page, err := store.NewPage(number, size)
	if err != nil {
		q.fail(err)
		return store.DefaultPageRequest()
	}
	return page
}

// pageInt treats an explicit 0 as out of range rather than as the default.
func (q *Query) pageInt(name string) int {
	n := q.Int(name)
	if n == nil {
		return 0
	}
	if *n == 0 {
		q.fail(domain.NewValidationError(name, "must be 1 or greater", domain.ErrOutOfRange))
	}
	return *n
}
