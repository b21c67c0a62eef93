package store

import (
	"fmt"
	"math"

	"github.com/citasmx/citas-api/internal/domain"
)

// Pagination bounds.
const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Page selects a window of a list query. Numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// NewPage validates a requested page. Zero values select the defaults.
func NewPage(number, size int) (Page, error) {
	if number == 0 {
		number = DefaultPage
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if number < 1 {
		return Page{}, domain.NewValidationError("page", "must be 1 or greater", domain.ErrOutOfRange)
	}
	if size < 1 || size > MaxPageSize {
		return Page{}, domain.NewValidationError("size", fmt.Sprintf("must be between 1 and %d", MaxPageSize), domain.ErrOutOfRange)
	}
	// the offset must fit in an int
	if number-1 > math.MaxInt/size {
		return Page{}, domain.NewValidationError("page", "is too large", domain.ErrOutOfRange)
	}
	return Page{Number: number, Size: size}, nil
}

// DefaultPageRequest returns the first page with the default size.
func DefaultPageRequest() Page {
	return Page{Number: DefaultPage, Size: DefaultPageSize}
}

// Limit returns the SQL LIMIT of the page.
func (p Page) Limit() int {
	if p.Size < 1 {
		return DefaultPageSize
	}
	return p.Size
}

// Offset returns the SQL OFFSET of the page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit()
}

// Result is one page of a list query plus the total number of matches.
type Result[T any] struct {
	Items []T
	Total int
}

// Pages returns how many pages of size hold total rows.
func Pages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
