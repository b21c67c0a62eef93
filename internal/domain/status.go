package domain

import "strings"

// Status is the soft-delete flag every row carries.
type Status string

const (
	// StatusActive marks a visible row.
	StatusActive Status = "A"
	// StatusDeleted marks a soft-deleted row.
	StatusDeleted Status = "B"
)

// IsActive reports whether the row is visible.
func (s Status) IsActive() bool {
	return s == StatusActive
}

// StatusFilter selects rows by soft-delete flag in list queries.
type StatusFilter string

const (
	// OnlyActive is the default visibility.
	OnlyActive StatusFilter = "A"
	// OnlyDeleted lists soft-deleted rows only.
	OnlyDeleted StatusFilter = "B"
	// AnyStatus disables status filtering.
	AnyStatus StatusFilter = "todos"
)

// ParseStatusFilter parses the estatus query parameter.
// An empty value selects active rows.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "A":
		return OnlyActive, nil
	case "B":
		return OnlyDeleted, nil
	case "TODOS":
		return AnyStatus, nil
	default:
		return "", NewValidationError("estatus", "must be A, B or todos", ErrValidation)
	}
}

// Status returns the status to filter on and false when every status matches.
func (f StatusFilter) Status() (Status, bool) {
	switch f {
	case OnlyDeleted:
		return StatusDeleted, true
	case AnyStatus:
		return "", false
	default:
		return StatusActive, true
	}
}
