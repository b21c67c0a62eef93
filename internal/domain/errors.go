// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a parameter or entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or not positive.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidDate is returned when a date or time of day cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidDateRange is returned when a range starts after it ends.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrOutOfRange is returned when a value is well formed but outside the
	// accepted bounds (page numbers, limits, dates with no availability).
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidCURP is returned when a CURP does not match the official format.
	ErrInvalidCURP = errors.New("invalid CURP")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes which parameter failed and why.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the sentinel the error was built from.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError wrapping err.
// A nil err defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}
