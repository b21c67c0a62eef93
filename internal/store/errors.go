package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific not found errors wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a client with the same CURP).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when a row violates a check, foreign key
	// or not-null constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	ErrDistrictNotFound    = fmt.Errorf("%w: distrito", ErrNotFound)
	ErrOfficeNotFound      = fmt.Errorf("%w: oficina", ErrNotFound)
	ErrServiceNotFound     = fmt.Errorf("%w: servicio", ErrNotFound)
	ErrScheduleNotFound    = fmt.Errorf("%w: horario", ErrNotFound)
	ErrHolidayNotFound     = fmt.Errorf("%w: dia inhabil", ErrNotFound)
	ErrClientNotFound      = fmt.Errorf("%w: cliente", ErrNotFound)
	ErrAppointmentNotFound = fmt.Errorf("%w: cita", ErrNotFound)
	ErrSurveyNotFound      = fmt.Errorf("%w: encuesta", ErrNotFound)
	ErrPaymentNotFound     = fmt.Errorf("%w: pago", ErrNotFound)
	ErrPermissionNotFound  = fmt.Errorf("%w: permiso", ErrNotFound)
	ErrRoleNotFound        = fmt.Errorf("%w: rol", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("%w: usuario", ErrNotFound)
	ErrPendingNotFound     = fmt.Errorf("%w: pendiente", ErrNotFound)
	ErrTaskNotFound        = fmt.Errorf("%w: tarea", ErrNotFound)
)

// IsNotFoundError reports whether err is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "oficina", "cita")
	Operation string // The operation that failed (e.g., "list", "get")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
