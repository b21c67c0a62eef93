package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"wrapped ErrNotFound", fmt.Errorf("failed: %w", ErrNotFound), true},
		{"entity specific", ErrOfficeNotFound, true},
		{"wrapped entity specific", fmt.Errorf("get cita 9: %w", ErrAppointmentNotFound), true},
		{"duplicate", ErrDuplicate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestEntityNotFoundMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "entity not found: oficina", ErrOfficeNotFound.Error())
	assert.False(t, errors.Is(ErrOfficeNotFound, ErrServiceNotFound))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewStoreError("cita", "list", "query failed", cause)

	assert.Equal(t, "list operation on cita failed: query failed: connection reset", err.Error())
	assert.True(t, errors.Is(err, cause))

	bare := NewStoreError("cita", "get", "no rows", nil)
	assert.Equal(t, "get operation on cita failed: no rows", bare.Error())
	assert.Nil(t, bare.Unwrap())
	assert.True(t, IsDuplicateError(fmt.Errorf("x: %w", ErrDuplicate)))
}
