package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(t *testing.T, raw string) *domain.Date {
	t.Helper()
	d, err := domain.ParseDate(raw, time.UTC)
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return &d
}

func intPtr(v int) *int { return &v }

func TestFilterValidation(t *testing.T) {
	t.Parallel()

	lo := decimal.RequireFromString("500")
	hi := decimal.RequireFromString("100")
	negative := decimal.RequireFromString("-1")

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name: "appointment range in order",
			err:  store.AppointmentFilter{FechaDesde: date(t, "2026-10-01"), FechaHasta: date(t, "2026-10-31")}.Validate(),
		},
		{
			name: "appointment single day",
			err:  store.AppointmentFilter{FechaDesde: date(t, "2026-10-19"), FechaHasta: date(t, "2026-10-19")}.Validate(),
		},
		{
			name:    "appointment reversed range",
			err:     store.AppointmentFilter{FechaDesde: date(t, "2026-11-01"), FechaHasta: date(t, "2026-10-01")}.Validate(),
			wantErr: domain.ErrInvalidDateRange,
		},
		{
			name:    "holiday reversed range",
			err:     store.HolidayFilter{Desde: date(t, "2026-12-31"), Hasta: date(t, "2026-01-01")}.Validate(),
			wantErr: domain.ErrInvalidDateRange,
		},
		{
			name: "holiday open range",
			err:  store.HolidayFilter{Desde: date(t, "2026-12-31")}.Validate(),
		},
		{
			name:    "rating below scale",
			err:     store.SurveyFilter{CalificacionMin: intPtr(0)}.Validate(),
			wantErr: domain.ErrOutOfRange,
		},
		{
			name:    "rating bounds reversed",
			err:     store.SurveyFilter{CalificacionMin: intPtr(4), CalificacionMax: intPtr(2)}.Validate(),
			wantErr: domain.ErrOutOfRange,
		},
		{
			name: "rating bounds ok",
			err:  store.SurveyFilter{CalificacionMin: intPtr(1), CalificacionMax: intPtr(5)}.Validate(),
		},
		{
			name:    "amount bounds reversed",
			err:     store.PaymentFilter{MontoMin: &lo, MontoMax: &hi}.Validate(),
			wantErr: domain.ErrOutOfRange,
		},
		{
			name:    "negative amount",
			err:     store.PaymentFilter{MontoMin: &negative}.Validate(),
			wantErr: domain.ErrOutOfRange,
		},
		{
			name:    "weekday out of range",
			err:     store.ScheduleFilter{DiaSemana: intPtr(8)}.Validate(),
			wantErr: domain.ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == nil {
				assert.NoError(t, tt.err)
				return
			}
			assert.True(t, errors.Is(tt.err, tt.wantErr), "got %v", tt.err)
		})
	}
}
