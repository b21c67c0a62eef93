package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/domain/calendar"
	"github.com/citasmx/citas-api/internal/service/availability"
	"github.com/citasmx/citas-api/internal/service/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAvailability struct {
	daysFn  func(ctx context.Context, oficinaID, servicioID int64) (*availability.Days, error)
	hoursFn func(ctx context.Context, oficinaID, servicioID int64, fecha domain.Date) (*availability.Hours, error)
}

func (f *fakeAvailability) Days(ctx context.Context, oficinaID, servicioID int64) (*availability.Days, error) {
	return f.daysFn(ctx, oficinaID, servicioID)
}

func (f *fakeAvailability) Hours(ctx context.Context, oficinaID, servicioID int64, fecha domain.Date) (*availability.Hours, error) {
	return f.hoursFn(ctx, oficinaID, servicioID, fecha)
}

func (f *fakeAvailability) Location() *time.Location { return time.UTC }

func newAvailabilityRouter(svc AvailabilityService) http.Handler {
	h := NewAvailabilityHandler(svc)
	return newTestRouter(domain.PermCitas, func(r chi.Router) {
		r.Get("/citas/dias-disponibles", h.Days)
		r.Get("/citas/horas-disponibles", h.Hours)
	})
}

func TestAvailabilityHandler_Days(t *testing.T) {
	t.Parallel()

	svc := &fakeAvailability{
		daysFn: func(_ context.Context, oficinaID, servicioID int64) (*availability.Days, error) {
			if oficinaID == 99 {
				return nil, fmt.Errorf("oficina 99: %w", catalog.ErrDeleted)
			}
			return &availability.Days{
				OficinaID:  oficinaID,
				ServicioID: servicioID,
				Dias:       []domain.Date{domain.NewDate(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))},
			}, nil
		},
	}
	router := newAvailabilityRouter(svc)

	rec := do(t, router, http.MethodGet, "/v2/citas/dias-disponibles?oficina_id=1&servicio_id=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"oficina_id":1,"servicio_id":2,"dias":["2025-03-04"]}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/v2/citas/dias-disponibles?oficina_id=1", "")
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	assert.Equal(t, "Invalid servicio_id: is required", decodeError(t, rec).Error)

	rec = do(t, router, http.MethodGet, "/v2/citas/dias-disponibles?oficina_id=99&servicio_id=2", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAvailabilityHandler_Hours(t *testing.T) {
	t.Parallel()

	var gotFecha domain.Date
	svc := &fakeAvailability{
		hoursFn: func(_ context.Context, oficinaID, servicioID int64, fecha domain.Date) (*availability.Hours, error) {
			gotFecha = fecha
			if fecha.Weekday() == time.Sunday {
				return nil, fmt.Errorf("fecha %s: %w", fecha, domain.ErrOutOfRange)
			}
			return &availability.Hours{
				OficinaID:  oficinaID,
				ServicioID: servicioID,
				Fecha:      fecha,
				Horas:      []calendar.Slot{{Hora: domain.Clock(9 * 60), Disponibles: 2}},
			}, nil
		},
	}
	router := newAvailabilityRouter(svc)

	rec := do(t, router, http.MethodGet, "/v2/citas/horas-disponibles?oficina_id=1&servicio_id=2&fecha=2025-03-04", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2025-03-04", gotFecha.String())
	assert.Contains(t, rec.Body.String(), `"hora":"09:00"`)

	rec = do(t, router, http.MethodGet, "/v2/citas/horas-disponibles?oficina_id=1&servicio_id=2&fecha=2025-03-09", "")
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)

	rec = do(t, router, http.MethodGet, "/v2/citas/horas-disponibles?oficina_id=1&servicio_id=2", "")
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)

	rec = do(t, router, http.MethodGet, "/v2/citas/horas-disponibles?oficina_id=1&servicio_id=2&fecha=04-03-2025", "")
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}
