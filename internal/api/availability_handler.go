package api

import (
	"context"
	"net/http"
	"time"

	"github.com/citasmx/citas-api/internal/api/shared"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/service/availability"
)

// AvailabilityService answers which days and hours can be booked.
// *availability.Service implements it.
type AvailabilityService interface {
	Days(ctx context.Context, oficinaID, servicioID int64) (*availability.Days, error)
	Hours(ctx context.Context, oficinaID, servicioID int64, fecha domain.Date) (*availability.Hours, error)
	Location() *time.Location
}

// AvailabilityHandler serves the available days and hours endpoints.
type AvailabilityHandler struct {
	service AvailabilityService
}

// NewAvailabilityHandler creates the handler.
func NewAvailabilityHandler(service AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Days handles GET /v2/citas/dias-disponibles.
func (h *AvailabilityHandler) Days(w http.ResponseWriter, r *http.Request) {
	q := shared.NewQuery(r)
	oficinaID := q.RequiredID("oficina_id")
	servicioID := q.RequiredID("servicio_id")
	if err := q.Err(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	days, err := h.service.Days(r.Context(), oficinaID, servicioID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute available days")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, days)
}

// Hours handles GET /v2/citas/horas-disponibles.
func (h *AvailabilityHandler) Hours(w http.ResponseWriter, r *http.Request) {
	q := shared.NewQuery(r)
	oficinaID := q.RequiredID("oficina_id")
	servicioID := q.RequiredID("servicio_id")
	fecha := q.RequiredDate("fecha", h.service.Location())
	if err := q.Err(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	hours, err := h.service.Hours(r.Context(), oficinaID, servicioID, fecha)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute available hours")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, hours)
}
