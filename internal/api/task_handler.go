package api

import (
	"net/http"

	"github.com/citasmx/citas-api/internal/api/shared"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/citasmx/citas-api/internal/task"
)

// TaskHandler serves the background task endpoints.
type TaskHandler struct {
	reader task.Reader
}

// NewTaskHandler creates the handler.
func NewTaskHandler(reader task.Reader) *TaskHandler {
	return &TaskHandler{reader: reader}
}

// List handles GET /v2/tareas.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := shared.NewQuery(r)
	status, ok := task.ParseTaskStatus(q.String("estatus"))
	page := q.Page()
	err := q.Err()
	if err == nil && !ok {
		err = domain.NewValidationError("estatus", "must be pending, processing, completed or failed", domain.ErrValidation)
	}
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.reader.List(r.Context(), store.TaskFilter{Status: string(status), Type: q.String("tipo")}, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shared.NewPageResponse(res, page))
}

// Get handles GET /v2/tareas/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	rec, err := h.reader.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, rec)
}
