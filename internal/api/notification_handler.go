package api

import (
	"context"
	"net/http"

	"github.com/citasmx/citas-api/internal/api/shared"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/service/notification"
)

// Resender runs the resend loop. *notification.Service implements it.
type Resender interface {
	ResendPending(ctx context.Context, kind domain.PendingKind) (notification.ResendResult, error)
}

// NotificationHandler serves the resend endpoints.
type NotificationHandler struct {
	resender Resender
}

// NewNotificationHandler creates the handler.
func NewNotificationHandler(resender Resender) *NotificationHandler {
	return &NotificationHandler{resender: resender}
}

// Resend returns the handler of POST /v2/<registros|recuperaciones>/reenviar.
func (h *NotificationHandler) Resend(kind domain.PendingKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.resender.ResendPending(r.Context(), kind)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to resend notifications")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, res)
	}
}
