// Package webhook receives asynchronous payment gateway notifications.
package webhook

import (
	"net/http"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/handler"
	"github.com/dukerupert/airshop/internal/middleware"
)

// YooKassaHandler folds YooKassa notifications into order state.
type YooKassaHandler struct {
	reconciler domain.Reconciler
}

// NewYooKassaHandler creates a new YooKassa webhook handler
func NewYooKassaHandler(reconciler domain.Reconciler) *YooKassaHandler {
	return &YooKassaHandler{reconciler: reconciler}
}

// HandleWebhook handles POST /payment/webhook
//
// The gateway retries anything that is not a 2xx, so benign outcomes
// (unknown event, unmatched payment, duplicate delivery) are acknowledged
// with 200. Only a malformed payload gets a 400 and only a storage failure
// gets a 500, which asks the gateway to redeliver.
func (h *YooKassaHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var n domain.WebhookNotification
	if err := handler.DecodeJSON(r, &n); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	outcome, err := h.reconciler.Apply(r.Context(), n)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	attrs := []any{"event", n.Event, "outcome", outcome}
	if n.Object != nil {
		attrs = append(attrs, "object_id", n.Object.ID)
	}
	logger.Info("webhook processed", attrs...)

	handler.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
