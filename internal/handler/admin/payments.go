package admin

import (
	"net/http"
	"strings"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/handler"
)

// RefundHandler issues and inspects gateway refunds.
type RefundHandler struct {
	payments domain.PaymentService
}

// NewRefundHandler creates a new refund handler
func NewRefundHandler(payments domain.PaymentService) *RefundHandler {
	return &RefundHandler{payments: payments}
}

// Create handles POST /payment/refund
// An Idempotency-Key header pins the gateway key so the refund can be retried safely.
func (h *RefundHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.RefundRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	result, err := h.payments.Refund(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, result)
}

// Get handles GET /payment/refund/{refundId}
func (h *RefundHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.payments.GetRefund(r.Context(), r.PathValue("refundId"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, result)
}
