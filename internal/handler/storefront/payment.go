package storefront

import (
	"net/http"
	"strings"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/handler"
)

// IdempotencyKeyHeader lets a client pin the gateway idempotency key.
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentHandler opens gateway payments for stored orders.
type PaymentHandler struct {
	payments domain.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments domain.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create handles POST /payment/create
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePaymentRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))

	result, err := h.payments.CreatePayment(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, result)
}

// Status handles GET /payment/status/{paymentId}
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.payments.CheckStatus(r.Context(), r.PathValue("paymentId"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, result)
}
