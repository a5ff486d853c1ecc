// Package storefront serves the public shop API: catalog reads, order
// placement, the anonymous order lookup and payment creation.
package storefront

import (
	"net/http"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/handler"
)

// OrderHandler places orders and serves the anonymous order view.
type OrderHandler struct {
	orders domain.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create handles POST /orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusCreated, map[string]any{"order": order})
}

// GetByNumber handles GET /orders/by-number/{number}
// The response never includes customer contact details or the address.
func (h *OrderHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrderByNumber(r.Context(), r.PathValue("number"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{"order": order.Public()})
}
