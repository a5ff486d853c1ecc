// Package admin serves the authenticated back-office API. Every route in this
// package runs behind middleware.RequireAdmin and a capability check.
package admin

import (
	"net/http"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/handler"
)

// OrderHandler lists, inspects and manages orders.
type OrderHandler struct {
	orders domain.OrderService
}

// NewOrderHandler creates a new admin order handler
func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /orders?status=&limit=&offset=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter domain.OrderFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
		filter.Status = &status
	}

	var err error
	if filter.Limit, err = handler.QueryInt32(r, "limit", 0); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if filter.Offset, err = handler.QueryInt32(r, "offset", 0); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	page, err := h.orders.ListOrders(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if page.Orders == nil {
		page.Orders = []domain.Order{}
	}

	handler.WriteJSON(w, http.StatusOK, page)
}

// Get handles GET /orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathInt64(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{"order": order})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathInt64(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.Status == "" {
		handler.ErrorResponse(w, r, domain.NewValidationError("order.update_status", "status", "is required"))
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{"order": order})
}

// Delete handles DELETE /orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathInt64(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}

// Stats handles GET /orders/stats
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.GetStats(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, stats)
}
