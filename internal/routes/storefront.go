package routes

import (
	"time"

	"github.com/dukerupert/airshop/internal/middleware"
	"github.com/dukerupert/airshop/internal/router"
)

// RegisterStorefrontRoutes registers the public shop routes.
// None of them require authentication.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	catalog := middleware.RateLimit(middleware.LimitPer(100, time.Minute))

	// Catalog
	r.Get("/products", deps.ProductHandler.List, catalog)
	r.Get("/products/{id}", deps.ProductHandler.Get, catalog)

	// Orders
	r.Post("/orders", deps.OrderHandler.Create,
		middleware.RateLimit(middleware.LimitPer(10, time.Hour)))
	r.Get("/orders/by-number/{number}", deps.OrderHandler.GetByNumber)

	// Payments. Both call the gateway.
	r.Post("/payment/create", deps.PaymentHandler.Create,
		middleware.RateLimit(middleware.LimitPer(10, time.Hour)))
	r.Get("/payment/status/{paymentId}", deps.PaymentHandler.Status,
		middleware.RateLimit(middleware.LimitPer(50, time.Hour)))
}
