package routes

import (
	"time"

	"github.com/dukerupert/airshop/internal/auth"
	"github.com/dukerupert/airshop/internal/middleware"
	"github.com/dukerupert/airshop/internal/router"
	"github.com/dukerupert/airshop/internal/telemetry"
)

// RegisterAdminRoutes registers the back-office routes.
//
// Login is public. Everything else requires a bearer token, and each
// route additionally requires the capability that guards its action.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	r.Post("/auth/login", deps.AuthHandler.Login,
		middleware.RateLimit(middleware.LimitPer(5, time.Minute)))

	admin := r.Group(
		middleware.RequireAdmin(deps.Authenticator),
		telemetry.SentryContextMiddleware(middleware.SentryUser),
	)

	can := middleware.RequireCapability

	// Account
	admin.Get("/auth/verify", deps.AuthHandler.Verify)
	admin.Post("/auth/register", deps.AuthHandler.Register,
		can(auth.CapAdminsManage),
		middleware.RateLimit(middleware.LimitPer(3, time.Hour)))
	admin.Post("/auth/change-password", deps.AuthHandler.ChangePassword,
		middleware.RateLimit(middleware.LimitPer(3, time.Hour)))

	// Orders. The literal /orders/stats segment wins over /orders/{id}.
	admin.Get("/orders", deps.OrderHandler.List, can(auth.CapOrdersRead))
	admin.Get("/orders/stats", deps.OrderHandler.Stats,
		can(auth.CapOrdersRead),
		middleware.RateLimit(middleware.LimitPer(50, time.Hour)))
	admin.Get("/orders/{id}", deps.OrderHandler.Get, can(auth.CapOrdersRead))
	admin.Put("/orders/{id}/status", deps.OrderHandler.UpdateStatus, can(auth.CapOrdersWrite))
	admin.Delete("/orders/{id}", deps.OrderHandler.Delete, can(auth.CapOrdersDelete))

	// Refunds
	admin.Post("/payment/refund", deps.RefundHandler.Create,
		can(auth.CapPaymentsRefund),
		middleware.RateLimit(middleware.LimitPer(5, time.Hour)))
	admin.Get("/payment/refund/{refundId}", deps.RefundHandler.Get, can(auth.CapPaymentsRefund))
}
