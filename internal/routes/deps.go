package routes

import (
	"net/http"

	"github.com/dukerupert/airshop/internal/handler/admin"
	"github.com/dukerupert/airshop/internal/handler/storefront"
	"github.com/dukerupert/airshop/internal/handler/webhook"
	"github.com/dukerupert/airshop/internal/middleware"
)

// StorefrontDeps contains dependencies for public shop routes
type StorefrontDeps struct {
	OrderHandler   *storefront.OrderHandler
	ProductHandler *storefront.ProductHandler
	PaymentHandler *storefront.PaymentHandler
}

// AdminDeps contains dependencies for admin routes
type AdminDeps struct {
	// Authenticator resolves bearer tokens for every protected route.
	Authenticator middleware.Authenticator

	AuthHandler   *admin.AuthHandler
	OrderHandler  *admin.OrderHandler
	RefundHandler *admin.RefundHandler
}

// WebhookDeps contains dependencies for webhook routes
type WebhookDeps struct {
	YooKassaHandler *webhook.YooKassaHandler
}

// OpsDeps contains dependencies for health and metrics routes
type OpsDeps struct {
	// Health reports readiness. Nil means always healthy.
	Health func(r *http.Request) error

	// Metrics serves the Prometheus scrape endpoint. Nil disables it.
	Metrics http.Handler
}
