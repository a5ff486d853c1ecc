package routes

import (
	"github.com/dukerupert/airshop/internal/middleware"
	"github.com/dukerupert/airshop/internal/router"
)

// RegisterWebhookRoutes registers gateway callback routes.
//
// Webhook routes carry no authentication. YooKassa does not sign its
// notifications, so authenticity comes from the reconciler only acting
// on payment ids it already knows.
func RegisterWebhookRoutes(r *router.Router, deps WebhookDeps) {
	r.Post("/payment/webhook", deps.YooKassaHandler.HandleWebhook,
		middleware.MaxBodySize(middleware.SmallMaxBodySize))
}
