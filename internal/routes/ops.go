package routes

import (
	"net/http"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/handler"
	"github.com/dukerupert/airshop/internal/router"
)

// RegisterOpsRoutes registers health, metrics and the JSON 404 fallback.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.Health != nil {
			if err := deps.Health(req); err != nil {
				handler.ErrorResponse(w, req, domain.Unavailable(err, "health", "Service unavailable"))
				return
			}
		}
		handler.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.NotFound(handler.NotFoundResponse)
}
