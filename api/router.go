package api

import (
	"inventory_server/api/middleware"
	"inventory_server/services"
	"inventory_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// App builds the HTTP handler. logger is used by the route handlers, mwLogger
// by the request logging middleware.
func App(cfg *structs.Config, logger *gecho.Logger, mwLogger *gecho.Logger, sm *services.ServiceManager) chi.Router {
	r := chi.NewRouter()

	// Initialize middleware
	mw := middleware.NewMiddleware(cfg, mwLogger, sm.Metrics)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit())
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.Metrics())
	r.Use(mw.SetupLoggerMiddleware())

	// CORS
	r.Use(mw.SetupCORS().Handler)

	// Register all routes
	NewRouterManager(logger, sm).RegisterRoutes(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}
