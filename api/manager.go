package api

import (
	"inventory_server/api/health"
	"inventory_server/api/inventory"
	"inventory_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

const apiPrefix = "/api-inventory"

type routerManager struct {
	inventoryRoutes *inventory.InventoryRoutesManager
	healthRoutes    *health.HealthRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager) *routerManager {
	return &routerManager{
		inventoryRoutes: inventory.NewInventoryRoutesManager(logger, sm.ProductClient),
		healthRoutes:    health.NewHealthRoutesManager(sm.HealthService, sm.Metrics),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	r.Route(apiPrefix, func(r chi.Router) {
		rm.inventoryRoutes.RegisterRoutes(r)
		rm.healthRoutes.RegisterRoutes(r)
	})

	r.Method(http.MethodGet, "/metrics", rm.healthRoutes.MetricsHandler())
}
