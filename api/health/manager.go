package health

import (
	"inventory_server/lib"
	"inventory_server/services"

	"github.com/go-chi/chi/v5"
)

type HealthRoutesManager struct {
	healthService *services.HealthService
	metrics       *lib.Metrics
}

func NewHealthRoutesManager(healthService *services.HealthService, metrics *lib.Metrics) *HealthRoutesManager {
	return &HealthRoutesManager{
		healthService: healthService,
		metrics:       metrics,
	}
}

func (hrm *HealthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/health/", hrm.GetHealth)
	r.Get("/health/server/", hrm.GetServerHealth)
	r.Get("/health/watcher/", hrm.GetWatcherHealth)
}
