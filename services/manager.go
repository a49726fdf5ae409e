package services

import (
	"inventory_server/database"
	"inventory_server/lib"
	"inventory_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	ProductClient  *ProductClient
	WatcherService *WatcherService
	HealthService  *HealthService
	Metrics        *lib.Metrics
}

// NewServiceManager wires the services. feed may be nil when no document store
// is configured; the watcher is then reported as disabled.
func NewServiceManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	feed database.ChangeFeed,
	checkpoints CheckpointStore,
	metrics *lib.Metrics,
) *ServiceManager {
	productClient := NewProductClient(logger, cfg.Products, metrics)
	watcherService := NewWatcherService(logger, feed, checkpoints, cfg.Watcher, metrics)
	healthService := NewHealthService(logger, watcherService)

	return &ServiceManager{
		ProductClient:  productClient,
		WatcherService: watcherService,
		HealthService:  healthService,
		Metrics:        metrics,
	}
}
