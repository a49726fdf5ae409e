package health

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the prometheus exposition of the service registry.
func (hrm *HealthRoutesManager) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(hrm.metrics.Registry, promhttp.HandlerOpts{})
}
