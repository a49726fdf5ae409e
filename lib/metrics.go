package lib

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the service collectors on their own registry so that several
// instances (one per test, for example) never collide on registration.
type Metrics struct {
	Registry *prometheus.Registry

	HttpDuration *prometheus.HistogramVec
	HttpRequests *prometheus.CounterVec

	DownstreamDuration *prometheus.HistogramVec

	WatcherEvents   *prometheus.CounterVec
	WatcherRestarts prometheus.Counter
	WatcherUp       prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HttpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "api",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HttpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "api",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		DownstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "inventory",
				Subsystem: "downstream",
				Name:      "request_duration_seconds",
				Help:      "Latency of calls to the products service",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "outcome"},
		),
		WatcherEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "inventory",
				Subsystem: "watcher",
				Name:      "events_total",
				Help:      "Change events received from the document store",
			},
			[]string{"operation"},
		),
		WatcherRestarts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "inventory",
				Subsystem: "watcher",
				Name:      "restarts_total",
				Help:      "Times the change stream was reopened after a failure",
			},
		),
		WatcherUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "inventory",
				Subsystem: "watcher",
				Name:      "up",
				Help:      "1 while the change stream cursor is open",
			},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HttpDuration,
		m.HttpRequests,
		m.DownstreamDuration,
		m.WatcherEvents,
		m.WatcherRestarts,
		m.WatcherUp,
	)

	return m
}
