// Package metrics exposes Prometheus metrics for the flavor catalog.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	flavorOperations    *prometheus.CounterVec
	catalogSize         prometheus.Gauge
}

var globalManager = NewManager() //nolint:gochecknoglobals // process-wide metrics, like the default registry

// NewManager creates a manager with its own registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "flavor_catalog",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})

	m.flavorOperations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "flavor_operations_total",
		Help:      "Flavor write operations by operation and result",
	}, []string{"operation", "result"})

	m.catalogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "flavors",
		Help:      "Number of flavors stored",
	})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Manager) RecordHTTPRequest(route, method, statusCode string, seconds float64) {
	m.httpRequests.WithLabelValues(route, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

func (m *Manager) RecordFlavorOperation(operation, result string) {
	m.flavorOperations.WithLabelValues(operation, result).Inc()
}

func (m *Manager) SetCatalogSize(count int64) {
	m.catalogSize.Set(float64(count))
}

// Package-level helpers over the global manager.

func GetRegistry() *prometheus.Registry {
	return globalManager.Registry()
}

func RecordHTTPRequest(route, method, statusCode string, seconds float64) {
	globalManager.RecordHTTPRequest(route, method, statusCode, seconds)
}

func RecordFlavorOperation(operation, result string) {
	globalManager.RecordFlavorOperation(operation, result)
}

func SetCatalogSize(count int64) {
	globalManager.SetCatalogSize(count)
}
