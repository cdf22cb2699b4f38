package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics Prometheus collectors of the service.
// All methods are safe on a nil receiver, so callers do not branch on cfg.Metrics.Enabled.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	engineRuns    *prometheus.HistogramVec
	slotsProduced *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
}

// New registers collectors in the default registry (served by promhttp.Handler)
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry registers collectors in reg
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),

		engineRuns: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "availability_engine_duration_seconds",
			Help:        "Time spent computing availability",
			Buckets:     []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			ConstLabels: constLabels,
		}, []string{"operation"}),

		slotsProduced: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "availability_slots_produced",
			Help:        "Number of slots (or open days) produced per computation",
			Buckets:     []float64{0, 1, 2, 5, 10, 20, 40, 80},
			ConstLabels: constLabels,
		}, []string{"operation"}),

		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_windows_cache_lookups_total",
			Help:        "Windows cache lookups by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}
}

// ObserveHTTP records one HTTP request
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveEngine records one engine computation and its output size
func (m *Metrics) ObserveEngine(operation string, duration time.Duration, produced int) {
	if m == nil {
		return
	}
	m.engineRuns.WithLabelValues(operation).Observe(duration.Seconds())
	m.slotsProduced.WithLabelValues(operation).Observe(float64(produced))
}

// CacheHit counts a windows cache hit
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss counts a windows cache miss
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}
