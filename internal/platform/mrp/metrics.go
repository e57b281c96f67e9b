package mrp

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records provisioner API calls. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates API call metrics in a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mrpctl",
				Subsystem: "api",
				Name:      "calls_total",
				Help:      "Total number of Mr. Provisioner API calls by method, resource and status code",
			},
			[]string{"method", "resource", "code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mrpctl",
				Subsystem: "api",
				Name:      "call_duration_seconds",
				Help:      "Duration of Mr. Provisioner API calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"method", "resource"},
		),
	}
	m.registry.MustRegister(m.calls, m.latency)
	return m
}

func (m *Metrics) observe(method, resource string, code int, d time.Duration) {
	if m == nil {
		return
	}
	status := "error"
	if code != 0 {
		status = strconv.Itoa(code)
	}
	m.calls.WithLabelValues(method, resource, status).Inc()
	m.latency.WithLabelValues(method, resource).Observe(d.Seconds())
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteToTextfile writes the metrics in the node exporter textfile format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
