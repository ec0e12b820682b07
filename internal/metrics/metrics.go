// Package metrics exposes Prometheus counters for the sync layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	cacheLookups     *prometheus.CounterVec
	codecCorruptions prometheus.Counter
	writeFailures    *prometheus.CounterVec
	busEvents        *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rentapp",
			Name:      "cache_lookups_total",
			Help:      "Aggregation cache reads by result.",
		}, []string{"result"}),
		codecCorruptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rentapp",
			Name:      "codec_corrupt_values_total",
			Help:      "Stored values discarded because they failed to decode.",
		}),
		writeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rentapp",
			Name:      "store_write_failures_total",
			Help:      "Failed writes to the key-value store by component.",
		}, []string{"component"}),
		busEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rentapp",
			Name:      "bus_events_total",
			Help:      "Events dispatched on the synchronization bus by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.cacheLookups, m.codecCorruptions, m.writeFailures, m.busEvents)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CacheHit() {
	if m != nil {
		m.cacheLookups.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.cacheLookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) Corrupted() {
	if m != nil {
		m.codecCorruptions.Inc()
	}
}

func (m *Metrics) WriteFailed(component string) {
	if m != nil {
		m.writeFailures.WithLabelValues(component).Inc()
	}
}

func (m *Metrics) Published(kind string) {
	if m != nil {
		m.busEvents.WithLabelValues(kind).Inc()
	}
}
