// Package promadapters implements eventstore.MetricsCollector with Prometheus collectors.
// The rental ledger wires it in when RENTAL_METRICS=prometheus and serves Handler on /metrics.
package promadapters

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
)

// MetricsCollector maps the eventstore metrics interface onto Prometheus vectors:
//   - RecordDuration -> HistogramVec in seconds
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
//
// Vectors are registered on first use of a metric name. The label names seen on first use are fixed
// for that metric, later calls fill missing labels with "" and ignore unknown ones.
type MetricsCollector struct {
	registry   *prometheus.Registry
	mu         sync.Mutex
	histograms map[string]labeledVec[*prometheus.HistogramVec]
	counters   map[string]labeledVec[*prometheus.CounterVec]
	gauges     map[string]labeledVec[*prometheus.GaugeVec]
}

type labeledVec[V any] struct {
	vec        V
	labelNames []string
}

// NewMetricsCollector creates a collector with its own registry, including the Go runtime and process collectors.
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return NewMetricsCollectorWithRegistry(registry)
}

// NewMetricsCollectorWithRegistry creates a collector registering its vectors on registry.
func NewMetricsCollectorWithRegistry(registry *prometheus.Registry) *MetricsCollector {
	return &MetricsCollector{
		registry:   registry,
		histograms: make(map[string]labeledVec[*prometheus.HistogramVec]),
		counters:   make(map[string]labeledVec[*prometheus.CounterVec]),
		gauges:     make(map[string]labeledVec[*prometheus.GaugeVec]),
	}
}

// Registry returns the registry the vectors are registered on.
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	histogram, ok := m.histograms[metric]
	if !ok {
		names := labelNames(labels)
		vec := prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metric,
				Help:    metric,
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
			},
			names,
		)
		if err := m.registry.Register(vec); err != nil {
			return
		}

		histogram = labeledVec[*prometheus.HistogramVec]{vec: vec, labelNames: names}
		m.histograms[metric] = histogram
	}

	histogram.vec.WithLabelValues(labelValues(histogram.labelNames, labels)...).Observe(duration.Seconds())
}

func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter, ok := m.counters[metric]
	if !ok {
		names := labelNames(labels)
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: metric, Help: metric}, names)
		if err := m.registry.Register(vec); err != nil {
			return
		}

		counter = labeledVec[*prometheus.CounterVec]{vec: vec, labelNames: names}
		m.counters[metric] = counter
	}

	counter.vec.WithLabelValues(labelValues(counter.labelNames, labels)...).Inc()
}

func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	gauge, ok := m.gauges[metric]
	if !ok {
		names := labelNames(labels)
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: metric, Help: metric}, names)
		if err := m.registry.Register(vec); err != nil {
			return
		}

		gauge = labeledVec[*prometheus.GaugeVec]{vec: vec, labelNames: names}
		m.gauges[metric] = gauge
	}

	gauge.vec.WithLabelValues(labelValues(gauge.labelNames, labels)...).Set(value)
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

func labelValues(names []string, labels map[string]string) []string {
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = labels[name]
	}

	return values
}

var _ eventstore.MetricsCollector = (*MetricsCollector)(nil)
