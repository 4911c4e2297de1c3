package testdoubles

import (
	"maps"
	"sync"
	"time"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
)

// MetricsCollectorSpy captures calls to the eventstore.MetricsCollector methods.
type MetricsCollectorSpy struct {
	durationRecords []DurationRecord
	counterRecords  []CounterRecord
	valueRecords    []ValueRecord
	mu              sync.Mutex
}

// DurationRecord represents a recorded duration metric call.
type DurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// CounterRecord represents a recorded counter increment call.
type CounterRecord struct {
	Metric string
	Labels map[string]string
}

// ValueRecord represents a recorded value metric call.
type ValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = append(s.durationRecords, DurationRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counterRecords = append(s.counterRecords, CounterRecord{Metric: metric, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.valueRecords = append(s.valueRecords, ValueRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

// DurationRecords returns the captured duration records for the metric.
func (s *MetricsCollectorSpy) DurationRecords(metric string) []DurationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]DurationRecord, 0)
	for _, record := range s.durationRecords {
		if record.Metric == metric {
			records = append(records, record)
		}
	}

	return records
}

// CounterRecords returns the captured counter records for the metric.
func (s *MetricsCollectorSpy) CounterRecords(metric string) []CounterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]CounterRecord, 0)
	for _, record := range s.counterRecords {
		if record.Metric == metric {
			records = append(records, record)
		}
	}

	return records
}

// ValueRecords returns the captured value records for the metric.
func (s *MetricsCollectorSpy) ValueRecords(metric string) []ValueRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]ValueRecord, 0)
	for _, record := range s.valueRecords {
		if record.Metric == metric {
			records = append(records, record)
		}
	}

	return records
}

// HasCounter reports whether the counter was incremented with labels containing all given label pairs.
func (s *MetricsCollectorSpy) HasCounter(metric string, labels map[string]string) bool {
	for _, record := range s.CounterRecords(metric) {
		if containsLabels(record.Labels, labels) {
			return true
		}
	}

	return false
}

// HasDuration reports whether a duration was recorded with labels containing all given label pairs.
func (s *MetricsCollectorSpy) HasDuration(metric string, labels map[string]string) bool {
	for _, record := range s.DurationRecords(metric) {
		if containsLabels(record.Labels, labels) {
			return true
		}
	}

	return false
}

func containsLabels(actual map[string]string, expected map[string]string) bool {
	for k, v := range expected {
		if actual[k] != v {
			return false
		}
	}

	return true
}

var _ eventstore.MetricsCollector = (*MetricsCollectorSpy)(nil)
