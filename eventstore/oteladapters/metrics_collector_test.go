package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore/oteladapters"
)

func givenCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("rental-ledger-test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// arrange
	collector, reader := givenCollector()
	labels := map[string]string{"operation": "query", "status": "success"}

	// act
	collector.RecordDuration("eventstore_query_duration_seconds", 150*time.Millisecond, labels)

	// assert
	histogram := findMetric[metricdata.Histogram[float64]](t, collect(t, reader), "eventstore_query_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)
	expectedAttrs := attribute.NewSet(attribute.String("operation", "query"), attribute.String("status", "success"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// arrange
	collector, reader := givenCollector()
	labels := map[string]string{"command_type": "OpenRental", "status": "conflict"}

	// act
	collector.IncrementCounter("commandhandler_concurrency_conflicts_total", labels)
	collector.IncrementCounterContext(context.Background(), "commandhandler_concurrency_conflicts_total", labels)
	collector.IncrementCounter("commandhandler_concurrency_conflicts_total", labels)

	// assert
	sum := findMetric[metricdata.Sum[int64]](t, collect(t, reader), "commandhandler_concurrency_conflicts_total")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// arrange
	collector, reader := givenCollector()

	// act
	collector.RecordValue("view_records", 3, map[string]string{"view": "rentals"})
	collector.RecordValueContext(context.Background(), "view_records", 5, map[string]string{"view": "rentals"})

	// assert
	gauge := findMetric[metricdata.Gauge[float64]](t, collect(t, reader), "view_records")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 5.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_NilAndEmptyLabels(t *testing.T) {
	// arrange
	collector, reader := givenCollector()

	// act
	collector.IncrementCounter("eventstore_database_errors_total", nil)
	collector.IncrementCounter("eventstore_database_errors_total", map[string]string{})

	// assert
	sum := findMetric[metricdata.Sum[int64]](t, collect(t, reader), "eventstore_database_errors_total")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	assert.Equal(t, 0, sum.DataPoints[0].Attributes.Len())
}

func Test_MetricsCollector_ConcurrentUse(t *testing.T) {
	// arrange
	collector, reader := givenCollector()
	wg := sync.WaitGroup{}

	// act
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("eventstore_events_appended_total", nil)
			collector.RecordDuration("eventstore_append_duration_seconds", time.Millisecond, nil)
		}()
	}
	wg.Wait()

	// assert
	resourceMetrics := collect(t, reader)
	sum := findMetric[metricdata.Sum[int64]](t, resourceMetrics, "eventstore_events_appended_total")
	histogram := findMetric[metricdata.Histogram[float64]](t, resourceMetrics, "eventstore_append_duration_seconds")
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
	assert.Equal(t, uint64(20), histogram.DataPoints[0].Count)
}

func findMetric[T any](t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) T {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name != name {
				continue
			}

			if data, ok := m.Data.(T); ok {
				return data
			}
		}
	}

	t.Fatalf("metric %s not found", name)

	var zero T
	return zero
}
