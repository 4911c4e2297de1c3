package config

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore/oteladapters"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore/promadapters"
)

const (
	serviceName           = "rental-ledger"
	instrumentationName   = "github.com/tabletop-rentals/rental-ledger-go"
	metricExportInterval  = 5 * time.Second
	observabilityShutdown = 5 * time.Second
)

// Observability bundles the logger and the optional collectors every component gets wired with.
// Metrics, Tracing and ContextualLogger are nil when not configured.
type Observability struct {
	Logger           *slog.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector

	// MetricsHandler serves /metrics, only set for Prometheus.
	MetricsHandler http.Handler

	shutdown []func(context.Context) error
}

// NewObservability creates the collectors selected by cfg.Metrics.
//
// With "otel" the meter and tracer providers export over OTLP gRPC when OTelEndpoint is set,
// otherwise they only aggregate in process.
func NewObservability(ctx context.Context, cfg Config, logger *slog.Logger) (*Observability, error) {
	o := &Observability{Logger: logger}

	switch cfg.Metrics {
	case MetricsPrometheus:
		collector := promadapters.NewMetricsCollector()
		o.Metrics = collector
		o.MetricsHandler = collector.Handler()

	case MetricsOTel:
		if err := o.setUpOTel(ctx, cfg); err != nil {
			_ = o.Shutdown()
			return nil, err
		}
	}

	return o, nil
}

func (o *Observability) setUpOTel(ctx context.Context, cfg Config) error {
	// Create a resource for identifying this service
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return err
	}

	tracerOpts := []trace.TracerProviderOption{trace.WithResource(res)}
	meterOpts := []metric.Option{metric.WithResource(res)}

	if cfg.OTelEndpoint != "" {
		traceExporter, exportErr := otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpoint(cfg.OTelEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if exportErr != nil {
			return exportErr
		}

		metricExporter, exportErr := otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpoint(cfg.OTelEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if exportErr != nil {
			return errors.Join(exportErr, traceExporter.Shutdown(ctx))
		}

		tracerOpts = append(tracerOpts, trace.WithBatcher(traceExporter))
		meterOpts = append(meterOpts, metric.WithReader(
			metric.NewPeriodicReader(metricExporter, metric.WithInterval(metricExportInterval)),
		))
	}

	tracerProvider := trace.NewTracerProvider(tracerOpts...)
	meterProvider := metric.NewMeterProvider(meterOpts...)
	o.shutdown = append(o.shutdown, tracerProvider.Shutdown, meterProvider.Shutdown)

	// Set global providers for OpenTelemetry
	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	o.Metrics = oteladapters.NewMetricsCollector(meterProvider.Meter(instrumentationName))
	o.Tracing = oteladapters.NewTracingCollector(tracerProvider.Tracer(instrumentationName))

	if o.Logger != nil {
		o.ContextualLogger = oteladapters.NewSlogBridgeLoggerWithHandler(o.Logger.Handler())
	}

	return nil
}

// Shutdown flushes and stops the OpenTelemetry providers, if any.
func (o *Observability) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), observabilityShutdown)
	defer cancel()

	var err error
	for _, shutdown := range o.shutdown {
		err = errors.Join(err, shutdown(ctx))
	}

	o.shutdown = nil

	return err
}
