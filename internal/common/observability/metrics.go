package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability owns the OpenTelemetry meter and tracer providers. Its
// instruments are exported through the default Prometheus registry next to
// the promauto ones.
type Observability struct {
	meterProvider  *metric.MeterProvider
	runCounter     otelmetric.Int64Counter
	runDuration    otelmetric.Float64Histogram
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
}

// New builds the meter provider. On exporter failure it returns a no-op
// instance and the error, so callers can log and carry on.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	runCounter, err := meter.Int64Counter(
		"pipeline.runs",
		otelmetric.WithDescription("Number of ProcessOne invocations"),
	)
	if err != nil {
		return &Observability{meterProvider: provider}, err
	}

	runDuration, err := meter.Float64Histogram(
		"pipeline.run.duration",
		otelmetric.WithDescription("ProcessOne duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return &Observability{meterProvider: provider}, err
	}

	return &Observability{
		meterProvider: provider,
		runCounter:    runCounter,
		runDuration:   runDuration,
	}, nil
}

// NewNoop returns an instance that records nothing.
func NewNoop() *Observability {
	return &Observability{}
}

// RecordRun records one pipeline run with its outcome.
func (o *Observability) RecordRun(ctx context.Context, outcome string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("outcome", outcome))
	if o.runCounter != nil {
		o.runCounter.Add(ctx, 1, attrs)
	}
	if o.runDuration != nil {
		o.runDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil {
		return nil
	}
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			return err
		}
	}
	if o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
