package telemetry

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const meterName = "github.com/foxseedlab/lucidia"

// Setup installs a meter provider backed by a prometheus exporter. The returned
// handler serves the registry; it is nil when the exporter cannot be created.
func Setup(ctx context.Context, serviceName, environment string) (func(context.Context) error, http.Handler, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("deployment.environment", environment),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		slog.Warn("failed to initialize prometheus exporter", "error", err)
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res))
		otel.SetMeterProvider(provider)
		return provider.Shutdown, nil, nil
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)
	slog.Info("telemetry initialized", "exporter", "prometheus")
	return provider.Shutdown, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

// Recorder counts analyses and their latency.
type Recorder struct {
	analyses metric.Int64Counter
	latency  metric.Float64Histogram
}

func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(meterName)
	analyses, err := meter.Int64Counter("lucidia.analyses",
		metric.WithDescription("Transcripts analyzed, by analyzer and outcome"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("lucidia.analysis.duration",
		metric.WithDescription("Analyzer latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return &Recorder{analyses: analyses, latency: latency}, nil
}

func (r *Recorder) RecordAnalysis(ctx context.Context, analyzer string, succeeded bool, elapsed time.Duration) {
	outcome := "succeeded"
	if !succeeded {
		outcome = "failed"
	}
	attrs := metric.WithAttributes(
		attribute.String("analyzer", analyzer),
		attribute.String("outcome", outcome),
	)
	r.analyses.Add(ctx, 1, attrs)
	r.latency.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}
