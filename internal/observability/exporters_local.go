//go:build !gcloud

package observability

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Local builds export over OTLP/HTTP; endpoint and headers come from
// the standard OTEL_EXPORTER_OTLP_* environment variables.

func newMetricExporter(ctx context.Context, _ Config) (sdkmetric.Exporter, error) {
	return otlpmetrichttp.New(ctx)
}

func newTraceExporter(ctx context.Context, _ Config) (sdktrace.SpanExporter, error) {
	return otlptracehttp.New(ctx)
}
