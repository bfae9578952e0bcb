//go:build gcloud

package observability

import (
	"context"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Cloud builds export directly into Cloud Monitoring and Cloud Trace.

func newMetricExporter(_ context.Context, cfg Config) (sdkmetric.Exporter, error) {
	return mexporter.New(mexporter.WithProjectID(cfg.GCPProjectID))
}

func newTraceExporter(_ context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	return texporter.New(texporter.WithProjectID(cfg.GCPProjectID))
}
