package observability

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/postpilot-labs/post-scheduling/internal/observability/logging"
)

// Config carries the observability bootstrap parameters.
type Config struct {
	ServiceInfo   logging.ServiceInfo
	Environment   logging.Environment
	GCPProjectID  string
	SamplingRate  float64
	DefaultModule logging.Module
}

// Resources owns the global logger, meter, and tracer providers and
// shuts them down as a unit.
type Resources struct {
	logger         *slog.Logger
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
}

func (r *Resources) Logger() *slog.Logger {
	return r.logger
}

func (r *Resources) Shutdown(ctx context.Context) error {
	var errs []error
	if r.tracerProvider != nil {
		if err := r.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if r.meterProvider != nil {
		if err := r.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Init configures logging, metrics, and tracing and registers the otel
// global providers. Exporters are platform-specific; set OTEL_DISABLED
// to run with providers that export nothing.
func Init(ctx context.Context, cfg Config) (*Resources, error) {
	level := slog.LevelInfo
	if cfg.Environment == logging.EnvDev {
		level = slog.LevelDebug
	}

	handler := logging.NewHandler(os.Stdout, level, cfg.Environment, cfg.ServiceInfo, cfg.GCPProjectID)
	logger := slog.New(handler).With(slog.String("module", string(cfg.DefaultModule)))

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceInfo.Name),
		semconv.ServiceVersion(cfg.ServiceInfo.Version),
		semconv.DeploymentEnvironment(string(cfg.Environment)),
	))
	if err != nil {
		return nil, err
	}

	out := &Resources{logger: logger}

	metricOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
	}

	if os.Getenv("OTEL_DISABLED") == "" {
		metricExporter, err := newMetricExporter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))

		traceExporter, err := newTraceExporter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(traceExporter))
	}

	out.meterProvider = sdkmetric.NewMeterProvider(metricOpts...)
	otel.SetMeterProvider(out.meterProvider)

	out.tracerProvider = sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(out.tracerProvider)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return out, nil
}
