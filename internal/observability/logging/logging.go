package logging

import (
	"context"
	"io"
	"log/slog"
)

// Environment selects the log output format.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module labels log records with the subsystem that emitted them.
type Module string

// ServiceInfo identifies the running service in every log record.
type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

// NewHandler builds the service slog handler: human-readable text in
// dev, JSON elsewhere, with service identity attrs on every record and
// trace correlation attrs added from the request context when present.
func NewHandler(w io.Writer, level slog.Level, env Environment, svc ServiceInfo, projectID string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if env == EnvDev {
		inner = slog.NewTextHandler(w, opts)
	} else {
		inner = slog.NewJSONHandler(w, opts)
	}

	attrs := []slog.Attr{
		slog.String("service", svc.Name),
		slog.String("version", svc.Version),
	}
	if svc.Revision != "" {
		attrs = append(attrs, slog.String("revision", svc.Revision))
	}

	return &traceHandler{
		inner:     inner.WithAttrs(attrs),
		projectID: projectID,
	}
}

// traceHandler decorates records with trace correlation attrs resolved
// from the context.
type traceHandler struct {
	inner     slog.Handler
	projectID string
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *traceHandler) Handle(ctx context.Context, rec slog.Record) error {
	if attrs := gcpTraceAttrs(ctx, h.projectID); len(attrs) > 0 {
		rec.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, rec)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{inner: h.inner.WithAttrs(attrs), projectID: h.projectID}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{inner: h.inner.WithGroup(name), projectID: h.projectID}
}
