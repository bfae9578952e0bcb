//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// gcpTraceAttrs is a no-op outside Cloud Run; local traces are
// correlated by the OTLP exporter instead.
func gcpTraceAttrs(_ context.Context, _ string) []slog.Attr {
	return nil
}
