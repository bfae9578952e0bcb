package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const schedulerTracerName = "github.com/postpilot-labs/post-scheduling/internal/service/scheduler"

func SchedulerTracer() trace.Tracer {
	return otel.Tracer(schedulerTracerName)
}

func StartAllocationSpan(ctx context.Context, referenceTime time.Time) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler.allocation",
		trace.WithAttributes(
			attribute.String("allocation.reference_time", referenceTime.Format(time.RFC3339)),
		),
	)
}

func RecordAllocationResult(span trace.Span, mode string, instant time.Time, err error) {
	span.SetAttributes(
		attribute.String("allocation.mode", mode),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(
		attribute.String("allocation.instant", instant.Format(time.RFC3339)),
	)
	span.SetStatus(codes.Ok, "")
}

func StartCalendarMirrorSpan(ctx context.Context, postID string) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler.calendar_mirror",
		trace.WithAttributes(
			attribute.String("post_id", postID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordCalendarMirrorResult(span trace.Span, state string, err error) {
	span.SetAttributes(
		attribute.String("mirror.state", state),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
