package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	schedulerMeterName = "scheduler.service"
)

type SchedulerMetrics struct {
	allocationsTotal     metric.Int64Counter
	allocationDuration   metric.Float64Histogram
	adaptiveShifts       metric.Int64Counter
	calendarMirrors      metric.Int64Counter
	engagementRecordings metric.Int64Counter
}

func NewSchedulerMetrics() (*SchedulerMetrics, error) {
	meter := otel.Meter(schedulerMeterName)

	allocationsTotal, err := meter.Int64Counter(
		"scheduler_allocations_total",
		metric.WithDescription("Total number of slot allocations"),
		metric.WithUnit("{allocation}"),
	)
	if err != nil {
		return nil, err
	}

	allocationDuration, err := meter.Float64Histogram(
		"scheduler_allocation_duration_seconds",
		metric.WithDescription("Time spent allocating a slot"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
		),
	)
	if err != nil {
		return nil, err
	}

	adaptiveShifts, err := meter.Int64Counter(
		"scheduler_adaptive_shifts_total",
		metric.WithDescription("Adaptive allocations shifted due to a best-hour collision"),
		metric.WithUnit("{allocation}"),
	)
	if err != nil {
		return nil, err
	}

	calendarMirrors, err := meter.Int64Counter(
		"scheduler_calendar_mirrors_total",
		metric.WithDescription("Calendar mirror attempts by outcome"),
		metric.WithUnit("{mirror}"),
	)
	if err != nil {
		return nil, err
	}

	engagementRecordings, err := meter.Int64Counter(
		"scheduler_engagement_recordings_total",
		metric.WithDescription("Engagement feedback recordings by result"),
		metric.WithUnit("{recording}"),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerMetrics{
		allocationsTotal:     allocationsTotal,
		allocationDuration:   allocationDuration,
		adaptiveShifts:       adaptiveShifts,
		calendarMirrors:      calendarMirrors,
		engagementRecordings: engagementRecordings,
	}, nil
}

func (m *SchedulerMetrics) RecordAllocation(ctx context.Context, mode string, duration time.Duration) {
	m.allocationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
	m.allocationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("mode", mode)))
}

func (m *SchedulerMetrics) RecordAdaptiveShift(ctx context.Context) {
	m.adaptiveShifts.Add(ctx, 1)
}

func (m *SchedulerMetrics) RecordCalendarMirror(ctx context.Context, outcome string) {
	m.calendarMirrors.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *SchedulerMetrics) RecordEngagementFeedback(ctx context.Context, result string) {
	m.engagementRecordings.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
