package domain

import (
	"context"
	"time"
)

// EngagementRecord is one engagement observation exported to the
// analytics sink. Recording is best-effort telemetry and never affects
// scheduling correctness.
type EngagementRecord struct {
	PostID       string
	Platform     string
	Score        int
	ScheduledFor time.Time
	RecordedAt   time.Time
}

type EngagementRecorder interface {
	RecordEngagement(ctx context.Context, record EngagementRecord) error
	Close() error
}
