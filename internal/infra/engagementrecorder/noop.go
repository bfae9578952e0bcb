package engagementrecorder

import (
	"context"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.EngagementRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordEngagement(_ context.Context, _ domain.EngagementRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
