//go:build gcloud

package engagementrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt    time.Time `bigquery:"recorded_at"`
	PostID        string    `bigquery:"post_id"`
	Platform      string    `bigquery:"platform"`
	Score         int64     `bigquery:"score"`
	ScheduledFor  time.Time `bigquery:"scheduled_for"`
	ScheduledHour int64     `bigquery:"scheduled_hour"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.EngagementRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "engagement recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, engagement recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, engagement recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)
	inserter := table.Inserter()

	slog.InfoContext(ctx, "engagement recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordEngagement(ctx context.Context, record domain.EngagementRecord) error {
	row := &bigQueryRecord{
		RecordedAt:    time.Now(),
		PostID:        record.PostID,
		Platform:      record.Platform,
		Score:         int64(record.Score),
		ScheduledFor:  record.ScheduledFor,
		ScheduledHour: int64(record.ScheduledFor.UTC().Hour()),
	}

	if err := r.inserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert engagement record to BigQuery",
			slog.String("error", err.Error()),
			slog.String("post_id", record.PostID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
