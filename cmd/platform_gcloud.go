//go:build gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/postpilot-labs/post-scheduling/internal/config"
	"github.com/postpilot-labs/post-scheduling/internal/infra/publishqueue"
	"github.com/postpilot-labs/post-scheduling/internal/observability"
	"github.com/postpilot-labs/post-scheduling/internal/observability/logging"
)

func initPublishQueue(ctx context.Context, cfg *config.Config) (publishqueue.PublishQueue, func() error, error) {
	cloudTasksClient, err := publishqueue.NewCloudTasksClient(ctx, publishqueue.CloudTasksConfig{
		ProjectID:  cfg.PublishQueue.GCloudProjectID,
		LocationID: cfg.PublishQueue.GCloudLocationID,
		QueueID:    cfg.PublishQueue.GCloudQueueID,
		TargetURL:  cfg.PublishQueue.GCloudTargetURL,
		MaxRetries: cfg.PublishQueue.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("publish queue initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.PublishQueue.GCloudProjectID),
		slog.String("location", cfg.PublishQueue.GCloudLocationID),
		slog.String("queue", cfg.PublishQueue.GCloudQueueID),
	)

	cleanup := func() error {
		if err := cloudTasksClient.Close(); err != nil {
			slog.Warn("failed to close cloud tasks client", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return cloudTasksClient, cleanup, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "post-scheduling"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("post-scheduling"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
