//go:build !gcloud

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

func initPublishQueue(_ context.Context, cfg *config.Config) (publishqueue.PublishQueue, func() error, error) {
	if cfg.PublishQueue.DispatcherURL == "" {
		slog.Warn("PUBLISH_DISPATCHER_URL not set, publish dispatch registration disabled")

		return nil, nil, nil
	}

	pq := publishqueue.NewDispatcherClient(
		cfg.PublishQueue.DispatcherURL,
		cfg.PublishQueue.QueueName,
		cfg.PublishQueue.MaxRetries,
	)

	slog.Info("publish queue initialized",
		slog.String("type", "dispatcher"),
		slog.String("url", cfg.PublishQueue.DispatcherURL),
		slog.String("queue", cfg.PublishQueue.QueueName),
	)

	return pq, nil, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "post-scheduling"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: logging.Module("post-scheduling"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
