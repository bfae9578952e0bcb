package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/postpilot-labs/post-scheduling/internal/config"
	"github.com/postpilot-labs/post-scheduling/internal/handler"
	"github.com/postpilot-labs/post-scheduling/internal/health"
	"github.com/postpilot-labs/post-scheduling/internal/infra/calendar"
	"github.com/postpilot-labs/post-scheduling/internal/infra/engagementrecorder"
	"github.com/postpilot-labs/post-scheduling/internal/infra/leadstore"
	"github.com/postpilot-labs/post-scheduling/internal/infra/repository"
	"github.com/postpilot-labs/post-scheduling/internal/observability/logging"
	"github.com/postpilot-labs/post-scheduling/internal/observability/metrics"
	"github.com/postpilot-labs/post-scheduling/internal/observability/middleware"
	"github.com/postpilot-labs/post-scheduling/internal/service/adaptive"
	"github.com/postpilot-labs/post-scheduling/internal/service/campaign"
	"github.com/postpilot-labs/post-scheduling/internal/service/scheduler"
	"github.com/postpilot-labs/post-scheduling/internal/service/slot"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	schedulerMetrics, err := metrics.NewSchedulerMetrics()
	if err != nil {
		slog.Error("failed to initialize scheduler metrics", slog.String("error", err.Error()))
		return 1
	}

	// Engagement recorder (InfluxDB for local, BigQuery for gcloud)
	recorderCfg := engagementrecorder.LoadConfig()
	recorder, err := engagementrecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize engagement recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close engagement recorder", slog.String("error", err.Error()))
		}
	}()

	cal, err := calendar.New(ctx, calendar.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize calendar", slog.String("error", err.Error()))
		return 1
	}

	publishQueue, cleanup, err := initPublishQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize publish queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("publish queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	postRepo := repository.NewPostRepository(redisClient)

	defaultAlloc := slot.NewAllocator(
		postRepo,
		cfg.Scheduler.WindowStartHour,
		cfg.Scheduler.WindowEndHour,
		cfg.Scheduler.SearchHorizonDays,
		nil,
	)
	adaptiveAlloc := adaptive.NewAllocator(postRepo, defaultAlloc, schedulerMetrics)

	engine := scheduler.NewEngine(
		postRepo,
		defaultAlloc,
		adaptiveAlloc,
		cal,
		publishQueue,
		recorder,
		schedulerMetrics,
		cfg.Scheduler.MinScoredPosts,
		cfg.Scheduler.CalendarTimeout,
	)

	postHandler := handler.NewPostHandler(postRepo)
	scheduleHandler := handler.NewScheduleHandler(engine)
	engagementHandler := handler.NewEngagementHandler(engine)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      logging.Module("post-scheduling"),
		TracerName:  "github.com/postpilot-labs/post-scheduling/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/posts", postHandler.HandleCreate)
		v1.GET("/posts", postHandler.HandleList)
		v1.POST("/posts/:id/status", postHandler.HandleUpdateStatus)
		v1.POST("/posts/:id/schedule", scheduleHandler.HandleSchedule)
		v1.POST("/posts/:id/engagement", engagementHandler.HandleRecord)
		v1.GET("/schedule/next", scheduleHandler.HandleNextSlot)
	}

	// Lead storage is optional; campaign routes are only mounted when
	// the database is configured.
	var leadPinger health.Pinger
	if cfg.Postgres.Enabled() {
		leadRepo, err := leadstore.Open(cfg.Postgres)
		if err != nil {
			slog.Error("failed to open lead store", slog.String("error", err.Error()))
			return 1
		}
		if p, ok := leadRepo.(health.Pinger); ok {
			leadPinger = p
		}

		policy := campaign.NewPolicy(leadRepo)
		leadHandler := handler.NewLeadHandler(policy)

		v1.POST("/leads", leadHandler.HandleImport)
		v1.GET("/campaign/eligible", leadHandler.HandleEligible)
		v1.POST("/leads/:id/contacted", leadHandler.HandleMarkContacted)

		slog.Info("lead store connected",
			slog.String("host", cfg.Postgres.Host),
			slog.String("database", cfg.Postgres.Database),
		)
	} else {
		slog.Warn("POSTGRES_HOST not set, campaign routes disabled")
	}

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, leadPinger, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("min_scored_posts", cfg.Scheduler.MinScoredPosts),
			slog.Int("window_start_hour", cfg.Scheduler.WindowStartHour),
			slog.Int("window_end_hour", cfg.Scheduler.WindowEndHour),
			slog.Int("search_horizon_days", cfg.Scheduler.SearchHorizonDays),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
