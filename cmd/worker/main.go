package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/armazem-erp/armazem-erp/internal/app"
	"github.com/armazem-erp/armazem-erp/internal/ingest"
	"github.com/armazem-erp/armazem-erp/internal/platform/cache"
	"github.com/armazem-erp/armazem-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sourceClient := ingest.NewClient(
		&http.Client{Timeout: cfg.SourceTimeout},
		ingest.Sources{
			ProductsURL:       cfg.ProductsURL,
			ExternalOrdersURL: cfg.ExternalOrdersURL,
			FactoryOrdersURL:  cfg.FactoryOrdersURL,
			InvoicesURL:       cfg.InvoicesURL,
		},
		ingest.NewSnapshotCache(redisClient, cfg.SnapshotTTL),
		logger,
	)

	refreshTask, err := jobs.NewSnapshotRefreshTask(jobs.SnapshotRefreshPayload{})
	if err != nil {
		logger.Error("build refresh task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSnapshotRefresh, Handler: jobs.SnapshotRefreshHandler(sourceClient, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.RefreshSchedule, Task: refreshTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
