package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/armazem-erp/armazem-erp/internal/app"
	"github.com/armazem-erp/armazem-erp/internal/engine"
	"github.com/armazem-erp/armazem-erp/internal/ingest"
	"github.com/armazem-erp/armazem-erp/internal/invoices"
	"github.com/armazem-erp/armazem-erp/internal/platform/cache"
	"github.com/armazem-erp/armazem-erp/internal/platform/db"
	"github.com/armazem-erp/armazem-erp/internal/shared"
	"github.com/armazem-erp/armazem-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, running without cache and locks", slog.Any("error", err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	var snapshotCache *ingest.SnapshotCache
	var locker *shared.RecordLocker
	if redisClient != nil {
		snapshotCache = ingest.NewSnapshotCache(redisClient, cfg.SnapshotTTL)
		locker = shared.NewRecordLocker(redisClient, cfg.ConciliationLockTTL)
	}

	sourceClient := ingest.NewClient(
		&http.Client{Timeout: cfg.SourceTimeout},
		ingest.Sources{
			ProductsURL:       cfg.ProductsURL,
			ExternalOrdersURL: cfg.ExternalOrdersURL,
			FactoryOrdersURL:  cfg.FactoryOrdersURL,
			InvoicesURL:       cfg.InvoicesURL,
		},
		snapshotCache,
		logger,
	)

	repo := invoices.NewRepository(pool)
	auditLogger := shared.NewAuditLogger(pool)
	conciliation := invoices.NewService(repo, auditLogger, logger)

	eng := engine.New(sourceClient, conciliation, logger)
	if err := eng.Refresh(ctx, false); err != nil {
		logger.Warn("initial snapshot unavailable", slog.Any("error", err))
	}

	var jobsHandler *jobs.Handler
	if redisClient != nil {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		jobsHandler = jobs.NewHandler(inspector, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		EngineHandler: engine.NewHandler(logger, eng, locker),
		JobsHandler:   jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
