package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/vesna-erp/vesna-erp/internal/app"
	"github.com/vesna-erp/vesna-erp/internal/assets"
	"github.com/vesna-erp/vesna-erp/internal/fx"
	"github.com/vesna-erp/vesna-erp/internal/ledger"
	"github.com/vesna-erp/vesna-erp/internal/observability"
	"github.com/vesna-erp/vesna-erp/internal/platform/db"
	"github.com/vesna-erp/vesna-erp/internal/shared"
	"github.com/vesna-erp/vesna-erp/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	auditLogger := shared.NewAuditLogger(pool)
	locker := shared.NewLocker(redisClient, cfg.LockTTL)

	fxService := fx.NewService(fx.NewRepository(pool))
	ledgerService := ledger.NewService(ledger.NewRepository(pool), auditLogger)
	assetService := assets.NewService(assets.NewRepository(pool), ledgerService, fxService, auditLogger, locker)

	metrics := observability.NewMetrics()
	postDueJob := jobs.NewPostDueJob(assetService, logger, metrics, cfg.PostDueBatchSize)

	postDueTask, err := jobs.NewAssetsPostDueTask(jobs.PostDuePayload{})
	if err != nil {
		logger.Error("build post-due task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAssetsPostDue, Handler: postDueJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 1 * * *", Task: postDueTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
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
