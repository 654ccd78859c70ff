package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/atlas-console/atlas-console/internal/app"
	"github.com/atlas-console/atlas-console/internal/invites"
	jobmetrics "github.com/atlas-console/atlas-console/internal/jobs"
	"github.com/atlas-console/atlas-console/internal/menu"
	"github.com/atlas-console/atlas-console/internal/platform/db"
	"github.com/atlas-console/atlas-console/internal/roles"
	"github.com/atlas-console/atlas-console/jobs"
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

	metrics := jobmetrics.NewMetrics(nil)

	invitesService := invites.NewService(invites.NewRepository(pool))
	menuService := menu.NewService(menu.NewRepository(pool), roles.NewService(roles.NewRepository(pool)), nil)

	sweeper := jobs.NewInviteSweeper(invitesService, logger, metrics)
	scanner := jobs.NewMenuIntegrityScanner(menuService, logger, metrics)

	sweepTask, err := jobs.NewInviteSweepTask(time.Now().UTC())
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}
	integrityTask, err := jobs.NewMenuIntegrityTask(time.Now().UTC())
	if err != nil {
		logger.Error("build integrity task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskInviteSweep, Handler: sweeper.Handle},
			{Type: jobs.TaskMenuIntegrity, Handler: scanner.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 3 * * *", Task: integrityTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
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
