package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/trigardening/trigardening/internal/app"
	"github.com/trigardening/trigardening/internal/catalog/products"
	"github.com/trigardening/trigardening/internal/platform/db"
	"github.com/trigardening/trigardening/jobs"
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

	mailer := jobs.SMTPMailer{Addr: cfg.SMTPAddr(), From: cfg.SMTPFrom}
	productService := products.NewService(products.NewRepository(pool))

	confirmJob := jobs.NewOrderConfirmJob(mailer, cfg.NotifyEmail, logger)
	lowStockJob := jobs.NewLowStockScanJob(productService, mailer, cfg.NotifyEmail, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeOrderConfirm, Handler: confirmJob.Handle},
			{Type: jobs.TaskTypeLowStockScan, Handler: lowStockJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 7 * * *", Task: jobs.NewLowStockScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
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
