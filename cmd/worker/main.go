package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/assetgrid/assetgrid/internal/app"
	"github.com/assetgrid/assetgrid/internal/licenses"
	"github.com/assetgrid/assetgrid/internal/monitoring"
	"github.com/assetgrid/assetgrid/internal/platform/db"
	"github.com/assetgrid/assetgrid/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

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

	licensesService := licenses.NewService(licenses.NewRepository(pool), logger)
	monitoringService := monitoring.NewService(monitoring.NewRepository(pool), cfg.TrafficThresholdMbps, logger)

	scans := &jobs.Scans{
		Licenses: licensesService,
		Devices:  monitoringService,
		Logger:   logger,
	}

	expiryTask, err := jobs.NewLicenseExpiryScanTask(jobs.LicenseExpiryPayload{Days: cfg.LicenseExpiryWindow})
	if err != nil {
		logger.Error("build expiry task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  scans.Handlers(),
		Cron: []jobs.CronRegistration{
			{Spec: "0 8 * * *", Task: expiryTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "*/15 * * * *", Task: jobs.NewDeviceDowntimeScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
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
