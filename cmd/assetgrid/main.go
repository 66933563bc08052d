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
	"github.com/joho/godotenv"

	"github.com/assetgrid/assetgrid/internal/app"
	"github.com/assetgrid/assetgrid/internal/assets"
	"github.com/assetgrid/assetgrid/internal/auth"
	"github.com/assetgrid/assetgrid/internal/dashboard"
	"github.com/assetgrid/assetgrid/internal/employees"
	"github.com/assetgrid/assetgrid/internal/licenses"
	"github.com/assetgrid/assetgrid/internal/monitoring"
	"github.com/assetgrid/assetgrid/internal/platform/cache"
	"github.com/assetgrid/assetgrid/internal/platform/db"
	"github.com/assetgrid/assetgrid/internal/rbac"
	"github.com/assetgrid/assetgrid/internal/roles"
	"github.com/assetgrid/assetgrid/internal/shared"
	"github.com/assetgrid/assetgrid/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis connect", slog.Any("error", err))
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)

	grantCache := rbac.NewCache(redisClient, 5*time.Minute)
	rbacStore := rbac.NewStore(pool)
	rbacService := rbac.NewService(rbacStore, grantCache, logger)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}
	modulesHandler := rbac.NewHandler(logger, rbacService)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authMiddleware := auth.Middleware{Tokens: tokens, Logger: logger}
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, rbacService, tokens, logger)
	authHandler := auth.NewHandler(logger, authService, authMiddleware)

	rolesRepo := roles.NewRepository(pool)
	rolesService := roles.NewService(rolesRepo, rbacService, auditLogger, logger)
	rolesHandler := roles.NewHandler(logger, rolesService, authMiddleware, rbacMiddleware)

	employeesRepo := employees.NewRepository(pool)
	employeesService := employees.NewService(employeesRepo, auditLogger, logger)
	employeesHandler := employees.NewHandler(logger, employeesService)

	assetsRepo := assets.NewRepository(pool)
	assetsService := assets.NewService(assetsRepo, auditLogger, logger)
	assetsHandler := assets.NewHandler(logger, assetsService, authMiddleware, rbacMiddleware)

	licensesRepo := licenses.NewRepository(pool)
	licensesService := licenses.NewService(licensesRepo, logger)
	licensesHandler := licenses.NewHandler(logger, licensesService, authMiddleware, rbacMiddleware)

	monitoringRepo := monitoring.NewRepository(pool)
	monitoringService := monitoring.NewService(monitoringRepo, cfg.TrafficThresholdMbps, logger)
	monitoringHandler := monitoring.NewHandler(logger, monitoringService, authMiddleware, rbacMiddleware)

	dashboardService := dashboard.NewService(assetsService, licensesService, monitoringService, logger)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, authMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthHandler:       authHandler,
		RolesHandler:      rolesHandler,
		ModulesHandler:    modulesHandler,
		EmployeesHandler:  employeesHandler,
		AssetsHandler:     assetsHandler,
		LicensesHandler:   licensesHandler,
		MonitoringHandler: monitoringHandler,
		DashboardHandler:  dashboardHandler,
		JobsHandler:       jobsHandler,
		AuthMiddleware:    authMiddleware,
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
