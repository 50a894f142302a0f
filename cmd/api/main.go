package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/mti-it/onboarding-service/internal/api/http"
	"github.com/mti-it/onboarding-service/internal/api/http/handlers"
	"github.com/mti-it/onboarding-service/internal/auth"
	"github.com/mti-it/onboarding-service/internal/config"
	"github.com/mti-it/onboarding-service/internal/observability"
	"github.com/mti-it/onboarding-service/internal/persistence"
	"github.com/mti-it/onboarding-service/internal/repository"
	"github.com/mti-it/onboarding-service/internal/service"
	"github.com/mti-it/onboarding-service/internal/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	settingsStore, err := settings.NewStore(cfg.Settings.FilePath)
	if err != nil {
		logger.Fatal("failed to open settings store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	hireRepo := repository.NewHireRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)

	listCache := persistence.NewHireListCache(redis, cfg.Redis.CacheTTL)
	metrics := observability.NewMetrics()

	hireService := service.NewHireService(service.HireDependencies{
		HireRepo:    hireRepo,
		AuditRepo:   auditRepo,
		Settings:    settingsStore,
		Cache:       listCache,
		Logger:      logger,
		WorkerLimit: cfg.App.BulkWorkerLimit,
	})
	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		HireRepo:    hireRepo,
		AuditRepo:   auditRepo,
		Settings:    settingsStore,
		Logger:      logger,
		WorkerLimit: cfg.App.BulkWorkerLimit,
	})
	distributionService := service.NewDistributionService(service.DistributionDependencies{
		HireRepo:  hireRepo,
		AuditRepo: auditRepo,
		Settings:  settingsStore,
		Logger:    logger,
	})
	messagingService := service.NewMessagingService(service.MessagingDependencies{
		HireRepo:  hireRepo,
		AuditRepo: auditRepo,
		Settings:  settingsStore,
		Logger:    logger,
	})
	authService := service.NewAuthService(*cfg, accountRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Uploads.MaxSizeBytes) + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, cfg.App, logger, metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Hires:          handlers.NewHiresHandler(hireService, cfg.Uploads),
		Settings:       handlers.NewSettingsHandler(settingsStore),
		Directory:      handlers.NewDirectoryHandler(directoryService, logger),
		Messaging:      handlers.NewMessagingHandler(distributionService, messagingService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
