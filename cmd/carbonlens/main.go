package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"carbonlens/internal/api"
	"carbonlens/internal/api/handlers"
	"carbonlens/internal/repository"
	"carbonlens/internal/service"
	"carbonlens/pkg/config"
	"carbonlens/pkg/logger"
	"carbonlens/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting carbonlens service")

	ctx := context.Background()

	if err := postgres.RunMigrations(ctx, &cfg.Database); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	vendorRepo := repository.NewVendorRepository(db, appLogger)
	activityRepo := repository.NewActivityRepository(db, appLogger)
	recRepo := repository.NewRecommendationRepository(db, appLogger)
	snapshotRepo := repository.NewSnapshotRepository(db, appLogger)

	// Services
	params := service.DefaultParams()
	params.TopN = cfg.Engine.TopN
	params.Lambda = cfg.Engine.Lambda
	params.DuplicateThreshold = cfg.Engine.DuplicateThreshold

	recService := service.NewRecommendationService(
		vendorRepo, activityRepo, recRepo, snapshotRepo, params, appLogger,
	)
	vendorService := service.NewVendorService(vendorRepo, appLogger)

	// Handlers
	recHandler := handlers.NewRecommendationHandler(recService, appLogger)
	vendorHandler := handlers.NewVendorHandler(vendorService, appLogger)

	app := api.SetupRouter(recHandler, vendorHandler)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
