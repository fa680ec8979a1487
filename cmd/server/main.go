package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heladeria/flavor-catalog/config"
	"github.com/heladeria/flavor-catalog/internal/app/controller"
	"github.com/heladeria/flavor-catalog/internal/app/repository"
	"github.com/heladeria/flavor-catalog/internal/app/service"
	"github.com/heladeria/flavor-catalog/internal/db"
	"github.com/heladeria/flavor-catalog/internal/router"
	"github.com/heladeria/flavor-catalog/internal/session"
	"github.com/heladeria/flavor-catalog/internal/storage"
	"github.com/heladeria/flavor-catalog/internal/validation"
	"github.com/heladeria/flavor-catalog/pkg/logger"
	"github.com/heladeria/flavor-catalog/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	})

	logger.Info("Starting flavor catalog server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
		"db_driver":   cfg.Database.Driver,
	})

	if err := validation.Register(); err != nil {
		logger.Fatal("Failed to register validators", err)
	}

	// Initialize database
	conn, err := db.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(conn); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	ctx := context.Background()
	if cfg.Database.Seed {
		if err := db.Seed(ctx, conn); err != nil {
			logger.Warn("Failed to seed database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Initialize repositories
	flavorRepo := repository.NewFlavorRepository(conn)

	// Initialize services
	flavorService := service.NewFlavorService(conn, flavorRepo)
	if count, err := flavorService.CountFlavors(ctx); err == nil {
		metrics.SetCatalogSize(count)
	}

	// Image uploads are optional
	var imageStorage storage.ImageStorage
	if cfg.S3.Enabled() {
		imageStorage = storage.NewS3Storage(ctx, cfg.S3)
		logger.Info("S3 image uploads enabled", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
			"region": cfg.S3.Region,
		})
	}

	// Initialize controllers
	flashes := session.NewFlashStore(cfg.Session.Name, cfg.Session.Secret)
	flavorController := controller.NewFlavorController(flavorService)
	pageController := controller.NewPageController(flavorService, flashes)
	uploadController := controller.NewUploadController(imageStorage)

	// Setup router
	r := router.NewRouter(
		flavorController,
		pageController,
		uploadController,
		cfg,
	)
	engine := r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
