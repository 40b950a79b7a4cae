// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopops/opsdash/backend-go/internal/api"
	"github.com/shopops/opsdash/backend-go/internal/cache"
	"github.com/shopops/opsdash/backend-go/internal/config"
	"github.com/shopops/opsdash/backend-go/internal/repository/postgres"
	"github.com/shopops/opsdash/backend-go/internal/service"
	"github.com/shopops/opsdash/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	settings, err := config.LoadSettings(cfg.App.SettingsFile)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("file", cfg.App.SettingsFile).Msg("Failed to load replenishment settings")
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	salesRepo := postgres.NewSalesRepository(db)
	stockRepo := postgres.NewStockRepository(db)

	alertCache, err := cache.NewAlertCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Alert cache unavailable, continuing without caching")
		alertCache = cache.NewNoopAlertCache()
	}

	services := &api.Services{
		Replenishment: service.NewReplenishmentService(salesRepo, stockRepo, settings),
		Deliveries:    service.NewDeliveryService(salesRepo, stockRepo, settings),
		Alerts:        service.NewAlertService(salesRepo, stockRepo, alertCache, settings),
		Reminders:     service.NewReminderService(settings),
		Stock:         stockRepo,
		AlertCache:    alertCache,
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
