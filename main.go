package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coldcommand/config"
	controller "coldcommand/controllers"
	"coldcommand/middleware"
	"coldcommand/repository"
	"coldcommand/routes"
	"coldcommand/smartlead"
	"coldcommand/utils"
	"coldcommand/worker"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.AppConfig

	utils.InitLogger(cfg.Environment, cfg.LogLevel)
	if err := utils.InitSentry(cfg.SentryDSN, cfg.Environment); err != nil {
		logrus.WithError(err).Warn("Sentry disabled")
	}
	defer sentry.Flush(2 * time.Second)

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	platform := smartlead.NewClient(cfg.Smartlead.BaseURL, cfg.Smartlead.APIKey, cfg.Smartlead.Timeout, utils.Component("smartlead"))
	if !platform.Configured() {
		logrus.Warn("SMARTLEAD_API_KEY not set, launch and pause will be unavailable")
	}

	var limiterStorage fiber.Storage
	if cfg.Redis.Enabled {
		storage := middleware.NewRedisStorage(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		err := storage.Ping(pingCtx)
		cancelPing()
		if err != nil {
			logrus.WithError(err).Warn("Redis unreachable, falling back to in-memory rate limiting")
			_ = storage.Close()
		} else {
			limiterStorage = storage
			defer storage.Close()
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "coldcommand",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	app.Use(recover.New())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.CORSAllowedOrigins
	app.Use(middleware.CORS(corsConfig))

	hub := controller.NewSequenceHub(utils.Component("sequence_ws"))
	routes.SetupRoutes(app, config.DB, routes.Options{
		JWTSecret:          cfg.JWTSecret,
		SequenceWriteLimit: cfg.RateLimitSequenceWrites,
		LimiterStorage:     limiterStorage,
		Smartlead:          platform,
		Hub:                hub,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if platform.Configured() {
		statusWorker := worker.NewCampaignStatusWorker(
			repository.NewCampaignRepository(config.DB),
			platform,
			cfg.StatusSyncInterval,
			utils.Component("campaign_status_worker"),
		)
		go statusWorker.Start(ctx)
	}

	go func() {
		logrus.Infof("🚀 Server starting on port %s", cfg.ServerPort)
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
	if err := config.CloseDB(); err != nil {
		logrus.WithError(err).Error("Failed to close database")
	}
	logrus.Info("Server stopped")
}
