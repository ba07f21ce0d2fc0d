package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/voicenative/backend/internal/config"
	"github.com/voicenative/backend/internal/database"
	"github.com/voicenative/backend/internal/handlers"
	"github.com/voicenative/backend/internal/logging"
	"github.com/voicenative/backend/internal/middleware"
	"github.com/voicenative/backend/internal/ratelimit"
	"github.com/voicenative/backend/internal/routes"
	"github.com/voicenative/backend/internal/services"
	"github.com/voicenative/backend/internal/storage"
	"github.com/voicenative/backend/internal/taxonomy"
	"github.com/voicenative/backend/internal/validation"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Category registry
	registry, err := taxonomy.LoadFromFile(cfg.CategoriesPath)
	if err != nil {
		slog.Error("failed to load category registry", "path", cfg.CategoriesPath, "error", err)
		os.Exit(1)
	}
	slog.Info("category registry loaded", "categories", len(registry.All()))

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := taxonomy.Seed(database.DB, registry); err != nil {
		slog.Error("category seed failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Shared plumbing
	validate := validation.New()
	urlValidator := storage.NewURLValidator(cfg.StoragePublicHost, cfg.StorageBucket)
	limitStore := ratelimit.NewDBStore(database.DB)
	strictLimiter := ratelimit.NewLimiter(limitStore, ratelimit.FailClosed)
	toggleLimiter := ratelimit.NewLimiter(limitStore, ratelimit.FailOpen)

	uploader, err := storage.NewMinIOClient(cfg)
	if err != nil {
		slog.Error("object storage init failed", "endpoint", cfg.StorageEndpoint, "error", err)
		os.Exit(1)
	}

	// Services
	authService := services.NewAuthService(database.DB, cfg, validate)
	appService := services.NewAppService(database.DB, cfg, validate, urlValidator, strictLimiter, toggleLimiter)
	reportService := services.NewReportService(database.DB, validate, limitStore)
	adminService := services.NewAdminService(database.DB)
	unlockService := services.NewUnlockService(database.DB, cfg)
	analyticsService := services.NewAnalyticsService(database.DB, unlockService)
	contactService := services.NewContactService(database.DB)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	appHandler := handlers.NewAppHandler(appService, cfg)
	reportHandler := handlers.NewReportHandler(reportService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, unlockService)
	adminHandler := handlers.NewAdminHandler(adminService, contactService)
	webhookHandler := handlers.NewWebhookHandler(unlockService, cfg)
	contactHandler := handlers.NewContactHandler(contactService)
	uploadHandler := handlers.NewUploadHandler(uploader)
	healthHandler := handlers.NewHealthHandler(registry)
	sitemapHandler := handlers.NewSitemapHandler(database.DB, cfg)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB,
		authHandler, appHandler, reportHandler, analyticsHandler, adminHandler,
		webhookHandler, contactHandler, uploadHandler, healthHandler, sitemapHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
