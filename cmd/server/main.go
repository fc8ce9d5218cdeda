package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hermeskali/bfd-commerce-sync/internal/config"
	"github.com/hermeskali/bfd-commerce-sync/internal/database"
	"github.com/hermeskali/bfd-commerce-sync/internal/handlers"
	"github.com/hermeskali/bfd-commerce-sync/internal/logging"
	"github.com/hermeskali/bfd-commerce-sync/internal/middleware"
	"github.com/hermeskali/bfd-commerce-sync/internal/routes"
	"github.com/hermeskali/bfd-commerce-sync/internal/sanity"
	"github.com/hermeskali/bfd-commerce-sync/internal/services"
	"github.com/hermeskali/bfd-commerce-sync/internal/stripeclient"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	// Optional .env for local development
	_ = godotenv.Load()

	cfg := config.Load()

	required := map[string]string{
		"DB_PASSWORD":           cfg.DBPassword,
		"STRIPE_SECRET_KEY":     cfg.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET": cfg.StripeWebhookSecret,
		"SANITY_WEBHOOK_SECRET": cfg.SanityWebhookSecret,
		"SANITY_PROJECT_ID":     cfg.SanityProjectID,
	}
	for name, value := range required {
		if value == "" {
			slog.Error("required environment variable is missing", "name", name)
			os.Exit(1)
		}
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
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

	// External clients, constructed once and passed in explicitly
	sanityClient := sanity.NewClient(sanity.Config{
		ProjectID:  cfg.SanityProjectID,
		Dataset:    cfg.SanityDataset,
		Token:      cfg.SanityAPIToken,
		APIVersion: cfg.SanityAPIVersion,
		UseCDN:     cfg.SanityUseCDN,
		Timeout:    cfg.ExternalTimeout,
	})
	stripeClient := stripeclient.New(cfg.StripeSecretKey)
	mailer := services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	// Services
	catalogService := services.NewCatalogService(sanityClient, stripeClient)
	resolver := services.NewResolver(sanityClient)
	fulfillmentService := services.NewFulfillmentService(
		stripeClient,
		resolver,
		mailer,
		[]services.Channel{
			{Name: "sales", From: cfg.SalesFrom, To: cfg.SalesTo},
			{Name: "fulfillment", From: cfg.FulfillmentFrom, To: cfg.FulfillmentTo},
		},
		cfg.ReplyTo,
		cfg.OrderTimezone,
	)
	signupService := services.NewSignupService(database.DB)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	catalogHandler := handlers.NewCatalogHandler(catalogService, cfg.SanityWebhookSecret)
	fulfillmentHandler := handlers.NewFulfillmentHandler(fulfillmentService, cfg.StripeWebhookSecret)
	signupHandler := handlers.NewSignupHandler(signupService)

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
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	// Routes
	routes.Setup(app, healthHandler, catalogHandler, fulfillmentHandler, signupHandler)

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

	// Close database connections
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
