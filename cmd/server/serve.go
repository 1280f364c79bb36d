package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/services"
)

// bootstrap loads and checks the configuration, then opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func migrate() error {
	_, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("migration completed")
	return nil
}

func serve() error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}

	// Auth, before the log sink and cleanup goroutines start
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		_ = database.Close(db)
		return err
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return fmt.Errorf("migration failed: %w", err)
	}

	// ERROR+ records also go to system_logs
	pgLogHandler := logging.AttachDatabase(db, cfg.LogLevel)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	// Services
	authService := services.NewAuthService(db, cfg, hasher, tokens)
	categoryService := services.NewCategoryService(db)
	subcategoryService := services.NewSubcategoryService(db)
	productService := services.NewProductService(db)

	m := metrics.New()

	// Sentry error tracking
	var first []fiber.Handler
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			first = append(first, sentryfiber.New(sentryfiber.Options{
				Repanic:         true,
				WaitForDelivery: false,
			}))
		}
	}

	app := routes.NewApp(cfg, m, first...)
	routes.Setup(app, cfg, auth.NewResolver(tokens, authService), m, routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService, m, cfg.CookieSecure),
		Health:      handlers.NewHealthHandler(db),
		Category:    handlers.NewCategoryHandler(categoryService),
		Subcategory: handlers.NewSubcategoryHandler(subcategoryService),
		Product:     handlers.NewProductHandler(productService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "prefix", cfg.APIPrefix, "env", cfg.AppEnv)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-quit:
		slog.Info("shutting down server...")
	case err = <-listenErr:
		slog.Error("server failed to start", "error", err)
	}

	if shutdownErr := app.ShutdownWithTimeout(10 * time.Second); shutdownErr != nil {
		slog.Error("server shutdown error", "error", shutdownErr)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if closeErr := database.Close(db); closeErr != nil {
		slog.Error("database close error", "error", closeErr)
	}

	slog.Info("server stopped")
	return err
}
