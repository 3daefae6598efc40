package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/neoping/backend/internal/handlers"
	"github.com/anonto42/neoping/backend/internal/middleware"
	"github.com/anonto42/neoping/backend/internal/repositories"
	"github.com/anonto42/neoping/backend/internal/router"
	"github.com/anonto42/neoping/backend/pkg/config"
	"github.com/anonto42/neoping/backend/pkg/firebase"
	"github.com/anonto42/neoping/backend/pkg/logging"
	"github.com/anonto42/neoping/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize databases")
	}
	defer db.CloseDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Token resolvers: local JWTs first, then Firebase ID tokens when configured
	resolvers := middleware.Resolvers{middleware.NewJWTResolver(cfg.JWTSecret)}
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize Firebase")
	}
	if firebaseApp != nil {
		resolvers = append(resolvers, middleware.NewFirebaseResolver(firebaseApp.AuthClient, repositories.NewPostgresUserRepository(db.Postgres)))
	}

	deps := router.Dependencies{
		Postgres:         db.Postgres,
		Resolver:         resolvers,
		FeedDefaultLimit: cfg.FeedDefaultLimit,
		FeedMaxLimit:     cfg.FeedMaxLimit,
	}
	if db.Mongo != nil {
		notificationRepo := repositories.NewMongoNotificationRepository(db.Mongo.Database(cfg.MongoDatabase))
		if err := notificationRepo.EnsureIndexes(ctx); err != nil {
			logging.Warn().Err(err).Msg("failed to create notification indexes")
		}
		deps.Notifications = notificationRepo
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.JSONSerializer = router.JSONSerializer{}
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	// Setup global middleware
	config.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, deps); err != nil {
		logging.Fatal().Err(err).Msg("failed to set up routes")
	}

	var metricsServer *echo.Echo
	if cfg.MetricsPort != "" {
		metricsServer = config.MetricsServer()
		go func() {
			if err := metricsServer.Start(":" + cfg.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	// Start server
	go func() {
		logging.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("metrics server shutdown")
		}
	}
}
