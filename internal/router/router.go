package router

import (
	"fmt"

	"github.com/anonto42/neoping/backend/internal/handlers"
	"github.com/anonto42/neoping/backend/internal/middleware"
	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/repositories"
	"github.com/anonto42/neoping/backend/internal/services"
	"github.com/anonto42/neoping/backend/pkg/logging"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Dependencies are the collaborators SetupRoutes wires into the handlers.
type Dependencies struct {
	Postgres *gorm.DB
	// Notifications is nil when no document store is configured.
	Notifications repositories.NotificationRepository
	// Resolver turns bearer tokens into actors.
	Resolver         middleware.ActorResolver
	FeedDefaultLimit int
	FeedMaxLimit     int
}

// SetupRoutes migrates the relational schema, configures all application
// routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	if err := repositories.Migrate(deps.Postgres); err != nil {
		return fmt.Errorf("auto migrate models: %w", err)
	}
	logging.Info().Msg("PostgreSQL auto-migrations completed")

	healthHandler := handlers.NewHealthHandler(deps.Postgres)
	e.GET("/health", healthHandler.HealthCheck)

	// --- Services ---
	store := repositories.NewStore(deps.Postgres)
	notifications := services.NewNotifications(deps.Notifications)
	counters := services.NewCounters(store)
	feed := services.NewFeed(store, deps.FeedDefaultLimit, deps.FeedMaxLimit)
	interactions := services.NewInteractions(store, counters, notifications)
	content := services.NewContent(store)
	profiles := services.NewProfiles(store.Users)

	// Every /api route sees the actor when a token is sent; action routes
	// additionally require one.
	api := e.Group("/api", middleware.OptionalAuth(deps.Resolver))

	posts := handlers.NewContentHandler(models.KindPost, feed, interactions, content)
	posts.RegisterRoutes(api.Group("/posts"))

	news := handlers.NewContentHandler(models.KindNews, feed, interactions, content)
	news.RegisterRoutes(api.Group("/news"))

	handlers.NewBookmarkHandler(feed).RegisterRoutes(api)
	handlers.NewNotificationHandler(notifications).RegisterNotificationRoutes(api)
	handlers.NewProfileHandler(profiles).RegisterProfileRoutes(api)

	logging.Info().Bool("notifications", deps.Notifications != nil).Msg("all routes configured")
	return nil
}
