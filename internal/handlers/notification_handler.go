package handlers

import (
	"net/http"

	"github.com/anonto42/neoping/backend/internal/middleware"
	"github.com/anonto42/neoping/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.Notifications
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.Notifications) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications, middleware.RequireActor)
}

// GetNotifications returns paginated notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	page, err := h.notifications.List(
		c.Request().Context(),
		middleware.CurrentActor(c),
		queryInt(c, "page", 0),
		queryInt(c, "limit", 20),
	)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, page)
}
