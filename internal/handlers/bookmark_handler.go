package handlers

import (
	"net/http"

	"github.com/anonto42/neoping/backend/internal/middleware"
	"github.com/anonto42/neoping/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// BookmarkHandler lists the authenticated user's bookmarks
type BookmarkHandler struct {
	feed *services.Feed
}

func NewBookmarkHandler(feed *services.Feed) *BookmarkHandler {
	return &BookmarkHandler{feed: feed}
}

func (h *BookmarkHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/bookmarks", h.List, middleware.RequireActor)
}

// List returns bookmarked posts and news, most recently saved first
func (h *BookmarkHandler) List(c echo.Context) error {
	views, err := h.feed.ListBookmarks(c.Request().Context(), middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, views)
}
