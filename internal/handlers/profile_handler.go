package handlers

import (
	"net/http"

	"github.com/anonto42/neoping/backend/internal/middleware"
	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ProfileHandler handles HTTP requests related to user profiles
type ProfileHandler struct {
	profiles *services.Profiles
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles *services.Profiles) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile, middleware.RequireActor)
	g.PUT("/profile", h.UpdateProfile, middleware.RequireActor)
	g.GET("/profile/:username", h.GetUserProfile)
}

// GetProfile retrieves the authenticated user's profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profiles.Get(c.Request().Context(), middleware.CurrentActor(c).Username)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, profile)
}

// GetUserProfile retrieves another user's profile by username
func (h *ProfileHandler) GetUserProfile(c echo.Context) error {
	profile, err := h.profiles.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, profile)
}

// UpdateProfile updates the authenticated user's profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	profile, err := h.profiles.Update(c.Request().Context(), middleware.CurrentActor(c), req)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, profile)
}
