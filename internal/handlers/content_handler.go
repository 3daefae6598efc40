package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/anonto42/neoping/backend/internal/middleware"
	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// maxRawCommentBytes bounds the body read by the plain-text comment route.
const maxRawCommentBytes = 16 << 10

// ContentHandler serves listing, authoring and interactions for one content
// kind. Routes are registered according to what the kind supports.
type ContentHandler struct {
	kind         models.ContentKind
	feed         *services.Feed
	interactions *services.Interactions
	content      *services.Content
}

// NewContentHandler creates a ContentHandler for kind
func NewContentHandler(kind models.ContentKind, feed *services.Feed, interactions *services.Interactions, content *services.Content) *ContentHandler {
	return &ContentHandler{
		kind:         kind,
		feed:         feed,
		interactions: interactions,
		content:      content,
	}
}

// RegisterRoutes registers the kind's routes on g
func (h *ContentHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/popular", h.ListPopular)
	g.GET("/latest", h.ListLatest)
	g.GET("/:id", h.Get)
	g.GET("/:id/comments", h.ListComments)

	g.POST("", h.Create, middleware.RequireActor)
	g.POST("/:id/comments", h.AddComment, middleware.RequireActor)
	g.POST("/:id/bookmark", h.Bookmark, middleware.RequireActor)

	if h.kind.LikesFactBacked() {
		g.GET("/category/:category", h.ListByCategory)
		g.GET("/by-user/:username", h.ListByAuthor)
		g.GET("/user/me", h.ListMine, middleware.RequireActor)
		g.POST("/:id/like", h.ToggleLike, middleware.RequireActor)
	}
	if h.kind.Votable() {
		g.POST("/:id/upvote", h.Upvote, middleware.RequireActor)
		g.POST("/:id/downvote", h.Downvote, middleware.RequireActor)
		g.POST("/:id/comment", h.AddRawComment, middleware.RequireActor)
	}
}

func (h *ContentHandler) feedQuery(c echo.Context) services.FeedQuery {
	q := services.FeedQuery{
		Kind:     h.kind,
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "page", 0),
		Limit:    queryInt(c, "limit", 0),
		Order:    services.ParseFeedOrder(c.QueryParam("order")),
	}
	if q.Category == "" {
		q.Category = models.CategoryAll
	}
	if c.QueryParam("offset") != "" {
		offset := queryInt(c, "offset", 0)
		q.Offset = &offset
	}
	return q
}

func (h *ContentHandler) listPage(c echo.Context, q services.FeedQuery) error {
	page, err := h.feed.GetFeed(c.Request().Context(), middleware.CurrentActor(c), q)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, page)
}

// List returns a page filtered by category or search
func (h *ContentHandler) List(c echo.Context) error {
	return h.listPage(c, h.feedQuery(c))
}

// ListPopular returns a page ordered by popularity
func (h *ContentHandler) ListPopular(c echo.Context) error {
	q := h.feedQuery(c)
	q.Order = services.OrderPopular
	return h.listPage(c, q)
}

// ListLatest returns a page ordered newest first
func (h *ContentHandler) ListLatest(c echo.Context) error {
	q := h.feedQuery(c)
	q.Order = services.OrderLatest
	return h.listPage(c, q)
}

// ListByCategory returns a page of one category
func (h *ContentHandler) ListByCategory(c echo.Context) error {
	q := h.feedQuery(c)
	q.Category = c.Param("category")
	return h.listPage(c, q)
}

// ListByAuthor returns every item written by the user in the path
func (h *ContentHandler) ListByAuthor(c echo.Context) error {
	views, err := h.feed.ListByAuthor(c.Request().Context(), middleware.CurrentActor(c), h.kind, c.Param("username"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, views)
}

// ListMine returns every item written by the authenticated user
func (h *ContentHandler) ListMine(c echo.Context) error {
	actor := middleware.CurrentActor(c)
	views, err := h.feed.ListByAuthor(c.Request().Context(), actor, h.kind, actor.Username)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, views)
}

// Get returns a single item
func (h *ContentHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	view, err := h.feed.GetItem(c.Request().Context(), middleware.CurrentActor(c), h.kind, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, view)
}

// Create publishes a new item authored by the authenticated user
func (h *ContentHandler) Create(c echo.Context) error {
	var req models.CreateContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.content.Create(c.Request().Context(), middleware.CurrentActor(c), h.kind, req)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, item)
}

// ToggleLike likes the item, or removes the like if it already exists
func (h *ContentHandler) ToggleLike(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	result, err := h.interactions.ToggleLike(c.Request().Context(), middleware.CurrentActor(c), h.kind, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, result)
}

// Upvote raises the item's score by one
func (h *ContentHandler) Upvote(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	result, err := h.interactions.Upvote(c.Request().Context(), middleware.CurrentActor(c), h.kind, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, result)
}

// Downvote lowers the item's score by one
func (h *ContentHandler) Downvote(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	result, err := h.interactions.Downvote(c.Request().Context(), middleware.CurrentActor(c), h.kind, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, result)
}

// AddComment adds a comment from a JSON body
func (h *ContentHandler) AddComment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.addComment(c, id, req.Content)
}

// AddRawComment adds a comment whose text is the whole request body, stored
// as sent. Bodies over maxRawCommentBytes are rejected, not cut.
func (h *ContentHandler) AddRawComment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRawCommentBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if len(body) > maxRawCommentBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Comment is too long")
	}
	text := string(body)
	if strings.TrimSpace(text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment text is required")
	}
	return h.addComment(c, id, text)
}

func (h *ContentHandler) addComment(c echo.Context, id uint, text string) error {
	comment, err := h.interactions.AddComment(c.Request().Context(), middleware.CurrentActor(c), h.kind, id, text)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, comment)
}

// ListComments returns the item's comments, oldest first
func (h *ContentHandler) ListComments(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	comments, err := h.interactions.ListComments(c.Request().Context(), h.kind, id)
	if err != nil {
		return err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return success(c, http.StatusOK, comments)
}

// Bookmark saves the item for the authenticated user. Repeating it is a no-op.
func (h *ContentHandler) Bookmark(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	created, err := h.interactions.Bookmark(c.Request().Context(), middleware.CurrentActor(c), h.kind, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"bookmarked": true, "created": created})
}
