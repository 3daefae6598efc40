package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anonto42/neoping/backend/internal/middleware"
	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/repositories"
	"github.com/anonto42/neoping/backend/internal/services"
	"github.com/anonto42/neoping/backend/internal/testutil"
	"github.com/anonto42/neoping/backend/validators"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// tokenResolver maps fixed bearer tokens to actors.
type tokenResolver map[string]*models.Actor

func (r tokenResolver) Resolve(_ context.Context, token string) (*models.Actor, error) {
	if actor, ok := r[token]; ok {
		return actor, nil
	}
	return nil, middleware.ErrInvalidToken
}

type testServer struct {
	e     *echo.Echo
	db    *gorm.DB
	alice *models.User
	bob   *models.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	if err := repositories.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")

	store := repositories.NewStore(db)
	feed := services.NewFeed(store, 10, 50)
	interactions := services.NewInteractions(store, services.NewCounters(store), nil)
	content := services.NewContent(store)

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	api := e.Group("/api", middleware.OptionalAuth(tokenResolver{
		"alice-token": alice.Actor(),
		"bob-token":   bob.Actor(),
	}))
	NewContentHandler(models.KindPost, feed, interactions, content).RegisterRoutes(api.Group("/posts"))
	NewContentHandler(models.KindNews, feed, interactions, content).RegisterRoutes(api.Group("/news"))
	NewBookmarkHandler(feed).RegisterRoutes(api)
	NewProfileHandler(services.NewProfiles(store.Users)).RegisterProfileRoutes(api)
	NewNotificationHandler(services.NewNotifications(nil)).RegisterNotificationRoutes(api)

	return &testServer{e: e, db: db, alice: alice, bob: bob}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token, contentType, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func (s *testServer) get(t *testing.T, path, token string) (int, envelope) {
	return s.do(t, http.MethodGet, path, token, "", "")
}

func (s *testServer) post(t *testing.T, path, token, body string) (int, envelope) {
	ct := ""
	if body != "" {
		ct = echo.MIMEApplicationJSON
	}
	return s.do(t, http.MethodPost, path, token, ct, body)
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}
