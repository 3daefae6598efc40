package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/services"
	"github.com/anonto42/neoping/backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

func TestListPosts_PagingAndFlags(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 12; i++ {
		testutil.SeedItem(t, s.db, models.ContentItem{Kind: models.KindPost, Title: fmt.Sprintf("p%d", i), Category: "tech"})
	}

	code, env := s.get(t, "/api/posts?page=1&limit=5&category=TECH", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 success, got %d %+v", code, env)
	}
	var page services.FeedPage
	decode(t, env.Data, &page)
	if page.Total != 12 || page.Offset != 5 || len(page.Items) != 5 || !page.HasMore {
		t.Errorf("unexpected page %+v", page)
	}
	for _, item := range page.Items {
		if item.LikedByViewer || item.BookmarkedByViewer {
			t.Errorf("anonymous viewer got flags on %d", item.ID)
		}
	}

	code, env = s.get(t, "/api/posts?offset=10&limit=5", "")
	decode(t, env.Data, &page)
	if code != http.StatusOK || len(page.Items) != 2 || page.HasMore {
		t.Errorf("expected last 2 items without more, got %d %+v", code, page)
	}
}

func TestToggleLikeEndpoint(t *testing.T) {
	s := newTestServer(t)
	post := testutil.SeedItem(t, s.db, models.ContentItem{Kind: models.KindPost, Title: "p", Author: "bob"})
	path := fmt.Sprintf("/api/posts/%d/like", post.ID)

	code, env := s.post(t, path, "", "")
	if code != http.StatusUnauthorized || env.Success || env.Error == "" {
		t.Fatalf("anonymous like: expected 401 envelope, got %d %+v", code, env)
	}

	var result models.LikeResult
	code, env = s.post(t, path, "alice-token", "")
	decode(t, env.Data, &result)
	if code != http.StatusOK || !result.Liked || result.LikesCount != 1 {
		t.Fatalf("first like: got %d %+v", code, result)
	}

	code, env = s.get(t, fmt.Sprintf("/api/posts/%d", post.ID), "alice-token")
	var view services.ContentView
	decode(t, env.Data, &view)
	if code != http.StatusOK || !view.LikedByViewer || view.LikesCount != 1 {
		t.Errorf("expected liked item, got %d %+v", code, view)
	}

	_, env = s.post(t, path, "alice-token", "")
	decode(t, env.Data, &result)
	if result.Liked || result.LikesCount != 0 {
		t.Errorf("second toggle should unlike, got %+v", result)
	}
}

func TestInteractionErrors(t *testing.T) {
	s := newTestServer(t)
	news := testutil.SeedItem(t, s.db, models.ContentItem{Kind: models.KindNews, Title: "n"})

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
	}{
		{"unknown post", "/api/posts/999/like", "alice-token", http.StatusNotFound},
		{"news id on post route", fmt.Sprintf("/api/posts/%d/like", news.ID), "alice-token", http.StatusNotFound},
		{"malformed id", "/api/posts/abc/like", "alice-token", http.StatusBadRequest},
		{"posts cannot be upvoted", "/api/posts/1/upvote", "alice-token", http.StatusNotFound},
		{"news cannot be liked", fmt.Sprintf("/api/news/%d/like", news.ID), "alice-token", http.StatusNotFound},
		{"bad token", "/api/posts/1/like", "forged", http.StatusUnauthorized},
		{"unknown bookmark target", "/api/news/999/bookmark", "alice-token", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.post(t, tt.path, tt.token, "")
			if code != tt.wantCode {
				t.Fatalf("expected %d, got %d (%+v)", tt.wantCode, code, env)
			}
			if env.Success || env.Error == "" {
				t.Errorf("expected error envelope, got %+v", env)
			}
		})
	}
}

func TestNewsVotesAndComments(t *testing.T) {
	s := newTestServer(t)
	news := testutil.SeedItem(t, s.db, models.ContentItem{Kind: models.KindNews, Title: "n", Author: "bob"})
	base := fmt.Sprintf("/api/news/%d", news.ID)

	var vote models.VoteResult
	for i := 0; i < 2; i++ {
		_, env := s.post(t, base+"/upvote", "alice-token", "")
		decode(t, env.Data, &vote)
	}
	_, env := s.post(t, base+"/downvote", "bob-token", "")
	decode(t, env.Data, &vote)
	if vote.Upvotes != 1 {
		t.Errorf("expected score 1, got %d", vote.Upvotes)
	}

	code, env := s.do(t, http.MethodPost, base+"/comment", "alice-token", echo.MIMETextPlain, "  great read  ")
	var comment models.Comment
	decode(t, env.Data, &comment)
	if code != http.StatusCreated || comment.Content != "  great read  " || comment.Username != "alice" {
		t.Fatalf("raw comment: got %d %+v", code, comment)
	}

	code, _ = s.do(t, http.MethodPost, base+"/comment", "alice-token", echo.MIMETextPlain, "   ")
	if code != http.StatusBadRequest {
		t.Errorf("blank raw comment: expected 400, got %d", code)
	}

	code, _ = s.post(t, base+"/comments", "bob-token", `{"content":"thanks"}`)
	if code != http.StatusCreated {
		t.Fatalf("json comment: expected 201, got %d", code)
	}
	code, _ = s.post(t, base+"/comments", "bob-token", `{"content":""}`)
	if code != http.StatusBadRequest {
		t.Errorf("empty json comment: expected 400, got %d", code)
	}

	_, env = s.get(t, base+"/comments", "")
	var comments []models.Comment
	decode(t, env.Data, &comments)
	if len(comments) != 2 || comments[0].Content != "  great read  " {
		t.Errorf("expected two comments oldest first, got %+v", comments)
	}

	_, env = s.get(t, base, "")
	var view services.ContentView
	decode(t, env.Data, &view)
	if view.CommentsCount != 2 || view.Upvotes != 1 {
		t.Errorf("unexpected counters %+v", view.ContentItem)
	}
}

func TestRawCommentSizeLimit(t *testing.T) {
	s := newTestServer(t)
	news := testutil.SeedItem(t, s.db, models.ContentItem{Kind: models.KindNews, Title: "n", Author: "bob"})
	base := fmt.Sprintf("/api/news/%d", news.ID)

	tooLong := strings.Repeat("a", maxRawCommentBytes+1)
	code, env := s.do(t, http.MethodPost, base+"/comment", "alice-token", echo.MIMETextPlain, tooLong)
	if code != http.StatusRequestEntityTooLarge || env.Success {
		t.Fatalf("oversized comment: expected 413, got %d %+v", code, env)
	}

	exact := strings.Repeat("b", maxRawCommentBytes)
	code, env = s.do(t, http.MethodPost, base+"/comment", "alice-token", echo.MIMETextPlain, exact)
	var comment models.Comment
	decode(t, env.Data, &comment)
	if code != http.StatusCreated || len(comment.Content) != maxRawCommentBytes {
		t.Fatalf("comment at the limit: got %d with %d bytes", code, len(comment.Content))
	}

	_, env = s.get(t, base, "")
	var view services.ContentView
	decode(t, env.Data, &view)
	if view.CommentsCount != 1 {
		t.Errorf("expected only the accepted comment to count, got %d", view.CommentsCount)
	}
}

func TestCreateAndListByAuthor(t *testing.T) {
	s := newTestServer(t)

	code, env := s.post(t, "/api/posts", "alice-token", `{"title":"Hello","body":"first","category":"life"}`)
	if code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d %+v", code, env)
	}
	var item models.ContentItem
	decode(t, env.Data, &item)
	if item.Author != "alice" || item.Kind != models.KindPost {
		t.Errorf("unexpected item %+v", item)
	}

	code, env = s.post(t, "/api/posts", "alice-token", `{"body":"no title","category":"life"}`)
	if code != http.StatusBadRequest || !strings.Contains(env.Error, "Title") {
		t.Errorf("missing title: expected 400 naming the field, got %d %+v", code, env)
	}
	if code, _ = s.post(t, "/api/posts", "", `{"title":"x","category":"y"}`); code != http.StatusUnauthorized {
		t.Errorf("anonymous create: expected 401, got %d", code)
	}

	var views []services.ContentView
	_, env = s.get(t, "/api/posts/by-user/alice", "")
	decode(t, env.Data, &views)
	if len(views) != 1 || views[0].ID != item.ID {
		t.Errorf("by-user: unexpected %+v", views)
	}
	_, env = s.get(t, "/api/posts/user/me", "alice-token")
	decode(t, env.Data, &views)
	if len(views) != 1 {
		t.Errorf("user/me: unexpected %+v", views)
	}
	_, env = s.get(t, "/api/posts/category/LIFE", "")
	var page services.FeedPage
	decode(t, env.Data, &page)
	if page.Total != 1 {
		t.Errorf("category route: expected 1, got %d", page.Total)
	}
}

func TestPopularNews(t *testing.T) {
	s := newTestServer(t)
	low := testutil.SeedItem(t, s.db, models.ContentItem{Kind: models.KindNews, Title: "low", Upvotes: 1})
	high := testutil.SeedItem(t, s.db, models.ContentItem{Kind: models.KindNews, Title: "high", Upvotes: 5})

	_, env := s.get(t, "/api/news/popular", "")
	var page services.FeedPage
	decode(t, env.Data, &page)
	if len(page.Items) != 2 || page.Items[0].ID != high.ID || page.Items[1].ID != low.ID {
		t.Errorf("expected popularity order, got %+v", page.Items)
	}
}

func TestStoreFailureIsGeneric(t *testing.T) {
	s := newTestServer(t)
	if err := s.db.Migrator().DropTable(&models.ContentItem{}); err != nil {
		t.Fatal(err)
	}

	code, env := s.get(t, "/api/posts", "")
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if env.Error != internalErrorMessage {
		t.Errorf("store error text leaked: %q", env.Error)
	}
}
