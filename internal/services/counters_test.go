package services

import (
	"context"
	"testing"

	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/testutil"
)

func TestReconcile_CorrectsDrift(t *testing.T) {
	store, db := newTestStore(t)
	counters := NewCounters(store)
	ctx := context.Background()

	drifted := testutil.SeedItem(t, db, models.ContentItem{Kind: models.KindPost, Title: "drifted", LikesCount: 7, CommentsCount: 4})
	clean := testutil.SeedItem(t, db, models.ContentItem{Kind: models.KindPost, Title: "clean", LikesCount: 1, CommentsCount: 1})
	db.Create(&models.Like{UserID: 1, ContentID: drifted.ID})
	db.Create(&models.Like{UserID: 2, ContentID: drifted.ID})
	db.Create(&models.Comment{ContentID: drifted.ID, UserID: 1, Content: "hi"})
	db.Create(&models.Like{UserID: 1, ContentID: clean.ID})
	db.Create(&models.Comment{ContentID: clean.ID, UserID: 2, Content: "yo"})

	report, err := counters.Reconcile(ctx, models.KindPost)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if report.Checked != 2 || report.Corrected != 1 {
		t.Errorf("expected 2 checked / 1 corrected, got %+v", report)
	}

	var got models.ContentItem
	db.First(&got, drifted.ID)
	if got.LikesCount != 2 || got.CommentsCount != 1 {
		t.Errorf("expected likes=2 comments=1, got likes=%d comments=%d", got.LikesCount, got.CommentsCount)
	}

	report, err = counters.Reconcile(ctx, models.KindPost)
	if err != nil {
		t.Fatal(err)
	}
	if report.Corrected != 0 {
		t.Errorf("second pass should find nothing to correct, got %+v", report)
	}
}

func TestReconcile_LeavesVotesAlone(t *testing.T) {
	store, db := newTestStore(t)
	counters := NewCounters(store)
	news := testutil.SeedItem(t, db, models.ContentItem{Kind: models.KindNews, Title: "n", Upvotes: -3, CommentsCount: 2})
	db.Create(&models.Comment{ContentID: news.ID, UserID: 1, Content: "a"})
	db.Create(&models.Comment{ContentID: news.ID, UserID: 2, Content: "b"})

	report, err := counters.Reconcile(context.Background(), models.KindNews)
	if err != nil {
		t.Fatal(err)
	}
	if report.Checked != 1 || report.Corrected != 0 {
		t.Errorf("unexpected report %+v", report)
	}
	var got models.ContentItem
	db.First(&got, news.ID)
	if got.Upvotes != -3 {
		t.Errorf("vote counter must not change, got %d", got.Upvotes)
	}
}

func TestReconcile_Cancelled(t *testing.T) {
	store, db := newTestStore(t)
	testutil.SeedItem(t, db, models.ContentItem{Kind: models.KindPost, Title: "p"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewCounters(store).Reconcile(ctx, models.KindPost); err == nil {
		t.Error("expected error for cancelled context")
	}
}
