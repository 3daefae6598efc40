package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/anonto42/neoping/backend/internal/metrics"
	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/repositories"
)

// FeedOrder is the listing order requested by a client.
type FeedOrder string

const (
	OrderLatest  FeedOrder = "latest"
	OrderPopular FeedOrder = "popular"
)

// ParseFeedOrder maps a query value onto a FeedOrder, defaulting to latest.
func ParseFeedOrder(s string) FeedOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(OrderPopular)) {
		return OrderPopular
	}
	return OrderLatest
}

// FeedQuery describes one feed page. Offset, when set, takes precedence over
// Page; otherwise the offset is Page*Limit.
type FeedQuery struct {
	Kind     models.ContentKind
	Category string
	Search   string
	Page     int
	Offset   *int
	Limit    int
	Order    FeedOrder
}

// ContentView is a content item decorated with the viewer's own state.
type ContentView struct {
	models.ContentItem
	LikedByViewer      bool `json:"liked_by_viewer"`
	BookmarkedByViewer bool `json:"bookmarked_by_viewer"`
}

// FeedPage is one page of a feed plus the paging metadata.
type FeedPage struct {
	Items   []ContentView `json:"items"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	HasMore bool          `json:"has_more"`
}

// Feed assembles paginated, filtered, viewer-decorated listings.
type Feed struct {
	store        *repositories.Store
	defaultLimit int
	maxLimit     int
}

// NewFeed creates a Feed. Non-positive limits fall back to 10 and 50.
func NewFeed(store *repositories.Store, defaultLimit, maxLimit int) *Feed {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit <= 0 {
		maxLimit = 50
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Feed{store: store, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// GetFeed returns one page of the listing described by q. viewer may be nil.
func (f *Feed) GetFeed(ctx context.Context, viewer *models.Actor, q FeedQuery) (*FeedPage, error) {
	if !q.Kind.Valid() {
		return nil, fmt.Errorf("kind %q: %w", q.Kind, ErrInvalidInput)
	}

	limit := q.Limit
	if limit < 1 {
		limit = f.defaultLimit
	}
	if limit > f.maxLimit {
		limit = f.maxLimit
	}
	offset := pageOffset(q.Page, limit)
	if q.Offset != nil {
		offset = max(*q.Offset, 0)
	}

	filter := resolveFilter(q.Kind, q.Category, q.Search)
	order := repositories.OrderLatest
	if q.Order == OrderPopular {
		order = repositories.OrderPopular
	}

	items, err := f.store.Content.ListPage(ctx, repositories.ContentQuery{
		Filter: filter,
		Order:  order,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list %s feed: %w", q.Kind, err)
	}
	total, err := f.store.Content.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count %s feed: %w", q.Kind, err)
	}
	views, err := f.decorate(ctx, viewer, items)
	if err != nil {
		return nil, err
	}

	orderLabel := OrderLatest
	if q.Order == OrderPopular {
		orderLabel = OrderPopular
	}
	metrics.FeedPagesTotal.WithLabelValues(string(q.Kind), string(orderLabel)).Inc()

	return &FeedPage{
		Items:   views,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset) < total-int64(limit),
	}, nil
}

// pageOffset converts a page number into a row offset. Pages too large to
// address land past any possible end instead of wrapping around.
func pageOffset(page, limit int) int {
	if page <= 0 {
		return 0
	}
	if page > (math.MaxInt-limit)/limit {
		return math.MaxInt - limit
	}
	return page * limit
}

// resolveFilter applies the listing precedence: a concrete category wins,
// then a search term, then no filter. "All" means no category.
func resolveFilter(kind models.ContentKind, category, search string) repositories.ContentFilter {
	filter := repositories.ContentFilter{Kind: kind}
	category = strings.TrimSpace(category)
	if category != "" && !strings.EqualFold(category, models.CategoryAll) {
		filter.Category = category
		return filter
	}
	filter.Search = strings.TrimSpace(search)
	return filter
}

// GetItem returns one decorated item.
func (f *Feed) GetItem(ctx context.Context, viewer *models.Actor, kind models.ContentKind, id uint) (*ContentView, error) {
	item, err := f.store.Content.GetByID(ctx, kind, id)
	if err != nil {
		return nil, notFound(err, string(kind))
	}
	views, err := f.decorate(ctx, viewer, []models.ContentItem{*item})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListByAuthor returns every item of a kind written by username, newest first.
func (f *Feed) ListByAuthor(ctx context.Context, viewer *models.Actor, kind models.ContentKind, username string) ([]ContentView, error) {
	items, err := f.store.Content.ListByAuthor(ctx, kind, username)
	if err != nil {
		return nil, fmt.Errorf("list %s by %s: %w", kind, username, err)
	}
	return f.decorate(ctx, viewer, items)
}

// ListBookmarks returns the actor's bookmarked items, most recently saved first.
func (f *Feed) ListBookmarks(ctx context.Context, actor *models.Actor) ([]ContentView, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	bookmarks, err := f.store.Bookmarks.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	ids := make([]uint, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.ContentID
	}
	items, err := f.store.Content.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load bookmarked items: %w", err)
	}

	byID := make(map[uint]models.ContentItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	ordered := make([]models.ContentItem, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return f.decorate(ctx, actor, ordered)
}

// decorate attaches the viewer's like and bookmark flags. A lookup failure
// fails the whole call; flags are never guessed.
func (f *Feed) decorate(ctx context.Context, viewer *models.Actor, items []models.ContentItem) ([]ContentView, error) {
	views := make([]ContentView, len(items))
	for i, item := range items {
		views[i] = ContentView{ContentItem: item}
	}
	if viewer == nil || len(items) == 0 {
		return views, nil
	}

	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	liked, err := f.store.Likes.LikedIDs(ctx, viewer.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("load viewer likes: %w", err)
	}
	saved, err := f.store.Bookmarks.BookmarkedIDs(ctx, viewer.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("load viewer bookmarks: %w", err)
	}
	for i := range views {
		views[i].LikedByViewer = liked[views[i].ID]
		views[i].BookmarkedByViewer = saved[views[i].ID]
	}
	return views, nil
}
