package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/neoping/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscaper makes a search term match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ContentOrder selects the listing order.
type ContentOrder int

const (
	OrderLatest ContentOrder = iota
	OrderPopular
)

// ContentFilter narrows a listing. At most one of Category and Search is
// expected to be set; Category is matched case-insensitively.
type ContentFilter struct {
	Kind     models.ContentKind
	Category string
	Search   string
}

// ContentQuery is a page request over a filtered listing.
type ContentQuery struct {
	Filter ContentFilter
	Order  ContentOrder
	Offset int
	Limit  int
}

// ContentRepository defines the interface for post and news data operations
type ContentRepository interface {
	Create(ctx context.Context, item *models.ContentItem) error
	GetByID(ctx context.Context, kind models.ContentKind, id uint) (*models.ContentItem, error)
	GetByIDForUpdate(ctx context.Context, kind models.ContentKind, id uint) (*models.ContentItem, error)
	ListPage(ctx context.Context, q ContentQuery) ([]models.ContentItem, error)
	Count(ctx context.Context, f ContentFilter) (int64, error)
	ListByAuthor(ctx context.Context, kind models.ContentKind, username string) ([]models.ContentItem, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.ContentItem, error)
	IDs(ctx context.Context, kind models.ContentKind) ([]uint, error)
	SetLikesCount(ctx context.Context, id uint, n int64) error
	SetCommentsCount(ctx context.Context, id uint, n int64) error
	AddUpvotes(ctx context.Context, id uint, delta int64) (int64, error)
	IncrementCommentsCount(ctx context.Context, id uint) error
}

// PostgresContentRepository implements ContentRepository with gorm
type PostgresContentRepository struct {
	db *gorm.DB
}

// NewPostgresContentRepository creates a new PostgresContentRepository
func NewPostgresContentRepository(db *gorm.DB) *PostgresContentRepository {
	return &PostgresContentRepository{db: db}
}

// Create inserts a new content item
func (r *PostgresContentRepository) Create(ctx context.Context, item *models.ContentItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetByID retrieves an item of the given kind. An item of another kind is
// reported as not found.
func (r *PostgresContentRepository) GetByID(ctx context.Context, kind models.ContentKind, id uint) (*models.ContentItem, error) {
	var item models.ContentItem
	err := r.db.WithContext(ctx).Where("id = ? AND kind = ?", id, kind).First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// GetByIDForUpdate is GetByID holding a row lock until the surrounding
// transaction ends. Counter writers take it before touching fact rows so
// that count-then-store sequences on one item run one at a time.
func (r *PostgresContentRepository) GetByIDForUpdate(ctx context.Context, kind models.ContentKind, id uint) (*models.ContentItem, error) {
	var item models.ContentItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ? AND kind = ?", id, kind).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *PostgresContentRepository) filtered(ctx context.Context, f ContentFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.ContentItem{}).Where("kind = ?", f.Kind)
	if f.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(body) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	return q
}

// ListPage returns one offset-based page of the filtered listing
func (r *PostgresContentRepository) ListPage(ctx context.Context, q ContentQuery) ([]models.ContentItem, error) {
	tx := r.filtered(ctx, q.Filter)
	if q.Order == OrderPopular {
		tx = tx.Order(q.Filter.Kind.PopularityColumn() + " DESC")
	}
	// id breaks ties so consecutive pages stay disjoint
	tx = tx.Order("created_at DESC").Order("id DESC")

	var items []models.ContentItem
	if err := tx.Offset(q.Offset).Limit(q.Limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of items matching f, independent of paging
func (r *PostgresContentRepository) Count(ctx context.Context, f ContentFilter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListByAuthor returns all items of a kind written by username, newest first
func (r *PostgresContentRepository) ListByAuthor(ctx context.Context, kind models.ContentKind, username string) ([]models.ContentItem, error) {
	var items []models.ContentItem
	err := r.db.WithContext(ctx).
		Where("kind = ? AND author = ?", kind, username).
		Order("created_at DESC").Order("id DESC").
		Find(&items).Error
	return items, err
}

// ListByIDs returns the items with the given ids in no particular order
func (r *PostgresContentRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.ContentItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.ContentItem
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// IDs lists every item id of a kind
func (r *PostgresContentRepository) IDs(ctx context.Context, kind models.ContentKind) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.ContentItem{}).
		Where("kind = ?", kind).Order("id").Pluck("id", &ids).Error
	return ids, err
}

// SetLikesCount stores a recomputed like count
func (r *PostgresContentRepository) SetLikesCount(ctx context.Context, id uint, n int64) error {
	return r.updateColumn(ctx, id, "likes_count", n)
}

// SetCommentsCount stores a recomputed comment count
func (r *PostgresContentRepository) SetCommentsCount(ctx context.Context, id uint, n int64) error {
	return r.updateColumn(ctx, id, "comments_count", n)
}

// AddUpvotes applies a signed delta to the vote counter and returns the new value
func (r *PostgresContentRepository) AddUpvotes(ctx context.Context, id uint, delta int64) (int64, error) {
	if err := r.updateColumn(ctx, id, "upvotes", gorm.Expr("upvotes + ?", delta)); err != nil {
		return 0, err
	}
	var item models.ContentItem
	if err := r.db.WithContext(ctx).Select("id", "upvotes").First(&item, id).Error; err != nil {
		return 0, translate(err)
	}
	return item.Upvotes, nil
}

// IncrementCommentsCount increments the comments count of an item
func (r *PostgresContentRepository) IncrementCommentsCount(ctx context.Context, id uint) error {
	return r.updateColumn(ctx, id, "comments_count", gorm.Expr("comments_count + ?", 1))
}

func (r *PostgresContentRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.ContentItem{}).Where("id = ?", id).UpdateColumn(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
