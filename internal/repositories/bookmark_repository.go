package repositories

import (
	"context"

	"github.com/anonto42/neoping/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for bookmark operations
type BookmarkRepository interface {
	Insert(ctx context.Context, userID, contentID uint) (bool, error)
	Exists(ctx context.Context, userID, contentID uint) (bool, error)
	BookmarkedIDs(ctx context.Context, userID uint, contentIDs []uint) (map[uint]bool, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Bookmark, error)
}

// PostgresBookmarkRepository implements BookmarkRepository
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

// Insert creates the bookmark unless it already exists
func (r *PostgresBookmarkRepository) Insert(ctx context.Context, userID, contentID uint) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Bookmark{UserID: userID, ContentID: contentID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresBookmarkRepository) Exists(ctx context.Context, userID, contentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).Where("user_id = ? AND content_id = ?", userID, contentID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresBookmarkRepository) BookmarkedIDs(ctx context.Context, userID uint, contentIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(contentIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ? AND content_id IN ?", userID, contentIDs).
		Pluck("content_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func (r *PostgresBookmarkRepository) ListByUser(ctx context.Context, userID uint) ([]models.Bookmark, error) {
	var saved []models.Bookmark
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Find(&saved).Error
	return saved, err
}
