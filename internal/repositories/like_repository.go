package repositories

import (
	"context"

	"github.com/anonto42/neoping/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Insert(ctx context.Context, userID, contentID uint) (bool, error)
	Delete(ctx context.Context, userID, contentID uint) (bool, error)
	Count(ctx context.Context, contentID uint) (int64, error)
	LikedIDs(ctx context.Context, userID uint, contentIDs []uint) (map[uint]bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// Insert creates the like row. It reports false when the row already exists;
// the unique (user, content) index turns a racing duplicate into a no-op.
func (r *PostgresLikeRepository) Insert(ctx context.Context, userID, contentID uint) (bool, error) {
	like := &models.Like{UserID: userID, ContentID: contentID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the like row and reports whether one existed
func (r *PostgresLikeRepository) Delete(ctx context.Context, userID, contentID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND content_id = ?", userID, contentID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Count returns the number of likes on a content item
func (r *PostgresLikeRepository) Count(ctx context.Context, contentID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("content_id = ?", contentID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// LikedIDs returns the subset of contentIDs liked by userID
func (r *PostgresLikeRepository) LikedIDs(ctx context.Context, userID uint, contentIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(contentIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).
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
