package repositories

import (
	"context"

	"github.com/anonto42/neoping/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
// Comments are append-only.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByContent(ctx context.Context, contentID uint) ([]models.Comment, error)
	Count(ctx context.Context, contentID uint) (int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// Create creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListByContent retrieves all comments on an item, oldest first
func (r *PostgresCommentRepository) ListByContent(ctx context.Context, contentID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).Where("content_id = ?", contentID).Order("created_at ASC").Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Count returns the number of comments on an item
func (r *PostgresCommentRepository) Count(ctx context.Context, contentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("content_id = ?", contentID).Count(&count).Error
	return count, err
}
