package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/neoping/backend/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store groups the relational repositories over a single gorm handle so that
// a fact-row mutation and its counter update can share one transaction.
type Store struct {
	db        *gorm.DB
	Content   ContentRepository
	Likes     LikeRepository
	Bookmarks BookmarkRepository
	Comments  CommentRepository
	Users     UserRepository
}

// NewStore creates a Store backed by db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Content:   NewPostgresContentRepository(db),
		Likes:     NewPostgresLikeRepository(db),
		Bookmarks: NewPostgresBookmarkRepository(db),
		Comments:  NewPostgresCommentRepository(db),
		Users:     NewPostgresUserRepository(db),
	}
}

// Transaction runs fn with a Store bound to a database transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// translate maps gorm's not-found error onto ErrNotFound.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Migrate creates or updates the relational schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ContentItem{},
		&models.Like{},
		&models.Bookmark{},
		&models.Comment{},
	)
}
