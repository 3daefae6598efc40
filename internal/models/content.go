package models

import "time"

// ContentKind distinguishes the two feed item variants.
type ContentKind string

const (
	KindPost ContentKind = "post"
	KindNews ContentKind = "news"
)

// CategoryAll is the category sentinel that disables category filtering.
const CategoryAll = "All"

// Valid reports whether k is a known kind.
func (k ContentKind) Valid() bool {
	return k == KindPost || k == KindNews
}

// LikesFactBacked reports whether likes on this kind are backed by per-user Like rows.
func (k ContentKind) LikesFactBacked() bool {
	return k == KindPost
}

// Votable reports whether this kind carries a raw up/down vote counter.
func (k ContentKind) Votable() bool {
	return k == KindNews
}

// PopularityColumn is the column the "popular" ordering sorts on.
func (k ContentKind) PopularityColumn() string {
	if k == KindNews {
		return "upvotes"
	}
	return "likes_count"
}

// ContentItem is a post or a news article. Counter columns are a cached
// projection over the likes and comments tables.
type ContentItem struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	Kind          ContentKind `json:"kind" gorm:"size:10;not null;index"`
	AuthorID      uint        `json:"author_id" gorm:"index"`
	Author        string      `json:"author" gorm:"size:50;index"` // username of the author
	Avatar        string      `json:"avatar,omitempty"`
	Title         string      `json:"title"`
	Body          string      `json:"body"` // post content, or the news excerpt
	Image         string      `json:"image,omitempty"`
	Category      string      `json:"category" gorm:"size:50;index"`
	LikesCount    int64       `json:"likes_count" gorm:"not null;default:0"`
	Upvotes       int64       `json:"upvotes" gorm:"not null;default:0"`
	CommentsCount int64       `json:"comments_count" gorm:"not null;default:0"`
	CreatedAt     time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName keeps posts and news in one table.
func (ContentItem) TableName() string {
	return "content_items"
}

// CreateContentRequest defines the request body for creating a post or news item
type CreateContentRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Body     string `json:"body" validate:"max=5000"`
	Image    string `json:"image,omitempty" validate:"omitempty,url"`
	Category string `json:"category" validate:"required,min=1,max=50"`
}
