package models

import "time"

// Bookmark represents a saved content item. Bookmarks are only ever created.
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_bookmark_user_content"`
	ContentID uint      `json:"content_id" gorm:"not null;uniqueIndex:idx_bookmark_user_content"`
	CreatedAt time.Time `json:"created_at"`
}
