package models

import "time"

// Comment represents a comment on a content item
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ContentID uint      `json:"content_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Username  string    `json:"username" gorm:"size:50"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}
