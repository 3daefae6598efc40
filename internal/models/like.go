package models

import "time"

// Like records that a user currently likes a content item. The row's
// existence is the liked state; unliking deletes it.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_like_user_content"`
	ContentID uint      `json:"content_id" gorm:"not null;index;uniqueIndex:idx_like_user_content"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeResult is the state after a like toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// VoteResult is the news score after an upvote or downvote.
type VoteResult struct {
	Upvotes int64 `json:"upvotes"`
}
