package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
)

// Notification is an append-only user notification stored in MongoDB
type Notification struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Recipient   string             `json:"recipient" bson:"recipient"` // username
	Actor       string             `json:"actor" bson:"actor"`
	Type        string             `json:"type" bson:"type"`
	ContentID   uint               `json:"content_id" bson:"content_id"`
	ContentKind ContentKind        `json:"content_kind" bson:"content_kind"`
	Message     string             `json:"message" bson:"message"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
