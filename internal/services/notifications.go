package services

import (
	"context"
	"fmt"

	"github.com/anonto42/neoping/backend/internal/metrics"
	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/repositories"
	"github.com/anonto42/neoping/backend/pkg/logging"
)

// NotificationPage is one page of a recipient's notifications.
type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
	HasMore       bool                  `json:"has_more"`
}

// Notifications stores and lists user notifications. With a nil repository
// it runs disabled: notifications are dropped and listings are empty.
type Notifications struct {
	repo repositories.NotificationRepository
}

func NewNotifications(repo repositories.NotificationRepository) *Notifications {
	return &Notifications{repo: repo}
}

// Notify stores n. Failures are logged and counted, not returned.
func (s *Notifications) Notify(ctx context.Context, n *models.Notification) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Create(ctx, n); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("recipient", n.Recipient).Str("type", n.Type).Msg("notification dropped")
	}
}

// List returns the actor's notifications newest first. page is zero-based.
func (s *Notifications) List(ctx context.Context, actor *models.Actor, page, limit int) (*NotificationPage, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if page < 0 {
		page = 0
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	result := &NotificationPage{Notifications: []models.Notification{}, Page: page, Limit: limit}
	if s.repo == nil {
		return result, nil
	}

	skip := int64(page * limit)
	items, total, err := s.repo.ListByRecipient(ctx, actor.Username, skip, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	result.Notifications = items
	result.Total = total
	result.HasMore = skip+int64(limit) < total
	return result, nil
}
