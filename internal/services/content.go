package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/repositories"
)

// Content handles authoring of posts and news items.
type Content struct {
	store *repositories.Store
}

func NewContent(store *repositories.Store) *Content {
	return &Content{store: store}
}

// Create stores a new item written by actor. Counters start at zero.
func (s *Content) Create(ctx context.Context, actor *models.Actor, kind models.ContentKind, req models.CreateContentRequest) (*models.ContentItem, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("kind %q: %w", kind, ErrInvalidInput)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title: %w", ErrInvalidInput)
	}

	item := &models.ContentItem{
		Kind:     kind,
		AuthorID: actor.ID,
		Author:   actor.Username,
		Title:    title,
		Body:     req.Body,
		Image:    req.Image,
		Category: strings.TrimSpace(req.Category),
	}
	user, err := s.store.Users.GetByID(ctx, actor.ID)
	switch {
	case err == nil:
		item.Avatar = user.Avatar
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("load author: %w", err)
	}

	if err := s.store.Content.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return item, nil
}
