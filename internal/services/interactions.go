package services

import (
	"context"
	"fmt"

	"github.com/anonto42/neoping/backend/internal/metrics"
	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/repositories"
	"github.com/anonto42/neoping/backend/pkg/logging"
)

// Notifier delivers notifications after an interaction commits. Delivery is
// best effort and never fails the interaction.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification)
}

// Interactions is the per-user action surface: like toggles, votes,
// comments and bookmarks. Every fact-row change and its counter update run
// in one transaction.
type Interactions struct {
	store    *repositories.Store
	counters *Counters
	notifier Notifier
}

// NewInteractions creates an Interactions. notifier may be nil.
func NewInteractions(store *repositories.Store, counters *Counters, notifier Notifier) *Interactions {
	return &Interactions{store: store, counters: counters, notifier: notifier}
}

// ToggleLike flips the actor's like on an item and returns the new state with
// the recomputed like count.
//
// The item row is locked first, so toggles from different actors on one
// item count and store one after another. The delete runs next: if a row
// went away the item is now unliked, otherwise a row is inserted. A
// concurrent duplicate insert from the same actor hits the unique index and
// is absorbed.
func (s *Interactions) ToggleLike(ctx context.Context, actor *models.Actor, kind models.ContentKind, id uint) (*models.LikeResult, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if !kind.LikesFactBacked() {
		return nil, fmt.Errorf("like %s: %w", kind, ErrUnsupported)
	}

	var (
		result models.LikeResult
		item   *models.ContentItem
	)
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		item, err = tx.Content.GetByIDForUpdate(ctx, kind, id)
		if err != nil {
			return notFound(err, string(kind))
		}

		removed, err := tx.Likes.Delete(ctx, actor.ID, id)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		if !removed {
			if _, err := tx.Likes.Insert(ctx, actor.ID, id); err != nil {
				return fmt.Errorf("insert like: %w", err)
			}
		}
		result.Liked = !removed

		result.LikesCount, err = s.counters.RecomputeLikes(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	action := "unlike"
	if result.Liked {
		action = "like"
		s.notify(ctx, actor, item, models.NotificationLike, actor.Username+" liked your "+string(kind))
	}
	metrics.InteractionsTotal.WithLabelValues(string(kind), action).Inc()
	logging.Ctx(ctx).Debug().
		Str("actor", actor.Username).Uint("id", id).
		Bool("liked", result.Liked).Int64("likes", result.LikesCount).
		Msg("like toggled")
	return &result, nil
}

// Upvote adds one to a news item's score.
//
// Votes are not deduplicated per actor: the same actor may vote any number
// of times.
func (s *Interactions) Upvote(ctx context.Context, actor *models.Actor, kind models.ContentKind, id uint) (*models.VoteResult, error) {
	return s.vote(ctx, actor, kind, id, 1, "upvote")
}

// Downvote subtracts one from a news item's score. The score may go negative.
func (s *Interactions) Downvote(ctx context.Context, actor *models.Actor, kind models.ContentKind, id uint) (*models.VoteResult, error) {
	return s.vote(ctx, actor, kind, id, -1, "downvote")
}

func (s *Interactions) vote(ctx context.Context, actor *models.Actor, kind models.ContentKind, id uint, delta int64, action string) (*models.VoteResult, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if !kind.Votable() {
		return nil, fmt.Errorf("%s %s: %w", action, kind, ErrUnsupported)
	}

	var result models.VoteResult
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Content.GetByIDForUpdate(ctx, kind, id); err != nil {
			return notFound(err, string(kind))
		}
		var err error
		result.Upvotes, err = s.counters.ApplyVote(ctx, tx, id, delta)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.InteractionsTotal.WithLabelValues(string(kind), action).Inc()
	logging.Ctx(ctx).Debug().Str("actor", actor.Username).Uint("id", id).Int64("upvotes", result.Upvotes).Msg(action)
	return &result, nil
}

// AddComment appends a comment and increments the item's comment count.
// The text is stored as given.
func (s *Interactions) AddComment(ctx context.Context, actor *models.Actor, kind models.ContentKind, id uint, text string) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	var (
		comment *models.Comment
		item    *models.ContentItem
	)
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		item, err = tx.Content.GetByIDForUpdate(ctx, kind, id)
		if err != nil {
			return notFound(err, string(kind))
		}
		comment = &models.Comment{
			ContentID: id,
			UserID:    actor.ID,
			Username:  actor.Username,
			Content:   text,
		}
		if err := tx.Comments.Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return s.counters.IncrementComments(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}

	metrics.InteractionsTotal.WithLabelValues(string(kind), "comment").Inc()
	s.notify(ctx, actor, item, models.NotificationComment, actor.Username+" commented on your "+string(kind))
	return comment, nil
}

// ListComments returns an item's comments, oldest first.
func (s *Interactions) ListComments(ctx context.Context, kind models.ContentKind, id uint) ([]models.Comment, error) {
	if _, err := s.store.Content.GetByID(ctx, kind, id); err != nil {
		return nil, notFound(err, string(kind))
	}
	comments, err := s.store.Comments.ListByContent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Bookmark saves an item for the actor. Bookmarking is monotonic: a repeat
// call is a silent no-op and reports created=false.
func (s *Interactions) Bookmark(ctx context.Context, actor *models.Actor, kind models.ContentKind, id uint) (bool, error) {
	if actor == nil {
		return false, ErrUnauthenticated
	}
	if _, err := s.store.Content.GetByID(ctx, kind, id); err != nil {
		return false, notFound(err, string(kind))
	}

	exists, err := s.store.Bookmarks.Exists(ctx, actor.ID, id)
	if err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	if exists {
		return false, nil
	}
	created, err := s.store.Bookmarks.Insert(ctx, actor.ID, id)
	if err != nil {
		return false, fmt.Errorf("insert bookmark: %w", err)
	}
	if created {
		metrics.InteractionsTotal.WithLabelValues(string(kind), "bookmark").Inc()
	}
	return created, nil
}

func (s *Interactions) notify(ctx context.Context, actor *models.Actor, item *models.ContentItem, typ, message string) {
	if s.notifier == nil || item == nil || item.Author == "" || item.Author == actor.Username {
		return
	}
	s.notifier.Notify(ctx, &models.Notification{
		Recipient:   item.Author,
		Actor:       actor.Username,
		Type:        typ,
		ContentID:   item.ID,
		ContentKind: item.Kind,
		Message:     message,
	})
}
