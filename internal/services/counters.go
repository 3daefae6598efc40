package services

import (
	"context"
	"fmt"

	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/repositories"
	"github.com/anonto42/neoping/backend/pkg/logging"
)

// Counters keeps the denormalized counters on content items in line with the
// fact tables. The tx-scoped methods must be called inside the transaction
// that mutated the fact rows.
type Counters struct {
	store *repositories.Store
}

// NewCounters creates a Counters over store
func NewCounters(store *repositories.Store) *Counters {
	return &Counters{store: store}
}

// RecomputeLikes sets the item's like count to the number of Like rows. The
// caller must hold the item's row lock.
func (c *Counters) RecomputeLikes(ctx context.Context, tx *repositories.Store, id uint) (int64, error) {
	n, err := tx.Likes.Count(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	if err := tx.Content.SetLikesCount(ctx, id, n); err != nil {
		return 0, notFound(err, "content")
	}
	return n, nil
}

// ApplyVote adds delta to the signed vote counter. Votes have no fact rows,
// so the counter is the only record of them.
func (c *Counters) ApplyVote(ctx context.Context, tx *repositories.Store, id uint, delta int64) (int64, error) {
	n, err := tx.Content.AddUpvotes(ctx, id, delta)
	if err != nil {
		return 0, notFound(err, "content")
	}
	return n, nil
}

// IncrementComments bumps the comment counter after a comment insert.
func (c *Counters) IncrementComments(ctx context.Context, tx *repositories.Store, id uint) error {
	if err := tx.Content.IncrementCommentsCount(ctx, id); err != nil {
		return notFound(err, "content")
	}
	return nil
}

// ReconcileReport summarises a reconciliation pass.
type ReconcileReport struct {
	Checked   int `json:"checked"`
	Corrected int `json:"corrected"`
}

// Reconcile recomputes the like (where fact-backed) and comment counters of
// every item of a kind from the fact tables, one transaction per item. Vote
// counters are left alone.
func (c *Counters) Reconcile(ctx context.Context, kind models.ContentKind) (ReconcileReport, error) {
	var report ReconcileReport

	ids, err := c.store.Content.IDs(ctx, kind)
	if err != nil {
		return report, fmt.Errorf("list %s ids: %w", kind, err)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		var corrected bool
		err := c.store.Transaction(ctx, func(tx *repositories.Store) error {
			item, err := tx.Content.GetByIDForUpdate(ctx, kind, id)
			if err != nil {
				return notFound(err, "content")
			}
			if kind.LikesFactBacked() {
				n, err := c.RecomputeLikes(ctx, tx, id)
				if err != nil {
					return err
				}
				corrected = corrected || n != item.LikesCount
			}
			n, err := tx.Comments.Count(ctx, id)
			if err != nil {
				return fmt.Errorf("count comments: %w", err)
			}
			if n != item.CommentsCount {
				corrected = true
				return tx.Content.SetCommentsCount(ctx, id, n)
			}
			return nil
		})
		if err != nil {
			return report, fmt.Errorf("reconcile %s %d: %w", kind, id, err)
		}
		report.Checked++
		if corrected {
			report.Corrected++
			logging.Info().Str("kind", string(kind)).Uint("id", id).Msg("counter drift corrected")
		}
	}
	return report, nil
}
