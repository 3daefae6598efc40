package services

import (
	"errors"
	"fmt"

	"github.com/anonto42/neoping/backend/internal/repositories"
)

var (
	// ErrNotFound reports that the referenced item, user or profile does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated reports that an action needs an actor and none was resolved.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrUnsupported reports an action the content kind does not offer, such as
	// liking a news item or upvoting a post.
	ErrUnsupported = errors.New("action not supported for this content")
	// ErrInvalidInput reports a malformed request value.
	ErrInvalidInput = errors.New("invalid input")
)

// notFound rewrites a repository miss as ErrNotFound, labelled with what was missing.
func notFound(err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
