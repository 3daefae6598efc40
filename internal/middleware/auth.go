package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/pkg/logging"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

var (
	// ErrInvalidToken is returned by resolvers for tokens they cannot verify.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUnknownUser is returned when a verified token maps to no local user.
	ErrUnknownUser = errors.New("token does not belong to a known user")
)

// ActorResolver turns a bearer token into the acting user.
type ActorResolver interface {
	Resolve(ctx context.Context, token string) (*models.Actor, error)
}

// Resolvers tries each resolver in order and returns the first actor found.
// A failure other than a rejected token stops the chain.
type Resolvers []ActorResolver

func (rs Resolvers) Resolve(ctx context.Context, token string) (*models.Actor, error) {
	err := ErrInvalidToken
	for _, r := range rs {
		actor, rerr := r.Resolve(ctx, token)
		if rerr == nil {
			return actor, nil
		}
		if !isTokenRejection(rerr) {
			return nil, rerr
		}
		err = rerr
	}
	return nil, err
}

func isTokenRejection(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrUnknownUser)
}

// OptionalAuth resolves the actor from the Authorization header when one is
// present. Requests without the header continue anonymously; a header that
// cannot be resolved is rejected.
func OptionalAuth(resolver ActorResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			actor, err := resolver.Resolve(c.Request().Context(), parts[1])
			if err != nil {
				if !isTokenRejection(err) {
					return fmt.Errorf("resolve actor: %w", err)
				}
				logging.Ctx(c.Request().Context()).Debug().Err(err).Msg("token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// RequireActor rejects requests that reached it without a resolved actor.
func RequireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentActor(c) == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
		}
		return next(c)
	}
}

// CurrentActor returns the resolved actor, or nil for anonymous requests.
func CurrentActor(c echo.Context) *models.Actor {
	actor, _ := c.Get(actorKey).(*models.Actor)
	return actor
}
