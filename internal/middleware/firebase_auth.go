package middleware

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/repositories"
)

// IDTokenVerifier is the part of *auth.Client used to check Firebase ID tokens.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseResolver verifies Firebase ID tokens and maps the Firebase UID to
// the linked local user.
type FirebaseResolver struct {
	verifier IDTokenVerifier
	users    repositories.UserRepository
}

func NewFirebaseResolver(verifier IDTokenVerifier, users repositories.UserRepository) *FirebaseResolver {
	return &FirebaseResolver{verifier: verifier, users: users}
}

func (r *FirebaseResolver) Resolve(ctx context.Context, idToken string) (*models.Actor, error) {
	token, err := r.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := r.users.GetByFirebaseUID(ctx, token.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("lookup firebase user: %w", err)
	}
	return user.Actor(), nil
}
