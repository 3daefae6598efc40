package services

import (
	"context"
	"fmt"

	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// Profiles reads and edits user profiles.
type Profiles struct {
	users repositories.UserRepository
}

func NewProfiles(users repositories.UserRepository) *Profiles {
	return &Profiles{users: users}
}

// Get returns the public profile of username.
func (s *Profiles) Get(ctx context.Context, username string) (*models.Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	profile := user.ToProfile()
	return &profile, nil
}

// Update replaces the actor's avatar and bio, and changes email and password
// when they are given. Passwords are stored as bcrypt hashes.
func (s *Profiles) Update(ctx context.Context, actor *models.Actor, req models.UpdateProfileRequest) (*models.Profile, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, notFound(err, "profile")
	}

	user.Avatar = req.Avatar
	user.Bio = req.Bio
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	profile := user.ToProfile()
	return &profile, nil
}
