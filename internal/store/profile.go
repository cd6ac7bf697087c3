package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/foundershelf/foundershelf-server/internal/domain"
)

const profilePrefix = "profile:"

// ErrProfileNotFound is returned when a founder profile is not found.
var ErrProfileNotFound = ErrNotFound.WithMessage("profile not found")

// GetProfile retrieves a user's founder profile.
// Returns ErrProfileNotFound if no profile exists; cold-start callers treat
// that as an empty profile, not a failure.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var profile domain.Profile
	err := s.get([]byte(profilePrefix+userID), &profile)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile creates or updates a user's founder profile.
func (s *Store) SaveProfile(ctx context.Context, profile *domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set([]byte(profilePrefix+profile.UserID), profile)
}

// DeleteProfile removes a user's founder profile. Idempotent.
func (s *Store) DeleteProfile(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete([]byte(profilePrefix + userID))
}
