package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

// ProfileService manages founder profiles, the stated business context the
// insight builder derives preference signals from.
type ProfileService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(st *store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  st,
		logger: logger,
	}
}

// GetProfile returns a user's profile, or store.ErrProfileNotFound when the
// user has never saved one. Cold start is a valid state; callers decide
// whether absence is an error.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.store.GetProfile(ctx, userID)
}

// GetProfileOrNil returns the profile, or nil on cold start. Used by the
// recommendation loader, which treats absence as empty signal.
func (s *ProfileService) GetProfileOrNil(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

// UpdateProfileRequest carries a full profile update. All fields are
// optional; stage and revenue values are validated against the fixed sets.
type UpdateProfileRequest struct {
	Stage            string   `json:"stage,omitempty" validate:"stage"`
	BusinessModel    string   `json:"business_model,omitempty" validate:"max=100"`
	BiggestChallenge string   `json:"biggest_challenge,omitempty" validate:"max=200"`
	FocusAreas       []string `json:"focus_areas,omitempty" validate:"max=10,dive,max=100"`
	RevenueRange     string   `json:"revenue_range,omitempty" validate:"omitempty,oneof=pre-revenue under-1k 1k-10k 10k-50k 50k-plus"`
	Vision           string   `json:"vision,omitempty" validate:"max=2000"`
}

// UpdateProfile replaces a user's stated context, creating the profile on
// first save. The profile stores what the founder typed, trimmed; insight
// normalization happens at ranking time.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrProfileNotFound) {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		profile = domain.NewProfile(userID)
	}

	profile.Stage = strings.TrimSpace(req.Stage)
	profile.BusinessModel = strings.TrimSpace(req.BusinessModel)
	profile.BiggestChallenge = strings.TrimSpace(req.BiggestChallenge)
	profile.FocusAreas = trimAll(req.FocusAreas)
	profile.RevenueRange = strings.TrimSpace(req.RevenueRange)
	profile.Vision = strings.TrimSpace(req.Vision)
	profile.Touch()

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.logger.Info("profile updated",
		"user_id", userID,
		"stage", profile.Stage,
		"business_model", profile.BusinessModel,
	)

	return profile, nil
}

// DeleteProfile removes a user's profile. Idempotent.
func (s *ProfileService) DeleteProfile(ctx context.Context, userID string) error {
	if err := s.store.DeleteProfile(ctx, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	s.logger.Info("profile deleted", "user_id", userID)
	return nil
}
