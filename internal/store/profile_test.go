package store

import (
	"context"
	"testing"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRoundTrip(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	profile := domain.NewProfile("user-123")
	profile.Stage = domain.StageEarlyRevenue
	profile.BusinessModel = "agency"
	profile.BiggestChallenge = "sales"
	profile.FocusAreas = []string{"marketing", "hiring"}
	profile.RevenueRange = domain.Revenue1KTo10K

	err := s.SaveProfile(ctx, profile)
	require.NoError(t, err)

	retrieved, err := s.GetProfile(ctx, "user-123")
	require.NoError(t, err)
	assert.Equal(t, domain.StageEarlyRevenue, retrieved.Stage)
	assert.Equal(t, "agency", retrieved.BusinessModel)
	assert.Equal(t, "sales", retrieved.BiggestChallenge)
	assert.Equal(t, []string{"marketing", "hiring"}, retrieved.FocusAreas)
	assert.Equal(t, domain.Revenue1KTo10K, retrieved.RevenueRange)
}

func TestGetProfile_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, err := s.GetProfile(ctx, "nonexistent-user")
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSaveProfile_Overwrites(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	profile := domain.NewProfile("user-123")
	profile.Stage = domain.StageIdea
	require.NoError(t, s.SaveProfile(ctx, profile))

	profile.Stage = domain.StageGrowth
	profile.BiggestChallenge = "hiring"
	require.NoError(t, s.SaveProfile(ctx, profile))

	retrieved, err := s.GetProfile(ctx, "user-123")
	require.NoError(t, err)
	assert.Equal(t, domain.StageGrowth, retrieved.Stage)
	assert.Equal(t, "hiring", retrieved.BiggestChallenge)
}

func TestDeleteProfile(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.SaveProfile(ctx, domain.NewProfile("user-123")))
	require.NoError(t, s.DeleteProfile(ctx, "user-123"))

	_, err := s.GetProfile(ctx, "user-123")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	// Idempotent
	require.NoError(t, s.DeleteProfile(ctx, "user-123"))
}
