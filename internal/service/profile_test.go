package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

func TestProfileServiceUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("creates on first save", func(t *testing.T) {
		profile, err := env.profiles.UpdateProfile(ctx, "user-1", &UpdateProfileRequest{
			Stage:            domain.StageEarlyRevenue,
			BusinessModel:    " agency ",
			BiggestChallenge: "sales",
			FocusAreas:       []string{" marketing ", ""},
			RevenueRange:     "1k-10k",
		})
		require.NoError(t, err)
		assert.Equal(t, "user-1", profile.UserID)
		assert.Equal(t, "agency", profile.BusinessModel)
		assert.Equal(t, []string{"marketing"}, profile.FocusAreas)
		assert.False(t, profile.UpdatedAt.IsZero())
	})

	t.Run("replaces on later saves", func(t *testing.T) {
		profile, err := env.profiles.UpdateProfile(ctx, "user-1", &UpdateProfileRequest{
			Stage:         domain.StageGrowth,
			BusinessModel: "saas",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StageGrowth, profile.Stage)
		assert.Empty(t, profile.BiggestChallenge)
		assert.Nil(t, profile.FocusAreas)
	})
}

func TestProfileServiceGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.profiles.GetProfile(ctx, "user-cold")
	assert.ErrorIs(t, err, store.ErrProfileNotFound)

	// Cold start is not an error for the ranking path.
	profile, err := env.profiles.GetProfileOrNil(ctx, "user-cold")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestProfileServiceDeleteProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.profiles.UpdateProfile(ctx, "user-2", &UpdateProfileRequest{Stage: domain.StageIdea})
	require.NoError(t, err)

	require.NoError(t, env.profiles.DeleteProfile(ctx, "user-2"))

	profile, err := env.profiles.GetProfileOrNil(ctx, "user-2")
	require.NoError(t, err)
	assert.Nil(t, profile)

	// Idempotent.
	require.NoError(t, env.profiles.DeleteProfile(ctx, "user-2"))
}
