package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/reclog"
)

func TestRecommendationServicePersonalized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ids := env.seedCatalog(t)

	_, err := env.profiles.UpdateProfile(ctx, "user-1", &UpdateProfileRequest{
		Stage:            domain.StageEarlyRevenue,
		BusinessModel:    "agency",
		BiggestChallenge: "sales",
		FocusAreas:       []string{"marketing"},
		RevenueRange:     "1k-10k",
	})
	require.NoError(t, err)

	_, err = env.signals.SetInteraction(ctx, "user-1", ids["Never Again"], domain.InteractionNotInterested)
	require.NoError(t, err)

	recs, err := env.recommend.Recommend(ctx, "user-1", RecommendOptions{Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, reclog.ModePersonalized, recs.Mode)
	assert.False(t, recs.Fallback)
	require.NotEmpty(t, recs.Items)

	for _, item := range recs.Items {
		assert.NotEqual(t, ids["Never Again"], item.BookID, "blocked book must never surface")
		assert.NotEmpty(t, item.Title)
		assert.NotEmpty(t, item.Author)
		assert.NotEmpty(t, item.Explanation)
	}

	// Stage plus bottleneck matches put the sales book on top.
	assert.Equal(t, ids["Winning Client Work"], recs.Items[0].BookID)
}

func TestRecommendationServiceFallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ids := env.seedCatalog(t)

	// No profile, no signal: the curated path runs and says so.
	recs, err := env.recommend.Recommend(ctx, "user-cold", RecommendOptions{Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, reclog.ModeFallback, recs.Mode)
	assert.True(t, recs.Fallback)
	assert.Len(t, recs.Items, len(ids))
}

func TestRecommendationServiceFallbackKeepsBlocks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ids := env.seedCatalog(t)

	// Blocks alone are not enough signal to personalize, but they still
	// hold on the curated path.
	_, err := env.signals.SetInteraction(ctx, "user-2", ids["Deep Work Habits"], domain.InteractionNotInterested)
	require.NoError(t, err)

	recs, err := env.recommend.Recommend(ctx, "user-2", RecommendOptions{Limit: 10})
	require.NoError(t, err)

	assert.True(t, recs.Fallback)
	for _, item := range recs.Items {
		assert.NotEqual(t, ids["Deep Work Habits"], item.BookID)
	}
}

func TestRecommendationServiceLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCatalog(t)

	recs, err := env.recommend.Recommend(ctx, "user-cold", RecommendOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, recs.Items, 2)
}

func TestRecommendationServicePreview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ids := env.seedCatalog(t)

	t.Run("anonymous preview", func(t *testing.T) {
		recs, err := env.recommend.Preview(ctx, "", &PreviewRequest{
			Stage:            domain.StageEarlyRevenue,
			BiggestChallenge: "sales",
		}, RecommendOptions{Limit: 10})
		require.NoError(t, err)

		assert.Equal(t, reclog.ModePreview, recs.Mode)
		assert.False(t, recs.Fallback)
		require.NotEmpty(t, recs.Items)
		assert.Equal(t, ids["Winning Client Work"], recs.Items[0].BookID)
	})

	t.Run("preview keeps the caller's blocks", func(t *testing.T) {
		_, err := env.signals.SetInteraction(ctx, "user-1", ids["Winning Client Work"], domain.InteractionNotInterested)
		require.NoError(t, err)

		recs, err := env.recommend.Preview(ctx, "user-1", &PreviewRequest{
			Stage:            domain.StageEarlyRevenue,
			BiggestChallenge: "sales",
		}, RecommendOptions{Limit: 10})
		require.NoError(t, err)

		for _, item := range recs.Items {
			assert.NotEqual(t, ids["Winning Client Work"], item.BookID)
		}
	})

	t.Run("empty ad-hoc profile degrades to curation", func(t *testing.T) {
		recs, err := env.recommend.Preview(ctx, "", &PreviewRequest{}, RecommendOptions{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, reclog.ModePreview, recs.Mode)
		assert.Len(t, recs.Items, len(ids))
	})
}
