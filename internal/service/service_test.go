package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/logger"
	"github.com/foundershelf/foundershelf-server/internal/recommend"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

// testEnv bundles a temp store with every service under test.
type testEnv struct {
	store     *store.Store
	catalog   *CatalogService
	profiles  *ProfileService
	signals   *SignalService
	recommend *RecommendationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	slogger := slog.New(slog.DiscardHandler)
	log := logger.New(logger.Config{Writer: io.Discard, Format: "json"})
	engine := recommend.NewEngine(recommend.DefaultWeights(), log)

	return &testEnv{
		store:     st,
		catalog:   NewCatalogService(st, nil, slogger),
		profiles:  NewProfileService(st, slogger),
		signals:   NewSignalService(st, slogger),
		recommend: NewRecommendationService(st, nil, engine, nil, 10, slogger),
	}
}

// seedCatalog loads a small catalog that exercises every scorer.
func (e *testEnv) seedCatalog(t *testing.T) map[string]string {
	t.Helper()
	ctx := context.Background()
	ids := make(map[string]string)

	books := []*UpsertBookRequest{
		{
			Title:   "Winning Client Work",
			Author:  "A. Seller",
			Promise: "Land better clients without cold outreach.",

			StageTags: []string{domain.StageEarlyRevenue},
			ThemeTags: []string{domain.ServicesCanonTag, "sales"},
		},
		{
			Title:          "Funnel Thinking",
			Author:         "B. Marketer",
			Promise:        "Build a repeatable marketing engine.",
			StageTags:      []string{domain.StageEarlyRevenue},
			FunctionalTags: []string{"marketing"},
			ThemeTags:      []string{"marketing-funnels"},
		},
		{
			Title:  "Deep Work Habits",
			Author: "C. Author",
		},
		{
			Title:     "Never Again",
			Author:    "D. Author",
			StageTags: []string{domain.StageEarlyRevenue},
		},
	}

	for _, req := range books {
		book, created, err := e.catalog.UpsertBook(ctx, req)
		require.NoError(t, err)
		require.True(t, created)
		ids[req.Title] = book.ID
	}

	return ids
}
