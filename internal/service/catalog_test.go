package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	domainerrors "github.com/foundershelf/foundershelf-server/internal/errors"
	"github.com/foundershelf/foundershelf-server/internal/search"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

func TestCatalogServiceUpsertBook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("creates on first sight", func(t *testing.T) {
		book, created, err := env.catalog.UpsertBook(ctx, &UpsertBookRequest{
			Title:     "The Mom Test",
			Author:    "Rob Fitzpatrick",
			Promise:   "Learn what customers actually want.",
			StageTags: []string{"Idea", " launch "},
			ThemeTags: []string{"Customer Development", domain.ServicesCanonTag},
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, book.ID)
		assert.False(t, book.CreatedAt.IsZero())

		// Stage tags go through key normalization, theme tags keep
		// underscores so the canon sentinels survive.
		assert.Equal(t, []string{"idea", "launch"}, book.StageTags)
		assert.Equal(t, []string{"customer-development", domain.ServicesCanonTag}, book.ThemeTags)
	})

	t.Run("updates on same title and author", func(t *testing.T) {
		book, created, err := env.catalog.UpsertBook(ctx, &UpsertBookRequest{
			Title:   "  The Mom Test ",
			Author:  "Rob Fitzpatrick",
			Promise: "Updated promise.",
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "Updated promise.", book.Promise)
		assert.Equal(t, "The Mom Test", book.Title)

		count, err := env.catalog.CountBooks(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("rejects missing identity", func(t *testing.T) {
		_, _, err := env.catalog.UpsertBook(ctx, &UpsertBookRequest{Title: "   ", Author: "Somebody"})
		require.Error(t, err)

		var derr *domainerrors.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domainerrors.CodeValidation, derr.Code)
	})
}

func TestCatalogServiceGetBook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ids := env.seedCatalog(t)

	book, err := env.catalog.GetBook(ctx, ids["Funnel Thinking"])
	require.NoError(t, err)
	assert.Equal(t, "B. Marketer", book.Author)

	_, err = env.catalog.GetBook(ctx, "book-missing")
	assert.ErrorIs(t, err, store.ErrBookNotFound)
}

func TestCatalogServiceListBooks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCatalog(t)

	page, err := env.catalog.ListBooks(ctx, store.PaginationParams{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)

	rest, err := env.catalog.ListBooks(ctx, store.PaginationParams{Limit: 3, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, rest.Items, 1)
	assert.False(t, rest.HasMore)
}

func TestCatalogServiceSearchUnavailable(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.Search(context.Background(), search.DefaultSearchParams())
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeUnavailable, derr.Code)
}

func TestTrimAll(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, trimAll([]string{" a ", "", "b", "  "}))
	assert.Nil(t, trimAll([]string{"", "   "}))
	assert.Nil(t, trimAll(nil))
}
