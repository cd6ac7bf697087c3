package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

func setupImporter(t *testing.T) (*Importer, *store.Store) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return NewImporter(st, nil, slog.New(slog.DiscardHandler)), st
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const seedTwoBooks = `[
	{
		"title": "The Mom Test",
		"author": "Rob Fitzpatrick",
		"promise": "<p>Learn what customers <b>actually</b> want.</p>",
		"stage_tags": ["Idea", "Launch"],
		"theme_tags": ["Customer Development", "services_canon"],
		"categories": ["Customer Research"]
	},
	{
		"title": "Traction",
		"author": "Gabriel Weinberg",
		"functional_tags": ["Marketing"],
		"difficulty": "Intro"
	}
]`

func TestImportFileFreshStore(t *testing.T) {
	im, st := setupImporter(t)
	ctx := context.Background()

	result, err := im.ImportFile(ctx, writeSeed(t, seedTwoBooks))
	require.NoError(t, err)

	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Created)
	assert.Zero(t, result.Updated)
	assert.Zero(t, result.Skipped)

	book, err := st.GetBookByTitleAuthor(ctx, "The Mom Test", "Rob Fitzpatrick")
	require.NoError(t, err)

	// HTML promise sanitized to markdown.
	assert.Equal(t, "Learn what customers **actually** want.", book.Promise)

	// Stage tags normalized to key form, theme tags keep the canon sentinel.
	assert.Equal(t, []string{"idea", "launch"}, book.StageTags)
	assert.Equal(t, []string{"customer-development", domain.ServicesCanonTag}, book.ThemeTags)
	assert.Equal(t, []string{"customer-research"}, book.Categories)

	other, err := st.GetBookByTitleAuthor(ctx, "Traction", "Gabriel Weinberg")
	require.NoError(t, err)
	assert.Equal(t, []string{"marketing"}, other.FunctionalTags)
	assert.Equal(t, "intro", other.Difficulty)
}

func TestImportFileUpsertsExisting(t *testing.T) {
	im, st := setupImporter(t)
	ctx := context.Background()

	_, err := im.ImportFile(ctx, writeSeed(t, seedTwoBooks))
	require.NoError(t, err)

	before, err := st.GetBookByTitleAuthor(ctx, "The Mom Test", "Rob Fitzpatrick")
	require.NoError(t, err)

	updated := `[
		{"title": "The Mom Test", "author": "Rob Fitzpatrick", "promise": "Updated."},
		{"title": "Zero to One", "author": "Peter Thiel"}
	]`
	result, err := im.ImportFile(ctx, writeSeed(t, updated))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Created)

	after, err := st.GetBookByTitleAuthor(ctx, "The Mom Test", "Rob Fitzpatrick")
	require.NoError(t, err)

	// ID survives the update so interactions stay attached.
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.CreatedAt.Unix(), after.CreatedAt.Unix())
	assert.Equal(t, "Updated.", after.Promise)

	count, err := st.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestImportFileSkipsBadRecords(t *testing.T) {
	im, _ := setupImporter(t)

	seed := `[
		{"title": "Good Book", "author": "Real Author"},
		{"title": "", "author": "No Title"},
		{"title": "Good Book", "author": "Real Author"}
	]`
	result, err := im.ImportFile(context.Background(), writeSeed(t, seed))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Skipped, "missing title and in-file duplicate both skip")
}

func TestImportFileErrors(t *testing.T) {
	im, _ := setupImporter(t)
	ctx := context.Background()

	_, err := im.ImportFile(ctx, filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	_, err = im.ImportFile(ctx, writeSeed(t, `{"not": "an array"}`))
	assert.Error(t, err)
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "Just a pitch.", want: "Just a pitch."},
		{name: "whitespace trimmed", input: "  padded  ", want: "padded"},
		{name: "paragraphs flattened", input: "<p>One</p>", want: "One"},
		{name: "bold becomes markdown", input: "<p>Very <strong>bold</strong> claim</p>", want: "Very **bold** claim"},
		{name: "angle brackets without tags pass through", input: "a < b and b > c", want: "a < b and b > c"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeText(tt.input))
		})
	}
}
