// Package catalog loads book seed files into the store and search index.
// Seeds are JSON arrays of book records; the importer sanitizes rich-text
// fields, normalizes tags into the forms the scoring pipeline matches on,
// and upserts by (title, author) so re-imports are safe.
package catalog

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/id"
	"github.com/foundershelf/foundershelf-server/internal/normalize"
	"github.com/foundershelf/foundershelf-server/internal/search"
	"github.com/foundershelf/foundershelf-server/internal/store"
	"github.com/google/uuid"
)

// SeedBook is one record in a catalog seed file. IDs and timestamps are
// assigned at import time, never taken from the file.
type SeedBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`

	// Promise is the pitch shown to readers; Description is a fallback used
	// when the seed carries only a publisher blurb. Both may arrive as HTML.
	Promise     string `json:"promise,omitempty"`
	Description string `json:"description,omitempty"`

	Frameworks   []string `json:"frameworks,omitempty"`
	AntiPatterns []string `json:"anti_patterns,omitempty"`
	Outcomes     []string `json:"outcomes,omitempty"`
	Categories   []string `json:"categories,omitempty"`

	StageTags      []string `json:"stage_tags,omitempty"`
	FunctionalTags []string `json:"functional_tags,omitempty"`
	ThemeTags      []string `json:"theme_tags,omitempty"`

	Difficulty   string  `json:"difficulty,omitempty"`
	PageCount    int     `json:"page_count,omitempty"`
	AvgRating    float64 `json:"avg_rating,omitempty"`
	RatingsCount int     `json:"ratings_count,omitempty"`
}

// ImportResult summarizes one import run.
type ImportResult struct {
	BatchID  string
	Total    int
	Created  int
	Updated  int
	Skipped  int
	Duration time.Duration
}

// Importer loads catalog seed files. The search index is optional; when
// present, imported books are batch-indexed synchronously so a short-lived
// seeding process doesn't exit before indexing completes.
type Importer struct {
	store  *store.Store
	search *search.SearchIndex
	logger *slog.Logger
}

// NewImporter creates an importer. search may be nil.
func NewImporter(st *store.Store, idx *search.SearchIndex, logger *slog.Logger) *Importer {
	return &Importer{
		store:  st,
		search: idx,
		logger: logger,
	}
}

// ImportFile reads a seed file and upserts its records into the catalog.
// An empty store takes the fast path (batched writes, no per-record lookups);
// otherwise records are matched by (title, author) and updated in place.
func (im *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	records, err := parseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	result := &ImportResult{
		BatchID: uuid.NewString(),
		Total:   len(records),
	}

	im.logger.LogAttrs(ctx, slog.LevelInfo, "catalog import started",
		slog.String("batch_id", result.BatchID),
		slog.String("path", path),
		slog.Int("records", len(records)),
	)

	existing, err := im.store.CountBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	var imported []domain.Book
	if existing == 0 {
		imported, err = im.seedFresh(ctx, records, result)
	} else {
		imported, err = im.upsertAll(ctx, records, result)
	}
	if err != nil {
		return nil, err
	}

	if im.search != nil && len(imported) > 0 {
		if err := im.search.IndexBooks(ctx, imported); err != nil {
			return nil, fmt.Errorf("index imported books: %w", err)
		}
	}

	result.Duration = time.Since(start)
	im.logger.LogAttrs(ctx, slog.LevelInfo, "catalog import finished",
		slog.String("batch_id", result.BatchID),
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Int("skipped", result.Skipped),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

func parseSeed(data []byte) ([]SeedBook, error) {
	var records []SeedBook
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// seedFresh bulk-loads records into an empty catalog with the store's batch
// writer. Duplicate (title, author) pairs within the file keep the first
// occurrence.
func (im *Importer) seedFresh(ctx context.Context, records []SeedBook, result *ImportResult) ([]domain.Book, error) {
	bw := im.store.NewBatchWriter(500)
	defer bw.Cancel()

	seen := make(map[string]bool, len(records))
	imported := make([]domain.Book, 0, len(records))

	for i := range records {
		book, err := im.buildBook(&records[i])
		if err != nil {
			im.logger.Warn("skipping seed record", "index", i, "error", err)
			result.Skipped++
			continue
		}

		key := normalize.TitleAuthorKey(book.Title, book.Author)
		if seen[key] {
			im.logger.Warn("skipping duplicate seed record", "title", book.Title, "author", book.Author)
			result.Skipped++
			continue
		}
		seen[key] = true

		if err := bw.CreateBook(ctx, book); err != nil {
			return nil, fmt.Errorf("batch create %q: %w", book.Title, err)
		}
		imported = append(imported, *book)
		result.Created++
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flush seed batch: %w", err)
	}
	return imported, nil
}

// upsertAll merges records into an existing catalog. A record matching a
// stored book by (title, author) updates it in place, preserving the book's
// ID so interactions and statuses stay attached.
func (im *Importer) upsertAll(ctx context.Context, records []SeedBook, result *ImportResult) ([]domain.Book, error) {
	imported := make([]domain.Book, 0, len(records))

	for i := range records {
		book, err := im.buildBook(&records[i])
		if err != nil {
			im.logger.Warn("skipping seed record", "index", i, "error", err)
			result.Skipped++
			continue
		}

		current, err := im.store.GetBookByTitleAuthor(ctx, book.Title, book.Author)
		switch {
		case err == nil:
			book.ID = current.ID
			book.CreatedAt = current.CreatedAt
			if err := im.store.UpdateBook(ctx, book); err != nil {
				return nil, fmt.Errorf("update %q: %w", book.Title, err)
			}
			result.Updated++
		case errors.Is(err, store.ErrBookNotFound):
			if err := im.store.CreateBook(ctx, book); err != nil {
				return nil, fmt.Errorf("create %q: %w", book.Title, err)
			}
			result.Created++
		default:
			return nil, fmt.Errorf("lookup %q: %w", book.Title, err)
		}

		imported = append(imported, *book)
	}

	return imported, nil
}

// buildBook converts a seed record to a catalog book: sanitized text,
// normalized tags, a fresh ID.
func (im *Importer) buildBook(rec *SeedBook) (*domain.Book, error) {
	title := strings.TrimSpace(rec.Title)
	author := strings.TrimSpace(rec.Author)
	if title == "" || author == "" {
		return nil, errors.New("record missing title or author")
	}

	promise := sanitizeText(rec.Promise)
	if promise == "" {
		promise = sanitizeText(rec.Description)
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book id: %w", err)
	}

	book := &domain.Book{
		ID:      bookID,
		Title:   title,
		Author:  author,
		Promise: promise,

		Frameworks:   trimAll(rec.Frameworks),
		AntiPatterns: trimAll(rec.AntiPatterns),
		Outcomes:     trimAll(rec.Outcomes),
		Categories:   normalizeAll(rec.Categories, normalize.Slug),

		// Stage and functional tags take the insight-key form the scorer
		// matches on; theme tags keep underscores so canon sentinels survive.
		StageTags:      normalizeAll(rec.StageTags, normalize.Key),
		FunctionalTags: normalizeAll(rec.FunctionalTags, normalize.Key),
		ThemeTags:      normalizeAll(rec.ThemeTags, normalize.Theme),

		Difficulty:   strings.ToLower(strings.TrimSpace(rec.Difficulty)),
		PageCount:    rec.PageCount,
		AvgRating:    rec.AvgRating,
		RatingsCount: rec.RatingsCount,
	}
	book.InitTimestamps()

	return book, nil
}

// trimAll trims entries and drops empties, preserving order. Frameworks and
// outcomes stay free text: the scorer substring-matches them against profile
// fields, so slugging would break the match.
func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeAll applies fn to each entry, dropping empties and duplicates
// while preserving first-seen order.
func normalizeAll(values []string, fn func(string) string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		n := fn(v)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
