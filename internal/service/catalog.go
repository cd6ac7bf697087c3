// Package service contains the application services that sit between the
// HTTP layer and the store: catalog management, profiles, signal capture,
// and recommendation orchestration.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	domainerrors "github.com/foundershelf/foundershelf-server/internal/errors"
	"github.com/foundershelf/foundershelf-server/internal/id"
	"github.com/foundershelf/foundershelf-server/internal/normalize"
	"github.com/foundershelf/foundershelf-server/internal/search"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

// CatalogService provides read and write access to the book catalog.
type CatalogService struct {
	store  *store.Store
	search *search.SearchIndex
	logger *slog.Logger
}

// NewCatalogService creates a catalog service. search may be nil; the
// search endpoints then report unavailable.
func NewCatalogService(st *store.Store, idx *search.SearchIndex, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  st,
		search: idx,
		logger: logger,
	}
}

// ListBooks returns one page of the catalog.
func (s *CatalogService) ListBooks(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Book], error) {
	return s.store.ListBooks(ctx, params)
}

// GetBook returns a single book by ID.
func (s *CatalogService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", bookID, err)
	}
	return book, nil
}

// CountBooks returns the catalog size.
func (s *CatalogService) CountBooks(ctx context.Context) (int, error) {
	return s.store.CountBooks(ctx)
}

// UpsertBookRequest is a single catalog record submitted through the API.
// Tags arrive free-form and are normalized into the forms the scoring
// pipeline matches on.
type UpsertBookRequest struct {
	Title  string `json:"title" validate:"required,max=300"`
	Author string `json:"author" validate:"required,max=200"`

	Promise string `json:"promise,omitempty" validate:"max=2000"`

	Frameworks   []string `json:"frameworks,omitempty"`
	AntiPatterns []string `json:"anti_patterns,omitempty"`
	Outcomes     []string `json:"outcomes,omitempty"`
	Categories   []string `json:"categories,omitempty"`

	StageTags      []string `json:"stage_tags,omitempty"`
	FunctionalTags []string `json:"functional_tags,omitempty"`
	ThemeTags      []string `json:"theme_tags,omitempty"`

	Difficulty   string  `json:"difficulty,omitempty"`
	PageCount    int     `json:"page_count,omitempty" validate:"gte=0"`
	AvgRating    float64 `json:"avg_rating,omitempty" validate:"gte=0,lte=5"`
	RatingsCount int     `json:"ratings_count,omitempty" validate:"gte=0"`
}

// UpsertBook creates or updates one catalog record, matching existing books
// by (title, author). Returns the stored book and whether it was created.
func (s *CatalogService) UpsertBook(ctx context.Context, req *UpsertBookRequest) (*domain.Book, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	title := strings.TrimSpace(req.Title)
	author := strings.TrimSpace(req.Author)
	if title == "" || author == "" {
		return nil, false, domainerrors.Validation("title and author are required")
	}

	existing, err := s.store.GetBookByTitleAuthor(ctx, title, author)
	if err != nil && !errors.Is(err, store.ErrBookNotFound) {
		return nil, false, fmt.Errorf("lookup book by title/author: %w", err)
	}

	if existing != nil {
		s.applyRequest(existing, req)
		existing.Touch()
		if err := s.store.UpdateBook(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("update book %s: %w", existing.ID, err)
		}
		s.logger.Info("book updated", "book_id", existing.ID, "title", existing.Title)
		return existing, false, nil
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, false, fmt.Errorf("generate book id: %w", err)
	}

	book := &domain.Book{ID: bookID, Title: title, Author: author}
	s.applyRequest(book, req)
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, false, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created", "book_id", book.ID, "title", book.Title)
	return book, true, nil
}

// applyRequest copies request fields onto a book, normalizing the tag sets
// used by scoring. Identity fields (ID, timestamps) are untouched.
func (s *CatalogService) applyRequest(book *domain.Book, req *UpsertBookRequest) {
	book.Title = strings.TrimSpace(req.Title)
	book.Author = strings.TrimSpace(req.Author)
	book.Promise = strings.TrimSpace(req.Promise)

	book.Frameworks = trimAll(req.Frameworks)
	book.AntiPatterns = trimAll(req.AntiPatterns)
	book.Outcomes = trimAll(req.Outcomes)
	book.Categories = trimAll(req.Categories)

	book.StageTags = normalizeTags(req.StageTags, normalize.Key)
	book.FunctionalTags = normalizeTags(req.FunctionalTags, normalize.Key)
	book.ThemeTags = normalizeTags(req.ThemeTags, normalize.Theme)

	book.Difficulty = normalize.Key(req.Difficulty)
	book.PageCount = req.PageCount
	book.AvgRating = req.AvgRating
	book.RatingsCount = req.RatingsCount
}

// Search runs a full-text query over the catalog.
func (s *CatalogService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	if s.search == nil {
		return nil, domainerrors.Unavailable("search index not available")
	}
	return s.search.Search(ctx, params)
}

// trimAll trims whitespace and drops empty entries, preserving order.
func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeTags applies a normalizer and drops entries that normalize away.
func normalizeTags(values []string, fn func(string) string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := fn(v); n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
