package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foundershelf/foundershelf-server/internal/http/response"
	"github.com/foundershelf/foundershelf-server/internal/search"
	"github.com/foundershelf/foundershelf-server/internal/service"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

// handleListBooks returns a paginated list of catalog books.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := parsePaginationParams(r)

	books, err := s.catalog.ListBooks(ctx, params)
	if err != nil {
		s.logger.Error("Failed to list books", "error", err)
		response.InternalError(w, "Failed to retrieve books", s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleGetBook returns a single book by ID.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookID := chi.URLParam(r, "bookID")

	book, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			response.NotFound(w, "Book not found", s.logger)
			return
		}
		s.logger.Error("Failed to get book", "error", err, "book_id", bookID)
		response.InternalError(w, "Failed to retrieve book", s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleUpsertBook creates or updates one catalog record, matched by
// (title, author).
func (s *Server) handleUpsertBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.UpsertBookRequest
	if err := s.decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, created, err := s.catalog.UpsertBook(ctx, &req)
	if err != nil {
		s.logger.Error("Failed to upsert book", "error", err, "title", req.Title)
		response.HandleError(w, err, s.logger)
		return
	}

	if created {
		response.Created(w, book, s.logger)
		return
	}
	response.Success(w, book, s.logger)
}

// handleSearch runs a full-text query over the catalog.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := search.DefaultSearchParams()
	params.Query = r.URL.Query().Get("q")
	params.Category = r.URL.Query().Get("category")
	params.Difficulty = r.URL.Query().Get("difficulty")
	if sort := r.URL.Query().Get("sort"); sort != "" {
		params.SortBy = sort
	}
	if order := r.URL.Query().Get("order"); order != "" {
		params.SortOrder = order
	}
	if limit := queryInt(r, "limit", 0); limit > 0 {
		params.Limit = limit
	}

	result, err := s.catalog.Search(ctx, params)
	if err != nil {
		s.logger.Error("Search failed", "error", err, "query", params.Query)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
