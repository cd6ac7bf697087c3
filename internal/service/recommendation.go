package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/recommend"
	"github.com/foundershelf/foundershelf-server/internal/reclog"
	"github.com/foundershelf/foundershelf-server/internal/search"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

// RecommendOptions control one recommendation request.
type RecommendOptions struct {
	Limit int
	Debug bool

	// Query and Category narrow the candidate pool through the search index
	// before the pipeline runs. Empty means the full catalog.
	Query    string
	Category string
}

// RecommendedBook is one ranked result joined with the catalog fields a
// client needs to render it.
type RecommendedBook struct {
	domain.RankedResult
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Recommendations is the assembled response for one ranking call.
type Recommendations struct {
	Items    []RecommendedBook `json:"items"`
	Mode     string            `json:"mode"` // personalized | fallback | preview
	Fallback bool              `json:"fallback"`
}

// RecommendationService assembles the immutable snapshot the ranking engine
// consumes, runs the pipeline, and handles the fallback path. The engine
// itself stays pure; everything stateful lives here.
type RecommendationService struct {
	store        *store.Store
	search       *search.SearchIndex
	engine       *recommend.Engine
	runLog       *reclog.Store // nil disables run logging
	defaultLimit int
	logger       *slog.Logger
}

// NewRecommendationService creates a recommendation service. search and
// runLog may be nil.
func NewRecommendationService(st *store.Store, idx *search.SearchIndex, engine *recommend.Engine, runLog *reclog.Store, defaultLimit int, logger *slog.Logger) *RecommendationService {
	if defaultLimit <= 0 {
		defaultLimit = recommend.DefaultLimit
	}
	return &RecommendationService{
		store:        st,
		search:       idx,
		engine:       engine,
		runLog:       runLog,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Recommend runs the personalized pipeline for a user. When the user's
// signal cannot support a personalized ranking, the curated fallback runs
// transparently and the response is marked as such.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, opts RecommendOptions) (*Recommendations, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	snap, err := s.loadSnapshot(ctx, userID, opts)
	if err != nil {
		return nil, err
	}

	engineOpts := recommend.Options{Limit: limit, Debug: opts.Debug}

	result, err := s.engine.Rank(snap, engineOpts)
	mode := reclog.ModePersonalized
	fallback := false

	if err != nil {
		if !errors.Is(err, recommend.ErrInsufficientSignal) {
			return nil, fmt.Errorf("rank: %w", err)
		}

		// Control signal, not an application error: run the curated path
		// against whatever profile hints exist.
		hints := recommend.CurationHints{}
		if snap.Profile != nil {
			hints.Stage = snap.Profile.Stage()
			hints.Model = snap.Profile.BusinessModel()
		}
		result = s.engine.RankFallback(snap, hints, engineOpts)
		mode = reclog.ModeFallback
		fallback = true

		s.logger.Info("personalized ranking fell back to curation",
			"user_id", userID,
			"stage_hint", hints.Stage,
			"model_hint", hints.Model,
		)
	}

	resp, err := s.assemble(ctx, result.Results, mode, fallback)
	if err != nil {
		return nil, err
	}

	if s.runLog != nil {
		s.runLog.RecordResults(ctx, userID, mode, limit, result.Results, time.Since(started))
	}

	return resp, nil
}

// PreviewRequest is an ad-hoc profile supplied in a request body. Nothing
// is persisted; the pipeline runs with this view in place of a stored
// profile while the caller's interactions and history still apply.
type PreviewRequest struct {
	Stage            string   `json:"stage,omitempty" validate:"stage"`
	BusinessModel    string   `json:"business_model,omitempty" validate:"max=100"`
	BiggestChallenge string   `json:"biggest_challenge,omitempty" validate:"max=200"`
	FocusAreas       []string `json:"focus_areas,omitempty" validate:"max=10,dive,max=100"`
	RevenueRange     string   `json:"revenue_range,omitempty" validate:"omitempty,oneof=pre-revenue under-1k 1k-10k 10k-50k 50k-plus"`
	Vision           string   `json:"vision,omitempty" validate:"max=2000"`
}

// Preview ranks with an ad-hoc profile. userID may be empty for a fully
// anonymous preview; when present, the user's behavioral signal is included.
func (s *RecommendationService) Preview(ctx context.Context, userID string, req *PreviewRequest, opts RecommendOptions) (*Recommendations, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	snap, err := s.loadSnapshot(ctx, userID, opts)
	if err != nil {
		return nil, err
	}

	snap.Profile = recommend.AdHocProfile{
		BusinessStage:    req.Stage,
		Model:            req.BusinessModel,
		BiggestChallenge: req.BiggestChallenge,
		Areas:            req.FocusAreas,
		Revenue:          req.RevenueRange,
		VisionText:       req.Vision,
	}

	engineOpts := recommend.Options{Limit: limit, Debug: opts.Debug}

	result, err := s.engine.Rank(snap, engineOpts)
	if err != nil {
		if !errors.Is(err, recommend.ErrInsufficientSignal) {
			return nil, fmt.Errorf("rank preview: %w", err)
		}
		hints := recommend.CurationHints{Stage: req.Stage, Model: req.BusinessModel}
		result = s.engine.RankFallback(snap, hints, engineOpts)
	}

	resp, err := s.assemble(ctx, result.Results, reclog.ModePreview, false)
	if err != nil {
		return nil, err
	}

	if s.runLog != nil && userID != "" {
		s.runLog.RecordResults(ctx, userID, reclog.ModePreview, limit, result.Results, time.Since(started))
	}

	return resp, nil
}

// loadSnapshot assembles the immutable input bundle in one batch. Missing
// profile, statuses, and history degrade to empty signal, never errors.
func (s *RecommendationService) loadSnapshot(ctx context.Context, userID string, opts RecommendOptions) (*recommend.Snapshot, error) {
	books, err := s.store.ListAllBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// Optional candidate pre-filter through the search index. Scoring cost
	// is linear in catalog size; narrowing happens here, not in the engine.
	if (opts.Query != "" || opts.Category != "") && s.search != nil {
		keep, err := s.search.FilterIDs(ctx, opts.Query, opts.Category, len(books))
		if err != nil {
			return nil, fmt.Errorf("filter candidates: %w", err)
		}
		filtered := books[:0]
		for _, b := range books {
			if keep[b.ID] {
				filtered = append(filtered, b)
			}
		}
		books = filtered
	}

	snap := &recommend.Snapshot{Books: books}
	if userID == "" {
		return snap, nil
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		snap.Profile = recommend.ViewProfile(profile)
	} else if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if snap.Interactions, err = s.store.ListInteractions(ctx, userID); err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}
	if snap.History, err = s.store.ListHistory(ctx, userID); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if snap.Statuses, err = s.store.ListBookStatuses(ctx, userID); err != nil {
		return nil, fmt.Errorf("load statuses: %w", err)
	}

	return snap, nil
}

// assemble joins ranked results with their catalog records.
func (s *RecommendationService) assemble(ctx context.Context, results []domain.RankedResult, mode string, fallback bool) (*Recommendations, error) {
	items := make([]RecommendedBook, 0, len(results))
	for _, r := range results {
		book, err := s.store.GetBook(ctx, r.BookID)
		if err != nil {
			// The snapshot is immutable but the store is not; a book deleted
			// mid-request is dropped from the response, not an error.
			s.logger.Warn("ranked book vanished from catalog", "book_id", r.BookID, "error", err)
			continue
		}
		items = append(items, RecommendedBook{
			RankedResult: r,
			Title:        book.Title,
			Author:       book.Author,
		})
	}

	return &Recommendations{
		Items:    items,
		Mode:     mode,
		Fallback: fallback,
	}, nil
}
