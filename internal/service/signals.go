package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	domainerrors "github.com/foundershelf/foundershelf-server/internal/errors"
	"github.com/foundershelf/foundershelf-server/internal/id"
	"github.com/foundershelf/foundershelf-server/internal/recommend"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

// SignalService captures the behavioral signal the ranking pipeline scores
// from: direct interactions, lightweight statuses, and imported history.
type SignalService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSignalService creates a new signal service.
func NewSignalService(st *store.Store, logger *slog.Logger) *SignalService {
	return &SignalService{
		store:  st,
		logger: logger,
	}
}

// SetInteraction records a user's reaction to a book. Last write wins; the
// four states are mutually exclusive.
func (s *SignalService) SetInteraction(ctx context.Context, userID, bookID string, state domain.InteractionState) (*domain.Interaction, error) {
	if !state.Valid() {
		return nil, domainerrors.Validationf("unknown interaction state %q", state)
	}

	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, fmt.Errorf("verify book %s: %w", bookID, err)
	}

	interaction, err := s.store.GetInteraction(ctx, userID, bookID)
	if err != nil {
		if !errors.Is(err, store.ErrInteractionNotFound) {
			return nil, fmt.Errorf("load interaction: %w", err)
		}
		interaction = domain.NewInteraction(userID, bookID, state)
	} else {
		interaction.State = state
		interaction.Touch()
	}

	if err := s.store.UpsertInteraction(ctx, interaction); err != nil {
		return nil, fmt.Errorf("save interaction: %w", err)
	}

	s.logger.Info("interaction recorded",
		"user_id", userID, "book_id", bookID, "state", state)

	return interaction, nil
}

// SetStatus records the latest lightweight status for a (user, book) pair.
func (s *SignalService) SetStatus(ctx context.Context, userID, bookID, status string) (*domain.BookStatus, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, domainerrors.Validation("status is required")
	}

	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, fmt.Errorf("verify book %s: %w", bookID, err)
	}

	record := domain.NewBookStatus(userID, bookID, status)
	if err := s.store.UpsertBookStatus(ctx, record); err != nil {
		return nil, fmt.Errorf("save status: %w", err)
	}

	s.logger.Info("status recorded",
		"user_id", userID, "book_id", bookID, "status", status)

	return record, nil
}

// HistoryRow is one already-parsed reading history record submitted for
// import. File parsing is the client's job; the server only stores rows.
type HistoryRow struct {
	Title  string `json:"title" validate:"required,max=300"`
	Author string `json:"author" validate:"required,max=200"`
	Shelf  string `json:"shelf,omitempty" validate:"max=50"`
	Rating int    `json:"rating,omitempty" validate:"gte=0,lte=5"`
}

// ImportSummary reports one history import run.
type ImportSummary struct {
	BatchID   string `json:"batch_id"`
	Total     int    `json:"total"`
	Matched   int    `json:"matched"`   // Rows matched to a catalog book
	Unmatched int    `json:"unmatched"` // Stored but currently inert
}

// ImportHistory stores a batch of reading history rows and reports how many
// matched the catalog. Unmatched rows are kept; a later catalog addition
// picks them up on the next ranking call.
func (s *SignalService) ImportHistory(ctx context.Context, userID string, rows []HistoryRow) (*ImportSummary, error) {
	if len(rows) == 0 {
		return nil, domainerrors.Validation("no history entries supplied")
	}

	batchID := uuid.NewString()
	summary := &ImportSummary{BatchID: batchID, Total: len(rows)}

	entries := make([]domain.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entryID, err := id.Generate("hist")
		if err != nil {
			return nil, fmt.Errorf("generate history id: %w", err)
		}

		entries = append(entries, domain.HistoryEntry{
			ID:      entryID,
			UserID:  userID,
			BatchID: batchID,
			Title:   strings.TrimSpace(row.Title),
			Author:  strings.TrimSpace(row.Author),
			Shelf:   strings.ToLower(strings.TrimSpace(row.Shelf)),
			Rating:  row.Rating,
		})

		if _, err := s.store.GetBookByTitleAuthor(ctx, row.Title, row.Author); err == nil {
			summary.Matched++
		} else if errors.Is(err, store.ErrBookNotFound) {
			summary.Unmatched++
		} else {
			return nil, fmt.Errorf("match history row: %w", err)
		}
	}

	if err := s.store.AppendHistory(ctx, entries); err != nil {
		return nil, fmt.Errorf("store history batch: %w", err)
	}

	s.logger.Info("history imported",
		"user_id", userID,
		"batch_id", batchID,
		"total", summary.Total,
		"matched", summary.Matched,
	)

	return summary, nil
}

// ListHistory returns all of a user's imported history entries.
func (s *SignalService) ListHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	return s.store.ListHistory(ctx, userID)
}

// ClearHistory removes all of a user's imported history.
func (s *SignalService) ClearHistory(ctx context.Context, userID string) error {
	if err := s.store.DeleteHistory(ctx, userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.logger.Info("history cleared", "user_id", userID)
	return nil
}

// SignalStats summarizes how much signal a user has accumulated, for
// diagnosing thin-signal situations.
type SignalStats struct {
	Interactions map[string]int   `json:"interactions"` // Count per state
	HistoryTotal int              `json:"history_total"`
	HistoryMatch int              `json:"history_matched"`
	Statuses     map[string]int   `json:"statuses"` // Count per status value
	Insights     []domain.Insight `json:"insights"`
	HasProfile   bool             `json:"has_profile"`
}

// Stats computes the signal summary for a user.
func (s *SignalService) Stats(ctx context.Context, userID string) (*SignalStats, error) {
	stats := &SignalStats{
		Interactions: make(map[string]int),
		Statuses:     make(map[string]int),
	}

	interactions, err := s.store.ListInteractions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	for _, in := range interactions {
		stats.Interactions[string(in.State)]++
	}

	statuses, err := s.store.ListBookStatuses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	for _, st := range statuses {
		stats.Statuses[st.Status]++
	}

	history, err := s.store.ListHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	stats.HistoryTotal = len(history)
	for _, h := range history {
		if _, err := s.store.GetBookByTitleAuthor(ctx, h.Title, h.Author); err == nil {
			stats.HistoryMatch++
		}
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		stats.HasProfile = true
		builder := recommend.NewInsightBuilder(recommend.DefaultWeights())
		stats.Insights = builder.Build(recommend.ViewProfile(profile))
	} else if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if stats.Insights == nil {
		stats.Insights = []domain.Insight{}
	}

	return stats, nil
}
