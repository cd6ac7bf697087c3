package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/http/response"
	"github.com/foundershelf/foundershelf-server/internal/service"
)

// setInteractionRequest is the body for PUT /books/{bookID}/interaction.
type setInteractionRequest struct {
	State string `json:"state" validate:"required,interaction_state"`
}

// handleSetInteraction records the caller's reaction to a book.
// Last write wins.
func (s *Server) handleSetInteraction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	bookID := chi.URLParam(r, "bookID")

	var req setInteractionRequest
	if err := s.decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	interaction, err := s.signals.SetInteraction(ctx, userID, bookID, domain.InteractionState(req.State))
	if err != nil {
		s.logger.Error("Failed to set interaction",
			"error", err, "user_id", userID, "book_id", bookID)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, interaction, s.logger)
}

// setStatusRequest is the body for PUT /books/{bookID}/status.
type setStatusRequest struct {
	Status string `json:"status" validate:"required,max=50"`
}

// handleSetStatus records a lightweight reading status for a book.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	bookID := chi.URLParam(r, "bookID")

	var req setStatusRequest
	if err := s.decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	status, err := s.signals.SetStatus(ctx, userID, bookID, req.Status)
	if err != nil {
		s.logger.Error("Failed to set status",
			"error", err, "user_id", userID, "book_id", bookID)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, status, s.logger)
}

// importHistoryRequest is the body for POST /history/import. Rows arrive
// already parsed; file parsing is the client's job.
type importHistoryRequest struct {
	Entries []service.HistoryRow `json:"entries" validate:"required,min=1,max=5000,dive"`
}

// handleImportHistory stores a batch of reading history rows.
func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req importHistoryRequest
	if err := s.decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	summary, err := s.signals.ImportHistory(ctx, userID, req.Entries)
	if err != nil {
		s.logger.Error("Failed to import history",
			"error", err, "user_id", userID, "rows", len(req.Entries))
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, summary, s.logger)
}

// handleListHistory returns the caller's imported history entries.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	entries, err := s.signals.ListHistory(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list history", "error", err, "user_id", userID)
		response.InternalError(w, "Failed to retrieve history", s.logger)
		return
	}

	response.Success(w, entries, s.logger)
}

// handleClearHistory removes all of the caller's imported history.
func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	if err := s.signals.ClearHistory(ctx, userID); err != nil {
		s.logger.Error("Failed to clear history", "error", err, "user_id", userID)
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleSignalStats summarizes how much signal the caller has accumulated.
// Useful for diagnosing why results fall back to curation.
func (s *Server) handleSignalStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	stats, err := s.signals.Stats(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to compute signal stats", "error", err, "user_id", userID)
		response.InternalError(w, "Failed to compute signal stats", s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}
