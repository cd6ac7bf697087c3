package api

import (
	"net/http"
	"strings"

	"github.com/foundershelf/foundershelf-server/internal/http/response"
	"github.com/foundershelf/foundershelf-server/internal/service"
)

// recommendOptions builds engine options from the query string.
func recommendOptions(r *http.Request) service.RecommendOptions {
	return service.RecommendOptions{
		Limit:    queryInt(r, "limit", 0),
		Debug:    queryBool(r, "debug"),
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
}

// handleRecommendations runs the personalized ranking for the caller. Thin
// signal is not an error: the curated fallback runs transparently and the
// response carries "fallback": true.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	recs, err := s.recommend.Recommend(ctx, userID, recommendOptions(r))
	if err != nil {
		s.logger.Error("Failed to rank recommendations", "error", err, "user_id", userID)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, recs, s.logger)
}

// handlePreview ranks against an ad-hoc profile from the request body.
// Nothing is persisted. Anonymous callers are allowed; when the user header
// is present their interactions and history still apply.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.PreviewRequest
	if err := s.decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	// No requireUser on this route; the header is optional here.
	userID := strings.TrimSpace(r.Header.Get(userIDHeader))

	recs, err := s.recommend.Preview(ctx, userID, &req, recommendOptions(r))
	if err != nil {
		s.logger.Error("Failed to rank preview", "error", err, "user_id", userID)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, recs, s.logger)
}

// handleRecommendationLog returns the caller's recent ranking runs.
func (s *Server) handleRecommendationLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	if s.runLog == nil {
		response.Error(w, http.StatusServiceUnavailable, "Recommendation log not available", s.logger)
		return
	}

	runs, err := s.runLog.Recent(ctx, userID, queryInt(r, "limit", 20))
	if err != nil {
		s.logger.Error("Failed to read recommendation log", "error", err, "user_id", userID)
		response.InternalError(w, "Failed to read recommendation log", s.logger)
		return
	}

	response.Success(w, runs, s.logger)
}
