package api

import (
	"errors"
	"net/http"

	"github.com/foundershelf/foundershelf-server/internal/http/response"
	"github.com/foundershelf/foundershelf-server/internal/service"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

// handleGetProfile returns the caller's profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			response.NotFound(w, "Profile not found", s.logger)
			return
		}
		s.logger.Error("Failed to get profile", "error", err, "user_id", userID)
		response.InternalError(w, "Failed to retrieve profile", s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// handleUpdateProfile replaces the caller's profile, creating it on first save.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req service.UpdateProfileRequest
	if err := s.decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	profile, err := s.profiles.UpdateProfile(ctx, userID, &req)
	if err != nil {
		s.logger.Error("Failed to update profile", "error", err, "user_id", userID)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// handleDeleteProfile removes the caller's profile.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	if err := s.profiles.DeleteProfile(ctx, userID); err != nil {
		s.logger.Error("Failed to delete profile", "error", err, "user_id", userID)
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
