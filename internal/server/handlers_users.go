package server

import (
	"net/http"

	"github.com/jonathan/internradar/internal/server/middleware"
	"github.com/jonathan/internradar/internal/types"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.writeCurrentUser(w, r)
}

// handleUpdateProfile changes only the fields present in the body
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req types.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(&req); err != nil {
		s.handleError(w, r, err)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.success(w, http.StatusOK, "Profile updated successfully", map[string]any{"user": user})
}

// handleUpdateGitHubData replaces the stored GitHub summary with one supplied by the client
func (s *Server) handleUpdateGitHubData(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req types.UpdateGitHubDataRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if req.GitHubData == nil {
		s.handleError(w, r, &ErrValidation{Field: "github_data", Message: "is required"})
		return
	}

	user, err := s.users.UpdateGitHubData(r.Context(), userID, req.GitHubData.Username, req.GitHubData)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.success(w, http.StatusOK, "GitHub data updated successfully", map[string]any{"user": user})
}
