package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/internradar/internal/logger"
	"github.com/jonathan/internradar/internal/ranking"
	"github.com/jonathan/internradar/internal/server/middleware"
	"github.com/jonathan/internradar/internal/types"
	"go.uber.org/zap"
)

// handleGitHubScan fetches the user's GitHub activity and stores it on their profile
func (s *Server) handleGitHubScan(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req types.GitHubScanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validate(&req); err != nil {
		s.handleError(w, r, err)
		return
	}

	summary, err := s.github.FetchProfile(r.Context(), req.Username)
	if err != nil {
		s.logger.Warn("github scan failed",
			zap.String(logger.FieldUserID, userID.String()),
			zap.String(logger.FieldGitHubUser, req.Username),
			zap.Error(err),
		)
		s.handleError(w, r, err)
		return
	}

	user, err := s.users.UpdateGitHubData(r.Context(), userID, req.Username, summary)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logger.Info("github profile scanned",
		append(logger.UserFields(userID.String(), req.Username),
			zap.Int("repositories", len(summary.Repositories)))...,
	)
	s.success(w, http.StatusOK, "GitHub profile scanned successfully", map[string]any{
		"user":        user,
		"github_data": summary,
		"signal":      ranking.NormalizeActivity(summary),
	})
}

// handleGitHubProfile fetches public activity without persisting it
func (s *Server) handleGitHubProfile(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PathValue("username"))

	summary, err := s.github.FetchProfile(r.Context(), username)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.success(w, http.StatusOK, "", map[string]any{
		"github_data": summary,
		"signal":      ranking.NormalizeActivity(summary),
	})
}
