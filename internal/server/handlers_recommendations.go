package server

import (
	"net/http"

	"github.com/jonathan/internradar/internal/db"
	"github.com/jonathan/internradar/internal/server/middleware"
)

// handleRecommendations ranks active listings for the current user
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req RecommendationRequest
	if req.Limit, err = queryInt(r, "limit", 0); err != nil {
		s.handleError(w, r, err)
		return
	}
	if req.MinScore, err = queryFloat(r, "min_score", 0); err != nil {
		s.handleError(w, r, err)
		return
	}
	if req.Diverse, err = queryBool(r, "diverse"); err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := s.recommendations.Recommend(r.Context(), userID, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.success(w, http.StatusOK, result.Message, result)
}

func (s *Server) handleRecommendationHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", db.DefaultHistoryPageSize)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	logs, pagination, err := s.recommendations.History(r.Context(), userID, page, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.success(w, http.StatusOK, "", map[string]any{
		"logs":       logs,
		"pagination": pagination,
	})
}
