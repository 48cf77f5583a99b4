package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/internradar/internal/db"
	"github.com/jonathan/internradar/internal/listing"
	"github.com/jonathan/internradar/internal/logger"
	"github.com/jonathan/internradar/internal/server/middleware"
	"github.com/jonathan/internradar/internal/types"
	"go.uber.org/zap"
)

// handleListInternships returns one page of active listings matching the query filters
func (s *Server) handleListInternships(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", db.DefaultInternshipPageSize)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, limit = clampPage(page, limit, db.DefaultInternshipPageSize, db.MaxInternshipPageSize)

	q := r.URL.Query()
	filters := types.InternshipFilters{
		Search:    strings.TrimSpace(q.Get("search")),
		Tags:      queryList(r, "tags"),
		TechStack: queryList(r, "tech_stack"),
		Location:  strings.TrimSpace(q.Get("location")),
		Page:      page,
		Limit:     limit,
	}

	listings, total, err := s.store.ListInternships(r.Context(), filters)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.success(w, http.StatusOK, "", map[string]any{
		"internships": listings,
		"pagination":  types.NewPagination(total, page, limit),
	})
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.store.InternshipFilterOptions(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.success(w, http.StatusOK, "", opts)
}

func (s *Server) handleGetInternship(w http.ResponseWriter, r *http.Request) {
	id, ok := s.internshipID(w, r)
	if !ok {
		return
	}

	l, err := s.store.GetInternship(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if l == nil {
		s.handleError(w, r, &ErrInternshipNotFound{ID: id.String()})
		return
	}

	s.success(w, http.StatusOK, "", map[string]any{"internship": l})
}

// handleCreateInternship publishes a listing; HTML descriptions are reduced to plain text
func (s *Server) handleCreateInternship(w http.ResponseWriter, r *http.Request) {
	var req types.CreateInternshipRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := listing.Normalize(&req); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "description", Message: err.Error()})
		return
	}
	if err := s.validate(&req); err != nil {
		s.handleError(w, r, err)
		return
	}

	l, err := s.store.CreateInternship(r.Context(), &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logger.Info("internship created",
		zap.String(logger.FieldInternshipID, l.ID.String()),
		zap.String("company", l.Company),
	)
	s.success(w, http.StatusCreated, "Internship created successfully", map[string]any{"internship": l})
}

// handleScoreInternship scores one listing for the current user
func (s *Server) handleScoreInternship(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	id, ok := s.internshipID(w, r)
	if !ok {
		return
	}

	result, err := s.recommendations.ScoreListing(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.success(w, http.StatusOK, "", result)
}

// internshipID parses the {id} path value; malformed IDs cannot exist and yield 404.
func (s *Server) internshipID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		s.handleError(w, r, &ErrInternshipNotFound{ID: raw})
		return uuid.Nil, false
	}
	return id, true
}
