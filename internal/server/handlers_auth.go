package server

import (
	"net/http"

	"github.com/jonathan/internradar/internal/server/middleware"
	"github.com/jonathan/internradar/internal/types"
	"go.uber.org/zap"
)

// handleSignup registers a user and returns a session token
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(&req); err != nil {
		s.handleError(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	s.success(w, http.StatusCreated, "User registered successfully", types.LoginResponse{User: user, Token: token})
}

// handleLogin authenticates credentials and returns a session token
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(&req); err != nil {
		s.handleError(w, r, err)
		return
	}

	user, err := s.users.Login(r.Context(), &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.success(w, http.StatusOK, "Login successful", types.LoginResponse{User: user, Token: token})
}

// handleMe returns the authenticated user
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.writeCurrentUser(w, r)
}

func (s *Server) writeCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	user, err := s.users.GetUser(r.Context(), userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.success(w, http.StatusOK, "", map[string]any{"user": user})
}
