package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/internradar/internal/config"
	"github.com/jonathan/internradar/internal/github"
	"github.com/jonathan/internradar/internal/logger"
	"github.com/jonathan/internradar/internal/ranking"
	"github.com/jonathan/internradar/internal/server/middleware"
	"github.com/jonathan/internradar/internal/server/ratelimit"
	"go.uber.org/zap"
)

var _ GitHubSource = (*github.Client)(nil)

// Server is the HTTP API server
type Server struct {
	cfg             *config.Config
	store           Store
	github          GitHubSource
	logger          *zap.Logger
	validator       *validator.Validate
	jwtService      *JWTService
	users           *UserService
	recommendations *RecommendationService
	rateLimiter     *ratelimit.Limiter
	handler         http.Handler
	httpServer      *http.Server
}

// New creates a new API server. cfg must satisfy RequireServer.
func New(cfg *config.Config, store Store, gh GitHubSource, log *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	if gh == nil {
		return nil, errors.New("github source is required")
	}
	if err := cfg.RequireServer(); err != nil {
		return nil, err
	}

	scorer, err := ranking.NewScorer(cfg.Recommendations.Weights)
	if err != nil {
		return nil, fmt.Errorf("failed to create scorer: %w", err)
	}

	log = logger.WithFields(log)
	weights := scorer.Weights()
	log.Debug("scoring weights",
		zap.Float64("skills", weights.Skills),
		zap.Float64("interests", weights.Interests),
		zap.Float64("github", weights.GitHub),
		zap.Float64("experience", weights.Experience),
		zap.Float64("total", weights.Total()),
	)
	s := &Server{
		cfg:         cfg,
		store:       store,
		github:      gh,
		logger:      log,
		validator:   newValidator(),
		jwtService:  NewJWTService(&cfg.JWT),
		users:       NewUserService(store, &cfg.Password),
		rateLimiter: ratelimit.NewLimiter(ratelimit.FromSettings(cfg.RateLimit)),
		recommendations: NewRecommendationService(store, scorer,
			cfg.Recommendations.DefaultLimit, cfg.Recommendations.MaxLimit, log),
	}

	s.handler = s.withLogging(s.withCORS(s.withRateLimit(s.routes())))
	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      s.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux.HandleFunc("GET /api/health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", protected(s.handleMe))

	// Profile
	mux.Handle("GET /api/users/profile", protected(s.handleGetProfile))
	mux.Handle("PUT /api/users/profile", protected(s.handleUpdateProfile))
	mux.Handle("PUT /api/users/github-data", protected(s.handleUpdateGitHubData))

	// Internships
	mux.HandleFunc("GET /api/internships", s.handleListInternships)
	mux.HandleFunc("POST /api/internships", s.handleCreateInternship)
	mux.HandleFunc("GET /api/internships/filters/options", s.handleFilterOptions)
	mux.HandleFunc("GET /api/internships/{id}", s.handleGetInternship)
	mux.Handle("GET /api/internships/{id}/score", protected(s.handleScoreInternship))

	// GitHub
	mux.Handle("POST /api/github/scan", protected(s.handleGitHubScan))
	mux.HandleFunc("GET /api/github/profile/{username}", s.handleGitHubProfile)

	// Recommendations
	mux.Handle("GET /api/recommendations", protected(s.handleRecommendations))
	mux.Handle("GET /api/recommendations/history", protected(s.handleRecommendationHistory))

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusNotFound, "Route not found")
	})

	return mux
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	defer s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS allows the configured web client origin, with credentials.
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.cfg.Server.ClientURL
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their per-endpoint budget
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)

		if !allowed {
			s.logger.Warn("rate limit exceeded",
				zap.String(logger.FieldClientID, clientID),
				zap.String("path", r.URL.Path),
				zap.Int("limit", info.Limit),
				zap.Time("reset_at", info.ResetTime),
			)
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// extractClientID uses the IP address from RemoteAddr.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	body := map[string]any{
		"success":   false,
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		body["reset_at"] = info.ResetTime.UTC().Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		body["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.jsonResponse(w, http.StatusTooManyRequests, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "InternRadar API is running",
	})
}
