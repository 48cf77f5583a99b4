package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/internradar/internal/db"
	"github.com/jonathan/internradar/internal/logger"
	"github.com/jonathan/internradar/internal/ranking"
	"github.com/jonathan/internradar/internal/types"
	"go.uber.org/zap"
)

// Messages returned alongside empty recommendation lists
const (
	msgProfileIncomplete = "Please complete your profile to get personalized recommendations"
	msgNoInternships     = "No internships available at the moment"
)

// RecommendationRequest holds the query options of a recommendation run.
type RecommendationRequest struct {
	Limit    int
	MinScore float64
	Diverse  bool
}

// RecommendationResult is the outcome of a recommendation run.
type RecommendationResult struct {
	Recommendations []types.Recommendation `json:"recommendations"`
	ProfileComplete bool                   `json:"profile_complete"`
	TotalFound      int                    `json:"total_found"`
	Message         string                 `json:"-"`
}

// RecommendationService ranks active listings for a user and records each run.
type RecommendationService struct {
	users        UserStore
	internships  InternshipStore
	logs         RecommendationLogStore
	scorer       *ranking.Scorer
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
}

// NewRecommendationService creates a RecommendationService. Limits outside
// sensible ranges fall back to ranking.DefaultLimit.
func NewRecommendationService(store Store, scorer *ranking.Scorer, defaultLimit, maxLimit int, log *zap.Logger) *RecommendationService {
	if defaultLimit <= 0 {
		defaultLimit = ranking.DefaultLimit
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &RecommendationService{
		users:        store,
		internships:  store,
		logs:         store,
		scorer:       scorer,
		logger:       logger.WithFields(log),
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (s *RecommendationService) limit(requested int) int {
	switch {
	case requested <= 0:
		return s.defaultLimit
	case requested > s.maxLimit:
		return s.maxLimit
	default:
		return requested
	}
}

// Recommend ranks every active listing against the user's stored profile.
func (s *RecommendationService) Recommend(ctx context.Context, userID uuid.UUID, req RecommendationRequest) (*RecommendationResult, error) {
	if !(req.MinScore >= 0 && req.MinScore <= 100) {
		return nil, &ErrValidation{Field: "min_score", Message: "must be between 0 and 100"}
	}

	dbUser, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	user := toTypesUser(dbUser)
	log := s.logger.With(logger.UserFields(user.ID.String(), user.GitHubUsername)...)

	if len(cleanTerms(user.Skills)) == 0 {
		return &RecommendationResult{
			Recommendations: []types.Recommendation{},
			ProfileComplete: false,
			Message:         msgProfileIncomplete,
		}, nil
	}

	listings, err := s.internships.ListActiveInternships(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}
	if len(listings) == 0 {
		return &RecommendationResult{
			Recommendations: []types.Recommendation{},
			ProfileComplete: true,
			Message:         msgNoInternships,
		}, nil
	}

	opts := ranking.RankOptions{
		Limit:                 s.limit(req.Limit),
		MinScore:              req.MinScore,
		IncludeExternalSignal: true,
	}
	rank := s.scorer.Rank
	if req.Diverse {
		rank = s.scorer.RankDiverse
	}
	recs, err := rank(user.Profile(), listings, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to rank internships: %w", err)
	}

	s.record(ctx, log, user.ID, recs)

	log.Info("recommendations generated",
		zap.Int("candidates", len(listings)),
		zap.Int("returned", len(recs)),
		zap.Int("limit", opts.Limit),
		zap.Float64("min_score", opts.MinScore),
		zap.Bool("diverse", req.Diverse),
	)

	return &RecommendationResult{
		Recommendations: recs,
		ProfileComplete: true,
		TotalFound:      len(recs),
	}, nil
}

// record appends the run to the user's history. A failed write does not fail the run.
func (s *RecommendationService) record(ctx context.Context, log *zap.Logger, userID uuid.UUID, recs []types.Recommendation) {
	entries := make([]types.RecommendationLogEntry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, types.RecommendationLogEntry{
			InternshipID: r.Internship.ID.String(),
			Score:        r.Score,
			Explanation:  r.Explanation,
		})
	}

	if _, err := s.logs.CreateRecommendationLog(ctx, userID, entries); err != nil {
		log.Warn("failed to record recommendation log", zap.Error(err))
	}
}

// ScoreListing scores one listing for the user, for the listing details page.
// Profiles without skills or interests are rejected with ErrProfileIncomplete.
func (s *RecommendationService) ScoreListing(ctx context.Context, userID, internshipID uuid.UUID) (*types.ScoreResult, error) {
	dbUser, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}

	listing, err := s.internships.GetInternship(ctx, internshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get internship: %w", err)
	}
	if listing == nil {
		return nil, &ErrInternshipNotFound{ID: internshipID.String()}
	}

	user := toTypesUser(dbUser)
	profile := user.Profile()
	if !profile.HasSignal() {
		return nil, &ErrProfileIncomplete{}
	}
	return s.scorer.Score(profile, listing, ranking.NormalizeActivity(user.GitHubData))
}

// History returns one page of the user's recommendation runs, newest first.
func (s *RecommendationService) History(ctx context.Context, userID uuid.UUID, page, limit int) ([]types.RecommendationLog, types.Pagination, error) {
	page, limit = clampPage(page, limit, db.DefaultHistoryPageSize, db.MaxHistoryPageSize)

	logs, total, err := s.logs.ListRecommendationLogs(ctx, userID, page, limit)
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to list recommendation history: %w", err)
	}
	return logs, types.NewPagination(total, page, limit), nil
}

// clampPage mirrors the bounds the store applies so pagination metadata matches the rows returned.
func clampPage(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
