package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/internradar/internal/db"
	"github.com/jonathan/internradar/internal/types"
)

// UserStore persists accounts and profiles.
type UserStore interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update db.ProfileUpdate) (*db.User, error)
	UpdateGitHubData(ctx context.Context, id uuid.UUID, username string, data *types.ActivitySummary) (*db.User, error)
}

// InternshipStore persists listings.
type InternshipStore interface {
	CreateInternship(ctx context.Context, req *types.CreateInternshipRequest) (*types.InternshipListing, error)
	GetInternship(ctx context.Context, id uuid.UUID) (*types.InternshipListing, error)
	ListInternships(ctx context.Context, filters types.InternshipFilters) ([]types.InternshipListing, int, error)
	ListActiveInternships(ctx context.Context) ([]types.InternshipListing, error)
	InternshipFilterOptions(ctx context.Context) (*types.FilterOptions, error)
}

// RecommendationLogStore keeps the per-user history of recommendation runs.
type RecommendationLogStore interface {
	CreateRecommendationLog(ctx context.Context, userID uuid.UUID, entries []types.RecommendationLogEntry) (uuid.UUID, error)
	ListRecommendationLogs(ctx context.Context, userID uuid.UUID, page, limit int) ([]types.RecommendationLog, int, error)
}

// Store is everything the API needs from persistence. *db.DB satisfies it.
type Store interface {
	UserStore
	InternshipStore
	RecommendationLogStore
}

// GitHubSource fetches public GitHub activity for a username.
type GitHubSource interface {
	FetchProfile(ctx context.Context, username string) (*types.ActivitySummary, error)
}

var _ Store = (*db.DB)(nil)
