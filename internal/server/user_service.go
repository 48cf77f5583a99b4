package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/internradar/internal/config"
	"github.com/jonathan/internradar/internal/db"
	"github.com/jonathan/internradar/internal/types"
)

// UserService provides account and profile operations
type UserService struct {
	store          UserStore
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// toTypesUser converts db.User to types.User, excluding password hash
func toTypesUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	experience, ok := types.ParseExperienceLevel(u.Experience)
	if !ok {
		experience = types.ExperienceBeginner
	}
	out := &types.User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Skills:     nonNilStrings(u.Skills),
		Interests:  nonNilStrings(u.Interests),
		Experience: experience,
		GitHubData: u.GitHubData,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.GitHubUsername != nil {
		out.GitHubUsername = *u.GitHubUsername
	}
	return out
}

// Register creates a new user with password authentication
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.store.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.store.CreateUser(ctx, strings.TrimSpace(req.Name), email, passwordHash)
	if err != nil {
		// Lost a race with a concurrent signup
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, &ErrEmailAlreadyExists{Email: email}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GetUser(ctx, userID)
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Unknown email and wrong password are indistinguishable to the caller
	if dbUser == nil || !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return toTypesUser(dbUser), nil
}

// GetUser returns the user, or ErrUserNotFound.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	dbUser, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return toTypesUser(dbUser), nil
}

// UpdateProfile applies the supplied fields of req and returns the updated user.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.User, error) {
	update := db.ProfileUpdate{
		Name:           req.Name,
		GitHubUsername: req.GitHubUsername,
	}
	if req.Skills != nil {
		skills := cleanTerms(*req.Skills)
		update.Skills = &skills
	}
	if req.Interests != nil {
		interests := cleanTerms(*req.Interests)
		update.Interests = &interests
	}
	if req.Experience != nil {
		level, ok := types.ParseExperienceLevel(*req.Experience)
		if !ok {
			return nil, &ErrValidation{Field: "experience", Message: "must be beginner, intermediate or advanced"}
		}
		value := string(level)
		update.Experience = &value
	}

	dbUser, err := s.store.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return toTypesUser(dbUser), nil
}

// UpdateGitHubData stores a GitHub activity summary, and optionally the username it came from.
func (s *UserService) UpdateGitHubData(ctx context.Context, userID uuid.UUID, username string, data *types.ActivitySummary) (*types.User, error) {
	dbUser, err := s.store.UpdateGitHubData(ctx, userID, username, data)
	if err != nil {
		return nil, fmt.Errorf("failed to update github data: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return toTypesUser(dbUser), nil
}

// cleanTerms trims entries and drops blanks, keeping order.
func cleanTerms(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
