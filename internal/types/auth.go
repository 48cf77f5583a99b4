package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateUserRequest represents the signup request.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a user for API responses (avoids import cycle with db package).
type User struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Skills         []string         `json:"skills"`
	Interests      []string         `json:"interests"`
	Experience     ExperienceLevel  `json:"experience"`
	GitHubUsername string           `json:"github_username,omitempty"`
	GitHubData     *ActivitySummary `json:"github_data,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Profile returns the scoring view of the user.
func (u *User) Profile() *UserProfile {
	if u == nil {
		return nil
	}
	return &UserProfile{
		Skills:     u.Skills,
		Interests:  u.Interests,
		Experience: u.Experience,
		Activity:   u.GitHubData,
	}
}

// LoginResponse represents the login/signup response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdateProfileRequest carries a partial profile update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name           *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Skills         *[]string `json:"skills,omitempty" validate:"omitempty,dive,required"`
	Interests      *[]string `json:"interests,omitempty" validate:"omitempty,dive,required"`
	Experience     *string   `json:"experience,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	GitHubUsername *string   `json:"github_username,omitempty"`
}

// UpdateGitHubDataRequest replaces the stored GitHub summary.
type UpdateGitHubDataRequest struct {
	GitHubData *ActivitySummary `json:"github_data"`
}

// GitHubScanRequest asks the server to fetch and store a GitHub profile.
type GitHubScanRequest struct {
	Username string `json:"username" validate:"required,max=39"`
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdateProfileRequest using the validator.
func (r *UpdateProfileRequest) Validate() error {
	return validator.New().Struct(r)
}
