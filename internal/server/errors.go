// Package server provides the InternRadar HTTP REST API.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/internradar/internal/github"
	"github.com/jonathan/internradar/internal/ranking"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrInternshipNotFound indicates the listing does not exist
type ErrInternshipNotFound struct {
	ID string
}

func (e *ErrInternshipNotFound) Error() string {
	return fmt.Sprintf("internship not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrProfileIncomplete indicates the user has not entered enough profile data to score listings
type ErrProfileIncomplete struct{}

func (e *ErrProfileIncomplete) Error() string {
	return "please complete your profile to get personalized recommendations"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailTaken   *ErrEmailAlreadyExists
		badCreds     *ErrInvalidCredentials
		userMissing  *ErrUserNotFound
		listMissing  *ErrInternshipNotFound
		validation   *ErrValidation
		incomplete   *ErrProfileIncomplete
		githubFailed *github.Error
	)

	switch {
	case errors.As(err, &emailTaken):
		return http.StatusConflict
	case errors.As(err, &badCreds):
		return http.StatusUnauthorized
	case errors.As(err, &userMissing), errors.As(err, &listMissing):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &incomplete):
		return http.StatusBadRequest
	case errors.Is(err, ranking.ErrInvalidInput), errors.Is(err, github.ErrInvalidUsername):
		return http.StatusBadRequest
	case errors.Is(err, github.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, github.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.As(err, &githubFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the message sent to clients; internal failures are not leaked.
func publicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
