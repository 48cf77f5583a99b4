package github

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel causes carried by *Error
var (
	ErrNotFound        = errors.New("github user not found")
	ErrRateLimited     = errors.New("github api rate limit exceeded")
	ErrInvalidUsername = errors.New("invalid github username")
)

// Error represents a failed GitHub API call.
type Error struct {
	Username string
	Status   int       // HTTP status, 0 when the request never completed
	Message  string
	Reset    time.Time // when the rate limit resets, set for ErrRateLimited
	Cause    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("github error for %s: %s", e.Username, e.Message)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// RetryAfter returns how long to wait before retrying a rate-limited call.
func (e *Error) RetryAfter(now time.Time) time.Duration {
	if e.Reset.IsZero() || !e.Reset.After(now) {
		return 0
	}
	return e.Reset.Sub(now)
}
