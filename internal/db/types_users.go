package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/internradar/internal/types"
)

// User is a row of the users table
type User struct {
	ID             uuid.UUID              `json:"id"`
	Name           string                 `json:"name"`
	Email          string                 `json:"email"`
	PasswordHash   string                 `json:"-" db:"password_hash"` // Never serialize to JSON
	Skills         []string               `json:"skills"`
	Interests      []string               `json:"interests"`
	Experience     string                 `json:"experience"`
	GitHubUsername *string                `json:"github_username,omitempty" db:"github_username"`
	GitHubData     *types.ActivitySummary `json:"github_data,omitempty" db:"github_data"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ProfileUpdate carries the user columns to change; nil fields are left untouched.
type ProfileUpdate struct {
	Name           *string
	Skills         *[]string
	Interests      *[]string
	Experience     *string
	GitHubUsername *string
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Skills == nil && u.Interests == nil && u.Experience == nil && u.GitHubUsername == nil
}

// LogEntries handles the recommendations JSONB array of a log row
type LogEntries []types.RecommendationLogEntry

// Scan implements the Scanner interface for LogEntries
func (e *LogEntries) Scan(src interface{}) error {
	if src == nil {
		*e = LogEntries{}
		return nil
	}
	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, e)
}

// Value implements the Valuer interface for LogEntries
func (e LogEntries) Value() (driver.Value, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e)
}
