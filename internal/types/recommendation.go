package types

import (
	"time"

	"github.com/google/uuid"
)

// Score component names used as Breakdown keys
const (
	ComponentSkills     = "skills"
	ComponentInterests  = "interests"
	ComponentGitHub     = "github"
	ComponentExperience = "experience"
)

// ComponentScore is the contribution of one scoring component.
// Score is already multiplied by Weight; Applied is false when the component
// was skipped and its weight left out of the denominator.
type ComponentScore struct {
	Weight  float64  `json:"weight"`
	Score   float64  `json:"score"`
	Matched []string `json:"matched,omitempty"`
	Applied bool     `json:"applied"`
}

// Breakdown maps component name to its partial score.
type Breakdown map[string]ComponentScore

// AppliedWeight sums the weights of applied components.
func (b Breakdown) AppliedWeight() float64 {
	total := 0.0
	for _, c := range b {
		if c.Applied {
			total += c.Weight
		}
	}
	return total
}

// ScoreResult is the outcome of scoring one listing against one profile.
type ScoreResult struct {
	Score       float64   `json:"score"`
	Breakdown   Breakdown `json:"breakdown"`
	Explanation string    `json:"explanation"`
}

// Recommendation pairs a listing with its score.
type Recommendation struct {
	Internship  InternshipListing `json:"internship"`
	Score       float64           `json:"score"`
	Breakdown   Breakdown         `json:"breakdown"`
	Explanation string            `json:"explanation"`
}

// RecommendationLogEntry is one line of an append-only recommendation log.
type RecommendationLogEntry struct {
	InternshipID string  `json:"internship_id"`
	Score        float64 `json:"score"`
	Explanation  string  `json:"explanation"`
}

// RecommendationLog is one stored recommendation run for a user.
type RecommendationLog struct {
	ID              uuid.UUID                `json:"id"`
	UserID          uuid.UUID                `json:"user_id"`
	Recommendations []RecommendationLogEntry `json:"recommendations"`
	CreatedAt       time.Time                `json:"created_at"`
}
