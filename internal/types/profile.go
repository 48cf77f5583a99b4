// Package types provides type definitions for structured data used throughout InternRadar.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// ExperienceLevel is a self-reported or inferred seniority bucket.
type ExperienceLevel string

// Supported experience levels
const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// ParseExperienceLevel converts a free-form string into an ExperienceLevel.
// Empty input yields ExperienceBeginner; unknown input returns ok=false.
func ParseExperienceLevel(s string) (ExperienceLevel, bool) {
	switch ExperienceLevel(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExperienceBeginner:
		return ExperienceBeginner, true
	case ExperienceIntermediate:
		return ExperienceIntermediate, true
	case ExperienceAdvanced:
		return ExperienceAdvanced, true
	default:
		return "", false
	}
}

// OrDefault returns the level, or ExperienceBeginner when unset.
func (l ExperienceLevel) OrDefault() ExperienceLevel {
	if l == "" {
		return ExperienceBeginner
	}
	return l
}

// UserProfile is the scoring view of a user: what they say they know plus
// optional GitHub activity fetched by an external collaborator.
type UserProfile struct {
	Skills     []string         `json:"skills"`
	Interests  []string         `json:"interests"`
	Experience ExperienceLevel  `json:"experience"`
	Activity   *ActivitySummary `json:"github_data,omitempty"`
}

// HasSignal reports whether the profile carries any skill or interest.
func (p *UserProfile) HasSignal() bool {
	if p == nil {
		return false
	}
	return hasNonBlank(p.Skills) || hasNonBlank(p.Interests)
}

func hasNonBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
