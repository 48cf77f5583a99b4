package types

import "time"

// ActivityLevel buckets how recently a GitHub account has been active.
type ActivityLevel string

// Supported activity levels
const (
	ActivityInactive ActivityLevel = "inactive"
	ActivityLow      ActivityLevel = "low"
	ActivityMedium   ActivityLevel = "medium"
	ActivityHigh     ActivityLevel = "high"
)

// ActivitySummary is the raw GitHub activity summary for a user. It is
// produced by the GitHub data source and stored verbatim on the user record.
type ActivitySummary struct {
	Username        string              `json:"username"`
	Name            string              `json:"name,omitempty"`
	Bio             string              `json:"bio,omitempty"`
	Location        string              `json:"location,omitempty"`
	AvatarURL       string              `json:"avatar_url,omitempty"`
	ProfileURL      string              `json:"profile_url,omitempty"`
	PublicRepos     int                 `json:"public_repos"`
	Followers       int                 `json:"followers"`
	Following       int                 `json:"following"`
	TotalStars      int                 `json:"total_stars"`
	TotalForks      int                 `json:"total_forks"`
	Languages       []LanguageStat      `json:"languages"`
	Repositories    []RepositorySummary `json:"repositories"`
	RecentRepoCount int                 `json:"recent_repo_count"`
	CreatedAt       *time.Time          `json:"created_at,omitempty"`
	FetchedAt       time.Time           `json:"fetched_at"`
}

// LanguageStat is one entry of the repository language histogram.
type LanguageStat struct {
	Language   string  `json:"language"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RepositorySummary is the subset of a GitHub repository the scorer cares about.
type RepositorySummary struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	URL         string    `json:"url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NormalizedActivitySignal is the comparable signal derived from an
// ActivitySummary. It is recomputed on every scoring pass and never stored.
type NormalizedActivitySignal struct {
	TechStack       []string        `json:"tech_stack"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	Domains         []string        `json:"domains"`
	ActivityLevel   ActivityLevel   `json:"activity_level"`
}
