package github

import (
	"math"
	"sort"
	"time"

	"github.com/jonathan/internradar/internal/types"
)

const (
	maxLanguages = 10
	recentMonths = 6
)

type apiUser struct {
	Login       string     `json:"login"`
	Name        string     `json:"name"`
	Bio         string     `json:"bio"`
	Location    string     `json:"location"`
	AvatarURL   string     `json:"avatar_url"`
	HTMLURL     string     `json:"html_url"`
	PublicRepos int        `json:"public_repos"`
	Followers   int        `json:"followers"`
	Following   int        `json:"following"`
	CreatedAt   *time.Time `json:"created_at"`
}

type apiRepo struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	HTMLURL         string    `json:"html_url"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// summarize condenses a user record and repository list into an activity summary.
// Repositories keep the order GitHub returned them in.
func summarize(user *apiUser, repos []apiRepo, fetchedAt time.Time) *types.ActivitySummary {
	summary := &types.ActivitySummary{
		Username:     user.Login,
		Name:         user.Name,
		Bio:          user.Bio,
		Location:     user.Location,
		AvatarURL:    user.AvatarURL,
		ProfileURL:   user.HTMLURL,
		PublicRepos:  user.PublicRepos,
		Followers:    user.Followers,
		Following:    user.Following,
		CreatedAt:    user.CreatedAt,
		FetchedAt:    fetchedAt.UTC(),
		Languages:    []types.LanguageStat{},
		Repositories: make([]types.RepositorySummary, 0, len(repos)),
	}

	cutoff := fetchedAt.AddDate(0, -recentMonths, 0)
	counts := map[string]int{}
	var order []string

	for _, repo := range repos {
		summary.TotalStars += repo.StargazersCount
		summary.TotalForks += repo.ForksCount
		if repo.UpdatedAt.After(cutoff) {
			summary.RecentRepoCount++
		}
		if repo.Language != "" {
			if counts[repo.Language] == 0 {
				order = append(order, repo.Language)
			}
			counts[repo.Language]++
		}

		summary.Repositories = append(summary.Repositories, types.RepositorySummary{
			Name:        repo.Name,
			Description: repo.Description,
			Language:    repo.Language,
			Stars:       repo.StargazersCount,
			Forks:       repo.ForksCount,
			URL:         repo.HTMLURL,
			UpdatedAt:   repo.UpdatedAt,
		})
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxLanguages {
		order = order[:maxLanguages]
	}
	for _, lang := range order {
		summary.Languages = append(summary.Languages, types.LanguageStat{
			Language:   lang,
			Count:      counts[lang],
			Percentage: math.Round(float64(counts[lang])/float64(len(repos))*1000) / 10,
		})
	}

	return summary
}
