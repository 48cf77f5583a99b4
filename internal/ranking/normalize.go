package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/jonathan/internradar/internal/types"
)

// Normalizer thresholds
const (
	maxTechStack = 10

	repoPoints     = 1.0
	starPoints     = 2.0
	followerPoints = 0.5

	advancedThreshold     = 100.0
	intermediateThreshold = 30.0

	highActivityRatio   = 0.5
	mediumActivityRatio = 0.2

	recentMonths = 6
)

// languageDomains maps lower-cased GitHub language names to a domain label
var languageDomains = map[string]string{
	"javascript": "web-development",
	"typescript": "web-development",
	"php":        "web-development",
	"ruby":       "web-development",
	"python":     "backend",
	"java":       "backend",
	"go":         "backend",
	"c++":        "systems-programming",
	"rust":       "systems-programming",
	"c#":         "game-development",
	"swift":      "mobile",
	"kotlin":     "mobile",
	"html":       "frontend",
	"css":        "frontend",
}

// NormalizeActivity converts a raw GitHub activity summary into a comparable signal.
// It returns nil for a nil summary.
func NormalizeActivity(summary *types.ActivitySummary) *types.NormalizedActivitySignal {
	if summary == nil {
		return nil
	}

	techStack := topLanguages(summary, maxTechStack)
	return &types.NormalizedActivitySignal{
		TechStack:       techStack,
		ExperienceLevel: inferExperienceLevel(summary),
		Domains:         inferDomains(techStack),
		ActivityLevel:   inferActivityLevel(summary),
	}
}

type languageCount struct {
	name  string
	count int
}

// topLanguages ranks languages by repository count, ties broken by first appearance.
// Repository languages are preferred; the stored histogram is the fallback.
func topLanguages(summary *types.ActivitySummary, n int) []string {
	var counts []languageCount
	index := make(map[string]int)

	add := func(name string, count int) {
		name = strings.TrimSpace(name)
		if name == "" || count <= 0 {
			return
		}
		if i, ok := index[name]; ok {
			counts[i].count += count
			return
		}
		index[name] = len(counts)
		counts = append(counts, languageCount{name: name, count: count})
	}

	for _, repo := range summary.Repositories {
		add(repo.Language, 1)
	}
	if len(counts) == 0 {
		for _, stat := range summary.Languages {
			add(stat.Language, stat.Count)
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	if len(counts) > n {
		counts = counts[:n]
	}
	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.name)
	}
	return out
}

func inferExperienceLevel(summary *types.ActivitySummary) types.ExperienceLevel {
	score := float64(summary.PublicRepos)*repoPoints +
		float64(summary.TotalStars)*starPoints +
		float64(summary.Followers)*followerPoints

	switch {
	case score > advancedThreshold:
		return types.ExperienceAdvanced
	case score > intermediateThreshold:
		return types.ExperienceIntermediate
	default:
		return types.ExperienceBeginner
	}
}

func inferDomains(techStack []string) []string {
	seen := make(map[string]bool)
	domains := make([]string, 0, len(techStack))
	for _, lang := range techStack {
		domain, ok := languageDomains[strings.ToLower(lang)]
		if !ok || seen[domain] {
			continue
		}
		seen[domain] = true
		domains = append(domains, domain)
	}
	return domains
}

func inferActivityLevel(summary *types.ActivitySummary) types.ActivityLevel {
	if summary.PublicRepos <= 0 {
		return types.ActivityInactive
	}

	ratio := float64(recentRepoCount(summary)) / float64(summary.PublicRepos)
	switch {
	case ratio > highActivityRatio:
		return types.ActivityHigh
	case ratio > mediumActivityRatio:
		return types.ActivityMedium
	default:
		return types.ActivityLow
	}
}

// recentRepoCount counts repositories updated within recentMonths of FetchedAt.
// Summaries without timestamps fall back to the pre-computed RecentRepoCount.
func recentRepoCount(summary *types.ActivitySummary) int {
	if summary.FetchedAt.IsZero() || !hasTimestamps(summary.Repositories) {
		return summary.RecentRepoCount
	}

	cutoff := summary.FetchedAt.AddDate(0, -recentMonths, 0)
	recent := 0
	for _, repo := range summary.Repositories {
		if repo.UpdatedAt.After(cutoff) {
			recent++
		}
	}
	return recent
}

func hasTimestamps(repos []types.RepositorySummary) bool {
	for _, repo := range repos {
		if !repo.UpdatedAt.Equal(time.Time{}) {
			return true
		}
	}
	return false
}
