// Package ranking scores internship listings against a user profile and
// orders them by fit, optionally trading some relevance for company variety.
package ranking

import (
	"fmt"
	"sort"

	"github.com/jonathan/internradar/internal/types"
)

// DefaultLimit is the number of recommendations returned when no limit is given.
const DefaultLimit = 10

// RankOptions controls a ranking pass.
type RankOptions struct {
	// Limit caps the result count. Zero means DefaultLimit.
	Limit int `json:"limit"`
	// MinScore drops listings scoring below it. Must be within [0, 100].
	MinScore float64 `json:"min_score"`
	// IncludeExternalSignal enables the GitHub component when the profile carries activity.
	IncludeExternalSignal bool `json:"include_external_signal"`
}

// DefaultRankOptions returns {Limit: 10, MinScore: 0, IncludeExternalSignal: true}.
func DefaultRankOptions() RankOptions {
	return RankOptions{
		Limit:                 DefaultLimit,
		MinScore:              0,
		IncludeExternalSignal: true,
	}
}

func (o RankOptions) validate() error {
	if o.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative, got %d", ErrInvalidInput, o.Limit)
	}
	if !(o.MinScore >= 0 && o.MinScore <= 100) {
		return fmt.Errorf("%w: min score must be within [0, 100], got %v", ErrInvalidInput, o.MinScore)
	}
	return nil
}

func (o RankOptions) limit() int {
	if o.Limit == 0 {
		return DefaultLimit
	}
	return o.Limit
}

// Rank scores listings with the default weights and returns the top opts.Limit.
func Rank(profile *types.UserProfile, listings []types.InternshipListing, opts RankOptions) ([]types.Recommendation, error) {
	return defaultScorer().Rank(profile, listings, opts)
}

// RankAll is Rank without truncation.
func RankAll(profile *types.UserProfile, listings []types.InternshipListing, opts RankOptions) ([]types.Recommendation, error) {
	return defaultScorer().RankAll(profile, listings, opts)
}

// Rank scores listings and returns at most opts.Limit recommendations,
// sorted by descending score with ties kept in input order.
func (s *Scorer) Rank(profile *types.UserProfile, listings []types.InternshipListing, opts RankOptions) ([]types.Recommendation, error) {
	ranked, err := s.RankAll(profile, listings, opts)
	if err != nil {
		return nil, err
	}
	if limit := opts.limit(); len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// RankAll scores every listing, filters by opts.MinScore and sorts the result.
// Profiles without skills and interests produce an empty result.
func (s *Scorer) RankAll(profile *types.UserProfile, listings []types.InternshipListing, opts RankOptions) ([]types.Recommendation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile is required", ErrInvalidInput)
	}
	if len(listings) == 0 || !profile.HasSignal() {
		return []types.Recommendation{}, nil
	}

	var signal *types.NormalizedActivitySignal
	if opts.IncludeExternalSignal {
		signal = NormalizeActivity(profile.Activity)
	}

	ranked := make([]types.Recommendation, 0, len(listings))
	for i := range listings {
		result, err := s.Score(profile, &listings[i], signal)
		if err != nil {
			return nil, err
		}
		if result.Score < opts.MinScore {
			continue
		}
		ranked = append(ranked, types.Recommendation{
			Internship:  listings[i],
			Score:       result.Score,
			Breakdown:   result.Breakdown,
			Explanation: result.Explanation,
		})
	}

	// Sort by score (descending), ties keep input order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked, nil
}
