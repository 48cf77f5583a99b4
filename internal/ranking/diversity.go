package ranking

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/internradar/internal/types"
)

// headFraction is the share of the result kept in pure score order
const headFraction = 0.6

// Diversify keeps the top ceil(limit*0.6) entries and fills the remaining
// slots with later entries from companies not present in that head.
// The result is never backfilled, so it may be shorter than limit.
func Diversify(ranked []types.Recommendation, limit int) ([]types.Recommendation, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative, got %d", ErrInvalidInput, limit)
	}
	if limit == 0 || len(ranked) == 0 {
		return []types.Recommendation{}, nil
	}

	headSize := headLength(limit)
	if headSize > len(ranked) {
		headSize = len(ranked)
	}

	out := make([]types.Recommendation, 0, limit)
	out = append(out, ranked[:headSize]...)

	headCompanies := make(map[string]bool, headSize)
	for _, rec := range out {
		headCompanies[companyKey(rec.Internship.Company)] = true
	}

	for _, rec := range ranked[headSize:] {
		if len(out) >= limit {
			break
		}
		if headCompanies[companyKey(rec.Internship.Company)] {
			continue
		}
		out = append(out, rec)
	}

	return out, nil
}

// RankDiverse ranks every listing above opts.MinScore, then applies Diversify with opts.Limit.
func RankDiverse(profile *types.UserProfile, listings []types.InternshipListing, opts RankOptions) ([]types.Recommendation, error) {
	return defaultScorer().RankDiverse(profile, listings, opts)
}

// RankDiverse is the Scorer form of the package-level RankDiverse.
func (s *Scorer) RankDiverse(profile *types.UserProfile, listings []types.InternshipListing, opts RankOptions) ([]types.Recommendation, error) {
	ranked, err := s.RankAll(profile, listings, opts)
	if err != nil {
		return nil, err
	}
	return Diversify(ranked, opts.limit())
}

func headLength(limit int) int {
	return int(math.Ceil(float64(limit) * headFraction))
}

func companyKey(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}
