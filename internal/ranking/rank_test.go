package ranking

import (
	"fmt"
	"math"
	"testing"

	"github.com/jonathan/internradar/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backendProfile() *types.UserProfile {
	return &types.UserProfile{
		Skills:     []string{"go", "postgresql"},
		Interests:  []string{"backend"},
		Experience: types.ExperienceBeginner,
	}
}

func TestRank_SortedByScore(t *testing.T) {
	listings := []types.InternshipListing{
		newListing("Frontend", "A", []string{"Vue"}, []string{"frontend"}, "Build UIs."),
		newListing("Backend", "B", []string{"Go", "PostgreSQL"}, []string{"backend"}, "Beginner friendly."),
		newListing("Data", "C", []string{"Go", "Spark"}, []string{"data"}, "Build pipelines."),
	}

	ranked, err := Rank(backendProfile(), listings, DefaultRankOptions())
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "Backend", ranked[0].Internship.Title)
	assert.Equal(t, "Data", ranked[1].Internship.Title)
	assert.Equal(t, "Frontend", ranked[2].Internship.Title)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
	assert.Contains(t, ranked[0].Explanation, "Matches 2 of your skills")
	assert.Len(t, ranked[0].Breakdown, 4)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	var listings []types.InternshipListing
	for i := 0; i < 5; i++ {
		listings = append(listings, newListing(fmt.Sprintf("Same %d", i), "Acme", []string{"Go"}, []string{"backend"}, "Same text."))
	}

	ranked, err := Rank(backendProfile(), listings, DefaultRankOptions())
	require.NoError(t, err)
	require.Len(t, ranked, 5)
	for i, rec := range ranked {
		assert.Equal(t, listings[i].ID, rec.Internship.ID)
	}
}

func TestRank_EmptyListings(t *testing.T) {
	ranked, err := Rank(backendProfile(), nil, DefaultRankOptions())
	require.NoError(t, err)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRank_ProfileWithoutSignal(t *testing.T) {
	listings := []types.InternshipListing{
		newListing("Backend", "B", []string{"Go"}, []string{"backend"}, "Beginner friendly."),
	}

	ranked, err := Rank(&types.UserProfile{Skills: []string{" "}, Experience: types.ExperienceAdvanced}, listings, DefaultRankOptions())
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRank_LimitAndMinScore(t *testing.T) {
	var listings []types.InternshipListing
	for i := 0; i < 12; i++ {
		listings = append(listings, newListing(fmt.Sprintf("L%d", i), "Acme", []string{"Go"}, []string{"backend"}, "Beginner friendly."))
	}
	listings = append(listings, newListing("Weak", "Other", []string{"Haskell"}, []string{"research"}, "Plain."))

	t.Run("zero limit uses default", func(t *testing.T) {
		ranked, err := Rank(backendProfile(), listings, RankOptions{})
		require.NoError(t, err)
		assert.Len(t, ranked, DefaultLimit)
	})

	t.Run("explicit limit", func(t *testing.T) {
		ranked, err := Rank(backendProfile(), listings, RankOptions{Limit: 3})
		require.NoError(t, err)
		assert.Len(t, ranked, 3)
	})

	t.Run("min score filter", func(t *testing.T) {
		ranked, err := RankAll(backendProfile(), listings, RankOptions{MinScore: 50})
		require.NoError(t, err)
		assert.Len(t, ranked, 12)
		for _, rec := range ranked {
			assert.GreaterOrEqual(t, rec.Score, 50.0)
		}
	})
}

func TestRank_InvalidOptions(t *testing.T) {
	listings := []types.InternshipListing{newListing("A", "A", nil, nil, "x")}

	_, err := Rank(backendProfile(), listings, RankOptions{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Rank(backendProfile(), listings, RankOptions{MinScore: 101})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Rank(backendProfile(), listings, RankOptions{MinScore: -0.5})
	assert.ErrorIs(t, err, ErrInvalidInput)

	for _, minScore := range []float64{math.NaN(), math.Inf(1)} {
		_, err = Rank(backendProfile(), listings, RankOptions{MinScore: minScore})
		assert.ErrorIs(t, err, ErrInvalidInput, minScore)
		_, err = RankDiverse(backendProfile(), listings, RankOptions{Limit: 5, MinScore: minScore})
		assert.ErrorIs(t, err, ErrInvalidInput, minScore)
	}

	_, err = Rank(nil, listings, DefaultRankOptions())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRank_InvalidListingFailsPass(t *testing.T) {
	listings := []types.InternshipListing{
		newListing("A", "A", []string{"Go"}, nil, "ok"),
		newListing("B", "B", []string{"Go"}, nil, ""),
	}

	_, err := Rank(backendProfile(), listings, DefaultRankOptions())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRank_ExternalSignal(t *testing.T) {
	profile := backendProfile()
	profile.Activity = &types.ActivitySummary{
		PublicRepos:  3,
		Repositories: reposWithLanguages("Go", "Go", "Python"),
	}
	listings := []types.InternshipListing{
		newListing("Backend", "B", []string{"Go"}, []string{"backend"}, "Beginner friendly."),
	}

	withSignal, err := Rank(profile, listings, DefaultRankOptions())
	require.NoError(t, err)
	github := withSignal[0].Breakdown[types.ComponentGitHub]
	assert.True(t, github.Applied)
	assert.Equal(t, []string{"go"}, github.Matched)
	assert.Contains(t, withSignal[0].Explanation, "Your GitHub shows experience with go")

	opts := DefaultRankOptions()
	opts.IncludeExternalSignal = false
	withoutSignal, err := Rank(profile, listings, opts)
	require.NoError(t, err)
	assert.False(t, withoutSignal[0].Breakdown[types.ComponentGitHub].Applied)
}
