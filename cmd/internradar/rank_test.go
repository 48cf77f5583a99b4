package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/internradar/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProfile = `{
  "skills": ["Go", "PostgreSQL"],
  "interests": ["backend"],
  "experience": "beginner"
}`

const testListings = `[
  {"title": "Backend Intern", "company": "Acme", "description": "<p>Entry level <b>backend</b> role</p>",
   "location": "Berlin", "tags": ["backend"], "tech_stack": ["Go", "PostgreSQL"]},
  {"title": "Frontend Intern", "company": "Globex", "description": "Build beginner friendly UI",
   "location": "Remote", "tags": ["frontend"], "tech_stack": ["React"], "is_active": true},
  {"title": "Android Intern", "company": "Initech", "description": "Android team",
   "location": "Berlin", "tags": ["backend", "mobile"], "tech_stack": ["Java"]},
  {"title": "Closed Intern", "company": "Acme", "description": "Filled",
   "location": "Berlin", "tags": ["backend"], "tech_stack": ["Go"], "is_active": false}
]`

func decodeRecommendations(t *testing.T, data string) []types.Recommendation {
	t.Helper()
	var recs []types.Recommendation
	require.NoError(t, json.Unmarshal([]byte(data), &recs), data)
	return recs
}

func TestRank_Stdout(t *testing.T) {
	profile := writeFile(t, "profile.json", testProfile)
	listings := writeFile(t, "listings.json", testListings)

	stdout, stderr, err := execute(t, "rank", "--profile", profile, "--listings", listings)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	recs := decodeRecommendations(t, stdout)
	require.Len(t, recs, 3)
	assert.Equal(t, "Backend Intern", recs[0].Internship.Title)
	assert.Equal(t, 97.33, recs[0].Score)
	assert.Equal(t, "Entry level backend role", recs[0].Internship.Description)
	assert.Equal(t, "Android Intern", recs[1].Internship.Title)
	assert.Equal(t, 23.33, recs[1].Score)
	assert.Equal(t, "Frontend Intern", recs[2].Internship.Title)
	assert.Equal(t, 13.33, recs[2].Score)
}

func TestRank_OptionsAndFile(t *testing.T) {
	profile := writeFile(t, "profile.json", testProfile)
	listings := writeFile(t, "listings.json", testListings)
	out := filepath.Join(t.TempDir(), "nested", "recs.json")

	stdout, _, err := execute(t, "rank", "-p", profile, "-l", listings, "-o", out, "--min-score", "20", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Successfully ranked 2 of 3 listings")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	recs := decodeRecommendations(t, string(data))
	require.Len(t, recs, 2)
	assert.Equal(t, "Backend Intern", recs[0].Internship.Title)
	assert.Equal(t, "Android Intern", recs[1].Internship.Title)
}

func TestRank_ConfiguredWeights(t *testing.T) {
	config := useConfigFile(t, `
recommendations:
  weights:
    skills: 90
    interests: 0
    github: 0
    experience: 10
`)
	profile := writeFile(t, "profile.json", testProfile)
	listings := writeFile(t, "listings.json", testListings)

	stdout, _, err := execute(t, "rank", "--config", config, "-p", profile, "-l", listings, "--limit", "1")
	require.NoError(t, err)

	recs := decodeRecommendations(t, stdout)
	require.Len(t, recs, 1)
	// (90 skills + 0.8 * 10 experience) / 100
	assert.Equal(t, 98.0, recs[0].Score)
}

func TestRank_InvalidWeights(t *testing.T) {
	config := useConfigFile(t, `
recommendations:
  weights:
    experience: 0
`)
	profile := writeFile(t, "profile.json", testProfile)
	listings := writeFile(t, "listings.json", testListings)

	_, _, err := execute(t, "rank", "--config", config, "-p", profile, "-l", listings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recommendations.weights")
}

func TestRank_GitHubActivity(t *testing.T) {
	profile := writeFile(t, "profile.json", `{
	  "skills": ["rust"],
	  "github_data": {
	    "username": "octocat",
	    "repositories": [{"name": "api", "language": "Java", "updated_at": "2024-05-01T00:00:00Z"}],
	    "fetched_at": "2024-06-01T00:00:00Z"
	  }
	}`)
	listings := writeFile(t, "listings.json", testListings)

	stdout, _, err := execute(t, "rank", "-p", profile, "-l", listings, "--limit", "1")
	require.NoError(t, err)
	recs := decodeRecommendations(t, stdout)
	require.Len(t, recs, 1)
	assert.Equal(t, "Android Intern", recs[0].Internship.Title)
	assert.True(t, recs[0].Breakdown[types.ComponentGitHub].Applied)

	stdout, _, err = execute(t, "rank", "-p", profile, "-l", listings, "--limit", "1", "--no-github")
	require.NoError(t, err)
	recs = decodeRecommendations(t, stdout)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Breakdown[types.ComponentGitHub].Applied)
}

func TestRank_InvalidInput(t *testing.T) {
	listings := writeFile(t, "listings.json", testListings)

	tests := []struct {
		name    string
		profile string
		args    []string
		wantErr string
	}{
		{name: "bad experience", profile: `{"skills": ["go"], "experience": "guru"}`, wantErr: "does not match"},
		{name: "not json", profile: `skills: go`, wantErr: "profile.json"},
		{name: "min score out of range", profile: testProfile, args: []string{"--min-score", "150"}, wantErr: "min score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := writeFile(t, "profile.json", tt.profile)
			args := append([]string{"rank", "-p", profile, "-l", listings}, tt.args...)
			_, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRank_ListingsSchema(t *testing.T) {
	profile := writeFile(t, "profile.json", testProfile)
	listings := writeFile(t, "listings.json", `[{"title": "No company", "description": "d", "location": "x"}]`)

	_, _, err := execute(t, "rank", "-p", profile, "-l", listings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company")
}

func TestRank_RequiredFlags(t *testing.T) {
	_, _, err := execute(t, "rank")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
