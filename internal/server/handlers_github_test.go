package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/jonathan/internradar/internal/github"
	"github.com/jonathan/internradar/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func octocatSummary() *types.ActivitySummary {
	fetched := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &types.ActivitySummary{
		Username:    "octocat",
		PublicRepos: 2,
		Followers:   10,
		TotalStars:  5,
		Languages:   []types.LanguageStat{{Language: "Go", Count: 2, Percentage: 100}},
		Repositories: []types.RepositorySummary{
			{Name: "api", Language: "Go", UpdatedAt: fetched.AddDate(0, -1, 0)},
			{Name: "cli", Language: "Go", UpdatedAt: fetched.AddDate(0, -2, 0)},
		},
		FetchedAt: fetched,
	}
}

type scanData struct {
	User       types.User                      `json:"user"`
	GitHubData types.ActivitySummary           `json:"github_data"`
	Signal     *types.NormalizedActivitySignal `json:"signal"`
}

func TestGitHubScan(t *testing.T) {
	env := newTestEnv(t)
	env.github.profiles["octocat"] = octocatSummary()
	_, token := env.signup(t, "Ada", "ada@example.com")

	w := env.do(t, http.MethodPost, "/api/github/scan", map[string]string{"username": " octocat "}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data scanData
	resp := decodeEnvelope(t, w, &data)
	assert.Equal(t, "GitHub profile scanned successfully", resp.Message)
	assert.Equal(t, "octocat", data.User.GitHubUsername)
	require.NotNil(t, data.User.GitHubData)
	assert.Equal(t, 2, data.GitHubData.PublicRepos)
	require.NotNil(t, data.Signal)
	assert.Equal(t, []string{"Go"}, data.Signal.TechStack)
	assert.Equal(t, []string{"octocat"}, env.github.calls)

	// Persisted for later ranking runs
	w = env.do(t, http.MethodGet, "/api/users/profile", nil, token)
	var profile userData
	decodeEnvelope(t, w, &profile)
	require.NotNil(t, profile.User.GitHubData)
	assert.Equal(t, "octocat", profile.User.GitHubData.Username)
}

func TestGitHubScan_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: &github.Error{Username: "ghost", Status: 404, Message: "Not Found", Cause: github.ErrNotFound}, status: http.StatusNotFound},
		{name: "rate limited", err: &github.Error{Username: "ghost", Status: 403, Message: "rate limit", Cause: github.ErrRateLimited, Reset: time.Now().Add(time.Minute)}, status: http.StatusTooManyRequests},
		{name: "invalid username", err: &github.Error{Username: "-", Message: "bad", Cause: github.ErrInvalidUsername}, status: http.StatusBadRequest},
		{name: "upstream failure", err: &github.Error{Username: "ghost", Status: 502, Message: "Bad Gateway"}, status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.github.err = tt.err
			user, token := env.signup(t, "Ada", "ada@example.com")

			w := env.do(t, http.MethodPost, "/api/github/scan", map[string]string{"username": "ghost"}, token)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, decodeEnvelope(t, w, nil).Success)
			if tt.status == http.StatusTooManyRequests {
				assert.NotEmpty(t, w.Header().Get("Retry-After"))
			}

			// Nothing stored on failure
			assert.Nil(t, env.store.users[user.ID].GitHubData)
		})
	}
}

func TestGitHubScan_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "Ada", "ada@example.com")

	w := env.do(t, http.MethodPost, "/api/github/scan", map[string]string{"username": "  "}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.github.calls)

	w = env.do(t, http.MethodPost, "/api/github/scan", map[string]string{"username": "octocat"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGitHubProfile_Public(t *testing.T) {
	env := newTestEnv(t)
	env.github.profiles["octocat"] = octocatSummary()

	w := env.do(t, http.MethodGet, "/api/github/profile/octocat", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var data scanData
	decodeEnvelope(t, w, &data)
	assert.Equal(t, "octocat", data.GitHubData.Username)
	require.NotNil(t, data.Signal)
	assert.Equal(t, types.ExperienceBeginner, data.Signal.ExperienceLevel)
}
