package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Options{BaseURL: server.URL + "/", Token: token, Timeout: 5 * time.Second})
	client.now = func() time.Time { return fixedNow }
	return client
}

func octocatHandler(t *testing.T, calls *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/octocat":
			fmt.Fprint(w, `{"login":"octocat","name":"The Octocat","public_repos":3,"followers":20,"following":1,
				"html_url":"https://github.com/octocat","created_at":"2011-01-25T18:44:36Z"}`)
		case "/users/octocat/repos":
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			fmt.Fprint(w, `[
				{"name":"a","language":"Go","stargazers_count":5,"forks_count":1,"updated_at":"2024-05-01T00:00:00Z"},
				{"name":"b","language":"Python","stargazers_count":2,"forks_count":0,"updated_at":"2024-03-01T00:00:00Z"},
				{"name":"c","language":"Go","stargazers_count":0,"forks_count":2,"description":null,"updated_at":"2022-01-01T00:00:00Z"},
				{"name":"d","language":null,"stargazers_count":1,"forks_count":0,"updated_at":"2024-05-20T00:00:00Z"}
			]`)
		default:
			http.NotFound(w, r)
		}
	}
}

func TestFetchProfile_Success(t *testing.T) {
	var calls int32
	client := newTestClient(t, octocatHandler(t, &calls), "")

	summary, err := client.FetchProfile(context.Background(), " octocat ")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	assert.Equal(t, "octocat", summary.Username)
	assert.Equal(t, "The Octocat", summary.Name)
	assert.Equal(t, "https://github.com/octocat", summary.ProfileURL)
	assert.Equal(t, 3, summary.PublicRepos)
	assert.Equal(t, 20, summary.Followers)
	assert.Equal(t, 8, summary.TotalStars)
	assert.Equal(t, 3, summary.TotalForks)
	assert.Equal(t, 3, summary.RecentRepoCount)
	assert.Equal(t, fixedNow, summary.FetchedAt)
	require.NotNil(t, summary.CreatedAt)

	require.Len(t, summary.Languages, 2)
	assert.Equal(t, "Go", summary.Languages[0].Language)
	assert.Equal(t, 2, summary.Languages[0].Count)
	assert.Equal(t, 50.0, summary.Languages[0].Percentage)
	assert.Equal(t, "Python", summary.Languages[1].Language)
	assert.Equal(t, 25.0, summary.Languages[1].Percentage)

	require.Len(t, summary.Repositories, 4)
	assert.Equal(t, "a", summary.Repositories[0].Name)
	assert.Equal(t, "", summary.Repositories[3].Language)
}

func TestFetchProfile_SendsToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		if strings.HasSuffix(r.URL.Path, "/repos") {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `{"login":"octocat"}`)
	}, "secret-token")

	summary, err := client.FetchProfile(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Empty(t, summary.Languages)
	assert.Empty(t, summary.Repositories)
}

func TestFetchProfile_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}, "")

	_, err := client.FetchProfile(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var ghErr *Error
	require.True(t, errors.As(err, &ghErr))
	assert.Equal(t, http.StatusNotFound, ghErr.Status)
	assert.Equal(t, "Not Found", ghErr.Message)
	assert.Equal(t, "ghost", ghErr.Username)
}

func TestFetchProfile_RateLimited(t *testing.T) {
	reset := fixedNow.Add(10 * time.Minute)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprint(reset.Unix()))
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
	}, "")

	_, err := client.FetchProfile(context.Background(), "octocat")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)

	var ghErr *Error
	require.True(t, errors.As(err, &ghErr))
	assert.True(t, reset.Equal(ghErr.Reset))
	assert.Equal(t, 10*time.Minute, ghErr.RetryAfter(fixedNow))
}

func TestFetchProfile_ForbiddenWithoutRateLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "42")
		w.WriteHeader(http.StatusForbidden)
	}, "")

	_, err := client.FetchProfile(context.Background(), "octocat")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)

	var ghErr *Error
	require.True(t, errors.As(err, &ghErr))
	assert.Equal(t, "Forbidden", ghErr.Message)
}

func TestFetchProfile_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "not json")
	}, "")

	_, err := client.FetchProfile(context.Background(), "octocat")
	var ghErr *Error
	require.True(t, errors.As(err, &ghErr))
	assert.Equal(t, http.StatusBadGateway, ghErr.Status)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetchProfile_InvalidUsername(t *testing.T) {
	var calls int32
	client := newTestClient(t, octocatHandler(t, &calls), "")

	for _, name := range []string{"", "-bad", "bad-", "has space", strings.Repeat("a", 40), "../etc"} {
		_, err := client.FetchProfile(context.Background(), name)
		assert.ErrorIs(t, err, ErrInvalidUsername, name)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestFetchProfile_ContextCanceled(t *testing.T) {
	var calls int32
	client := newTestClient(t, octocatHandler(t, &calls), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchProfile(ctx, "octocat")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("octocat"))
	assert.True(t, ValidUsername("a"))
	assert.True(t, ValidUsername("mona-lisa"))
	assert.True(t, ValidUsername(strings.Repeat("a", 39)))
	assert.False(t, ValidUsername(strings.Repeat("a", 40)))
	assert.False(t, ValidUsername("under_score"))
}

func TestError_RetryAfter(t *testing.T) {
	e := &Error{}
	assert.Zero(t, e.RetryAfter(fixedNow))

	e.Reset = fixedNow.Add(-time.Minute)
	assert.Zero(t, e.RetryAfter(fixedNow))
}
