// Package github fetches public GitHub profile activity for a user.
package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/internradar/internal/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Client defaults
const (
	DefaultBaseURL   = "https://api.github.com"
	DefaultUserAgent = "InternRadar"
	DefaultTimeout   = 15 * time.Second

	apiVersion   = "2022-11-28"
	reposPerPage = 100
	maxErrorBody = 4 << 10
)

// usernamePattern follows GitHub's login rules: alphanumerics and single
// inner hyphens, at most 39 characters.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,37}[A-Za-z0-9])?$`)

// Options configures a Client.
type Options struct {
	BaseURL           string
	Token             string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
}

// Client is a minimal, rate-limited GitHub REST client.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewClient creates a client. Zero option values fall back to defaults; a
// non-positive RequestsPerSecond disables throttling.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:    baseURL,
		token:      opts.Token,
		userAgent:  userAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		now:        time.Now,
	}
}

// ValidUsername reports whether s is a syntactically valid GitHub login.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// FetchProfile fetches the user record and their most recently updated
// repositories concurrently and summarizes them.
func (c *Client) FetchProfile(ctx context.Context, username string) (*types.ActivitySummary, error) {
	username = strings.TrimSpace(username)
	if !ValidUsername(username) {
		return nil, &Error{Username: username, Message: "username must be 1-39 alphanumerics or hyphens", Cause: ErrInvalidUsername}
	}

	var user apiUser
	var repos []apiRepo

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.get(gctx, username, "/users/"+url.PathEscape(username), nil, &user)
	})
	g.Go(func() error {
		query := url.Values{}
		query.Set("sort", "updated")
		query.Set("per_page", strconv.Itoa(reposPerPage))
		return c.get(gctx, username, "/users/"+url.PathEscape(username)+"/repos", query, &repos)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(&user, repos, c.now()), nil
}

func (c *Client) get(ctx context.Context, username, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Username: username, Message: "rate limiter wait failed", Cause: err}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &Error{Username: username, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Username: username, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(username, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Username: username, Status: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func (c *Client) statusError(username string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := apiMessage(body)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	e := &Error{Username: username, Status: resp.StatusCode, Message: message}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		e.Cause = ErrNotFound
	case isRateLimited(resp):
		e.Cause = ErrRateLimited
		e.Reset = parseReset(resp.Header.Get("X-RateLimit-Reset"))
	}
	return e
}

func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
}

func parseReset(value string) time.Time {
	secs, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}

func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}
