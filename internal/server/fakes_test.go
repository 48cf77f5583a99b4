package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/internradar/internal/config"
	"github.com/jonathan/internradar/internal/ranking"
	"github.com/jonathan/internradar/internal/db"
	"github.com/jonathan/internradar/internal/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// memStore is an in-memory Store.
type memStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*db.User
	internships []types.InternshipListing
	logs        []types.RecommendationLog
	logErr      error
	clock       time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[uuid.UUID]*db.User),
		clock: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so newest-first ordering is deterministic.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func copyUser(u *db.User) *db.User {
	c := *u
	return &c
}

func (m *memStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return uuid.Nil, db.ErrEmailTaken
		}
	}
	now := m.tick()
	u := &db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Skills:       []string{},
		Interests:    []string{},
		Experience:   string(types.ExperienceBeginner),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdateProfile(_ context.Context, id uuid.UUID, update db.ProfileUpdate) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if update.Name != nil {
		u.Name = strings.TrimSpace(*update.Name)
	}
	if update.Skills != nil {
		u.Skills = *update.Skills
	}
	if update.Interests != nil {
		u.Interests = *update.Interests
	}
	if update.Experience != nil {
		u.Experience = *update.Experience
	}
	if update.GitHubUsername != nil {
		name := strings.TrimSpace(*update.GitHubUsername)
		u.GitHubUsername = &name
	}
	u.UpdatedAt = m.tick()
	return copyUser(u), nil
}

func (m *memStore) UpdateGitHubData(_ context.Context, id uuid.UUID, username string, data *types.ActivitySummary) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.GitHubData = data
	if username = strings.TrimSpace(username); username != "" {
		u.GitHubUsername = &username
	}
	u.UpdatedAt = m.tick()
	return copyUser(u), nil
}

func (m *memStore) CreateInternship(_ context.Context, req *types.CreateInternshipRequest) (*types.InternshipListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	l := types.InternshipListing{
		ID:          uuid.New(),
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
		Tags:        req.Tags,
		TechStack:   req.TechStack,
		Location:    req.Location,
		Stipend:     req.Stipend,
		Duration:    req.Duration,
		ApplyLink:   req.ApplyLink,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.internships = append(m.internships, l)
	return &l, nil
}

// addListing stores a listing directly, bypassing request validation.
func (m *memStore) addListing(l types.InternshipListing) types.InternshipListing {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = m.tick()
	m.internships = append(m.internships, l)
	return l
}

func (m *memStore) GetInternship(_ context.Context, id uuid.UUID) (*types.InternshipListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.internships {
		if l.ID == id {
			c := l
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memStore) activeNewestFirst() []types.InternshipListing {
	var out []types.InternshipListing
	for i := len(m.internships) - 1; i >= 0; i-- {
		if m.internships[i].IsActive {
			out = append(out, m.internships[i])
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func overlaps(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

func (m *memStore) ListInternships(_ context.Context, f types.InternshipFilters) ([]types.InternshipListing, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []types.InternshipListing{}
	for _, l := range m.activeNewestFirst() {
		if f.Search != "" && !containsFold(l.Title, f.Search) && !containsFold(l.Company, f.Search) && !containsFold(l.Description, f.Search) {
			continue
		}
		if len(f.Tags) > 0 && !overlaps(l.Tags, f.Tags) {
			continue
		}
		if len(f.TechStack) > 0 && !overlaps(l.TechStack, f.TechStack) {
			continue
		}
		if f.Location != "" && !containsFold(l.Location, f.Location) {
			continue
		}
		matched = append(matched, l)
	}

	start := min(f.Offset(), len(matched))
	end := min(start+f.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func (m *memStore) ListActiveInternships(_ context.Context) ([]types.InternshipListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.activeNewestFirst()
	if out == nil {
		out = []types.InternshipListing{}
	}
	return out, nil
}

func (m *memStore) InternshipFilterOptions(_ context.Context) (*types.FilterOptions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var tags, tech, locations []string
	for _, l := range m.activeNewestFirst() {
		tags = append(tags, l.Tags...)
		tech = append(tech, l.TechStack...)
		locations = append(locations, l.Location)
	}
	sortUnique := func(v []string) []string {
		slices.Sort(v)
		return append([]string{}, slices.Compact(v)...)
	}
	return &types.FilterOptions{Tags: sortUnique(tags), TechStacks: sortUnique(tech), Locations: sortUnique(locations)}, nil
}

func (m *memStore) CreateRecommendationLog(_ context.Context, userID uuid.UUID, entries []types.RecommendationLogEntry) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.logErr != nil {
		return uuid.Nil, m.logErr
	}
	log := types.RecommendationLog{ID: uuid.New(), UserID: userID, Recommendations: entries, CreatedAt: m.tick()}
	m.logs = append(m.logs, log)
	return log.ID, nil
}

func (m *memStore) ListRecommendationLogs(_ context.Context, userID uuid.UUID, page, limit int) ([]types.RecommendationLog, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var mine []types.RecommendationLog
	for i := len(m.logs) - 1; i >= 0; i-- {
		if m.logs[i].UserID == userID {
			mine = append(mine, m.logs[i])
		}
	}
	start := min((page-1)*limit, len(mine))
	end := min(start+limit, len(mine))
	return append([]types.RecommendationLog{}, mine[start:end]...), len(mine), nil
}

// fakeGitHub serves canned summaries keyed by username.
type fakeGitHub struct {
	mu       sync.Mutex
	profiles map[string]*types.ActivitySummary
	err      error
	calls    []string
}

func (f *fakeGitHub) FetchProfile(_ context.Context, username string) (*types.ActivitySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, username)
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[username]
	if !ok {
		return nil, errors.New("unexpected username " + username)
	}
	return p, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            5000,
			ClientURL:       "http://localhost:5173",
			ShutdownTimeout: time.Second,
		},
		DatabaseURL:     "postgres://localhost/internradar_test",
		JWT:             config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 24},
		Password:        config.PasswordConfig{BcryptCost: config.MinBcryptCost},
		Recommendations: config.RecommendationsConfig{DefaultLimit: 10, MaxLimit: 50, Weights: ranking.DefaultWeights()},
		RateLimit:       config.RateLimitConfig{Enabled: false},
	}
}

type testEnv struct {
	server *Server
	store  *memStore
	github *fakeGitHub
	logs   *observer.ObservedLogs
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	core, logs := observer.New(zap.DebugLevel)
	store := newMemStore()
	gh := &fakeGitHub{profiles: map[string]*types.ActivitySummary{}}

	srv, err := New(cfg, store, gh, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, store: store, github: gh, logs: logs}
}

// do sends a request through the full middleware chain.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

// signup registers a user and returns the user and token.
func (e *testEnv) signup(t *testing.T, name, email string) (*types.User, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": name, "email": email, "password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data types.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.User, resp.Data.Token
}

// decodeEnvelope decodes a response body; data is decoded into out when non-nil.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, out any) envelope {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return envelope{Success: raw.Success, Message: raw.Message, Error: raw.Error}
}
