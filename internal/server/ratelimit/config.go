package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/internradar/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" means prefix match)
	Method string        // HTTP method
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration // buckets unused for longer are dropped by cleanup
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// FromSettings builds a limiter Config from the application configuration.
func FromSettings(s config.RateLimitConfig) *Config {
	return &Config{
		Enabled:         s.Enabled,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		IdleTimeout:     time.Hour,
		Whitelist:       toSet(s.Whitelist),
		Blacklist:       toSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// GitHub scans spend the shared API quota
		{Path: "/api/github/scan", Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/github/profile/", Method: http.MethodGet, Limit: 30, Window: time.Hour, Burst: 5},

		// Credential endpoints
		{Path: "/api/auth/signup", Method: http.MethodPost, Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/auth/login", Method: http.MethodPost, Limit: 60, Window: time.Hour, Burst: 10},

		// Writes
		{Path: "/api/users/", Method: http.MethodPut, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/internships", Method: http.MethodPost, Limit: 100, Window: time.Minute, Burst: 10},

		// Ranking runs score every active listing
		{Path: "/api/recommendations", Method: http.MethodGet, Limit: 60, Window: time.Minute, Burst: 10},
	}
}

func toSet(values []string) map[string]bool {
	result := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result[v] = true
		}
	}
	return result
}
