// Package config provides layered configuration for InternRadar.
//
// Values come from, in increasing precedence: built-in defaults, an optional
// internradar.yaml file, environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/internradar/internal/ranking"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config is the complete application configuration.
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	DatabaseURL     string                `mapstructure:"database-url"`
	JWT             JWTConfig             `mapstructure:"jwt"`
	Password        PasswordConfig        `mapstructure:"password"`
	GitHub          GitHubConfig          `mapstructure:"github"`
	Recommendations RecommendationsConfig `mapstructure:"recommendations"`
	RateLimit       RateLimitConfig       `mapstructure:"rate-limit"`
	Log             LogConfig             `mapstructure:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ClientURL       string        `mapstructure:"client-url"` // CORS origin of the web client
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

// GitHubConfig holds GitHub REST API client settings.
type GitHubConfig struct {
	Token             string        `mapstructure:"token"`
	BaseURL           string        `mapstructure:"base-url"`
	UserAgent         string        `mapstructure:"user-agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests-per-second"`
	Burst             int           `mapstructure:"burst"`
}

// RecommendationsConfig bounds the limit query parameter and sets the scoring weights.
type RecommendationsConfig struct {
	DefaultLimit int             `mapstructure:"default-limit"`
	MaxLimit     int             `mapstructure:"max-limit"`
	Weights      ranking.Weights `mapstructure:"weights"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default-limit"`
	DefaultWindow   time.Duration `mapstructure:"default-window"`
	CleanupInterval time.Duration `mapstructure:"cleanup-interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// LogConfig selects the logger encoding and level.
// Debug wins over Level when both are set.
type LogConfig struct {
	JSON     bool   `mapstructure:"json"`
	Debug    bool   `mapstructure:"debug"`
	Level    string `mapstructure:"level"`
	Sampling bool   `mapstructure:"sampling"`
}

// envBindings maps configuration keys to the environment variables they read.
var envBindings = map[string]string{
	"server.port":                   "PORT",
	"server.client-url":             "CLIENT_URL",
	"database-url":                  "DATABASE_URL",
	"jwt.secret":                    "JWT_SECRET",
	"jwt.expiration-hours":          "JWT_EXPIRATION_HOURS",
	"password.bcrypt-cost":          "BCRYPT_COST",
	"password.pepper":               "PASSWORD_PEPPER",
	"github.token":                  "GITHUB_TOKEN",
	"github.base-url":               "GITHUB_API_URL",
	"github.requests-per-second":    "GITHUB_REQUESTS_PER_SECOND",
	"github.burst":                  "GITHUB_BURST",
	"recommendations.default-limit": "RECOMMENDATIONS_DEFAULT_LIMIT",
	"recommendations.max-limit":     "RECOMMENDATIONS_MAX_LIMIT",
	"rate-limit.enabled":            "RATE_LIMIT_ENABLED",
	"rate-limit.default-limit":      "RATE_LIMIT_DEFAULT",
	"rate-limit.default-window":     "RATE_LIMIT_WINDOW",
	"rate-limit.cleanup-interval":   "RATE_LIMIT_CLEANUP_INTERVAL",
	"rate-limit.whitelist":          "RATE_LIMIT_WHITELIST",
	"rate-limit.blacklist":          "RATE_LIMIT_BLACKLIST",
	"log.json":                      "LOG_JSON",
	"log.debug":                     "LOG_DEBUG",
	"log.level":                     "LOG_LEVEL",
	"log.sampling":                  "LOG_SAMPLING",
}

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.client-url", "http://localhost:5173")
	v.SetDefault("server.read-timeout", 15*time.Second)
	v.SetDefault("server.write-timeout", 30*time.Second)
	v.SetDefault("server.idle-timeout", 60*time.Second)
	v.SetDefault("server.shutdown-timeout", 30*time.Second)

	v.SetDefault("database-url", "")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration-hours", 24)

	v.SetDefault("password.bcrypt-cost", 12)
	v.SetDefault("password.pepper", "")

	v.SetDefault("github.token", "")
	v.SetDefault("github.base-url", "https://api.github.com")
	v.SetDefault("github.user-agent", "InternRadar")
	v.SetDefault("github.timeout", 15*time.Second)
	v.SetDefault("github.requests-per-second", 1.0)
	v.SetDefault("github.burst", 5)

	v.SetDefault("recommendations.default-limit", 10)
	v.SetDefault("recommendations.max-limit", 50)
	defaults := ranking.DefaultWeights()
	v.SetDefault("recommendations.weights.skills", defaults.Skills)
	v.SetDefault("recommendations.weights.interests", defaults.Interests)
	v.SetDefault("recommendations.weights.github", defaults.GitHub)
	v.SetDefault("recommendations.weights.experience", defaults.Experience)

	v.SetDefault("rate-limit.enabled", true)
	v.SetDefault("rate-limit.default-limit", 100)
	v.SetDefault("rate-limit.default-window", time.Minute)
	v.SetDefault("rate-limit.cleanup-interval", 5*time.Minute)
	v.SetDefault("rate-limit.whitelist", []string{})
	v.SetDefault("rate-limit.blacklist", []string{})

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.sampling", false)
}

// BindEnv binds every configuration key to its environment variable.
func BindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", key, env, err)
		}
	}
	return nil
}

// Load applies defaults and environment bindings to v and decodes the result.
// Flags and config files must be attached to v by the caller beforehand.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg.trim()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) trim() {
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.Server.ClientURL = strings.TrimSpace(c.Server.ClientURL)
	c.GitHub.Token = strings.TrimSpace(c.GitHub.Token)
	c.GitHub.BaseURL = strings.TrimRight(strings.TrimSpace(c.GitHub.BaseURL), "/")
	c.RateLimit.Whitelist = compact(c.RateLimit.Whitelist)
	c.RateLimit.Blacklist = compact(c.RateLimit.Blacklist)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks value ranges. Secrets and the database URL are checked
// separately by RequireServer since offline commands do not need them.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.JWT.ExpirationHours < 1 {
		return fmt.Errorf("config error: 'jwt.expiration-hours' must be at least 1, got %d", c.JWT.ExpirationHours)
	}
	if err := c.Password.normalize(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.GitHub.BaseURL == "" {
		return fmt.Errorf("config error: 'github.base-url' must not be empty")
	}
	if c.GitHub.RequestsPerSecond <= 0 {
		return fmt.Errorf("config error: 'github.requests-per-second' must be positive")
	}
	if c.GitHub.Burst < 1 {
		return fmt.Errorf("config error: 'github.burst' must be at least 1")
	}
	if c.GitHub.Timeout <= 0 {
		return fmt.Errorf("config error: 'github.timeout' must be positive")
	}
	if c.Recommendations.DefaultLimit < 1 {
		return fmt.Errorf("config error: 'recommendations.default-limit' must be at least 1")
	}
	if c.Recommendations.MaxLimit < c.Recommendations.DefaultLimit {
		return fmt.Errorf("config error: 'recommendations.max-limit' must not be below the default limit")
	}
	if err := c.Recommendations.Weights.Validate(); err != nil {
		return fmt.Errorf("config error: 'recommendations.weights': %w", err)
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("config error: 'log.level': %w", err)
		}
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultLimit < 1 {
			return fmt.Errorf("config error: 'rate-limit.default-limit' must be at least 1")
		}
		if c.RateLimit.DefaultWindow <= 0 {
			return fmt.Errorf("config error: 'rate-limit.default-window' must be positive")
		}
	}
	return nil
}

// RequireDatabase checks that a database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	return nil
}

// RequireServer checks everything the HTTP server needs beyond Validate.
func (c *Config) RequireServer() error {
	if err := c.RequireDatabase(); err != nil {
		return err
	}
	if err := c.JWT.normalize(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Address returns the listen address for the HTTP server.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
