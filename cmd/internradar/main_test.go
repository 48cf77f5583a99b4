package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "internradar version: unknown\n", stdout)
}

func TestMigrate_Print(t *testing.T) {
	stdout, _, err := execute(t, "migrate", "--print")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CREATE TABLE IF NOT EXISTS users")
	assert.Contains(t, stdout, "recommendation_logs")
}

func TestLoadConfig_File(t *testing.T) {
	t.Cleanup(func() { cfgFile = "" })

	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := loadConfig()
	require.Error(t, err)

	cfgFile = useConfigFile(t, `
server:
  port: 6000
recommendations:
  default-limit: 5
  max-limit: 20
rate-limit:
  whitelist: ["127.0.0.1", " "]
`)
	t.Setenv("JWT_EXPIRATION_HOURS", "48")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Recommendations.DefaultLimit)
	assert.Equal(t, 20, cfg.Recommendations.MaxLimit)
	assert.Equal(t, []string{"127.0.0.1"}, cfg.RateLimit.Whitelist)
	assert.Equal(t, 48, cfg.JWT.ExpirationHours)
}

func TestSetActive_InvalidID(t *testing.T) {
	_, _, err := execute(t, "set-active", "--id", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid internship id")
}
