package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
environment = "development"
host = "localhost"
port = 9000
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "fitassist_db"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
login_rate_limit_allowed_per_min = 15
coach_rate_limit_allowed_per_min = 10
gemini_api_url = "https://generativelanguage.googleapis.com"
gemini_model = "gemini-1.5-flash"

[production]
environment = "production"
host = "0.0.0.0"
port = 9000
log_level = "debug"
logs_path = "/var/log/fitassist/service.log"
sentry_enabled = true
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "fitassist_db"
redis_host = "redis"
redis_port = "6379"
prometheus_metrics_host = "0.0.0.0"
prometheus_metrics_port = "2112"
login_rate_limit_allowed_per_min = 15
coach_rate_limit_allowed_per_min = 10
gemini_api_url = "https://generativelanguage.googleapis.com"
gemini_model = "gemini-1.5-flash"
`

func TestLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfigToml), 0o600))

	cfg, err := Load("development", configPath)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.False(t, cfg.SentryEnabled)
	assert.Equal(t, "fitassist_db", cfg.PostgresDBName)
	assert.Equal(t, 10, cfg.CoachRateLimitAllowedPerMin)

	cfg, err = Load("prod", configPath)
	require.NoError(t, err)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, "/var/log/fitassist/service.log", cfg.LogsPath)

	_, err = Load("staging", configPath)
	assert.Error(t, err)
}
