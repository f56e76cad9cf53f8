package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.NotEmpty(t, cfg.JWTSecret, "development gets a fallback secret")
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "grievances")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://cms.example.edu")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "grievances", cfg.DBName)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"http://localhost:3000", "https://cms.example.edu"}, cfg.CORSOrigins)
}

func TestLoadConfigInvalidRedisDB(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfigProduction(t *testing.T) {
	t.Setenv("ENV", "production")

	cfg := &Config{ServerPort: "8080", DBSSLMode: "disable"}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "DB_SSL_MODE")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())

	t.Setenv("ENV", "bogus")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
