package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"ENV", "HTTP_ADDR", "JWT_SECRET", "JWT_ISSUER", "ACCESS_TOKEN_TTL", "BCRYPT_COST",
	"DB_ADDR", "DB_DEBUG", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"RABBIT_URL", "RABBIT_EXCHANGE", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT",
	"HTTP_IDLE_TIMEOUT", "LOGIN_RATE_LIMIT", "LOGIN_RATE_WINDOW",
	"ENABLE_FAKE_USERS", "LOG_LEVEL", "LOG_FORMAT",
}

// cleanEnv isolates a test from the host environment and any .env file.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
	t.Chdir(t.TempDir())
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	cleanEnv(t)

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_DevDefaults(t *testing.T) {
	cleanEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Empty(t, cfg.DBAddr, "dev allows the in-memory store")
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, time.Minute, cfg.LoginRateWindow)
	assert.Equal(t, "users.events", cfg.RabbitExchange)
	assert.Equal(t, "user-service", cfg.JWTIssuer)
	assert.False(t, cfg.FakeUsersEnabled())
}

func TestLoad_ProdRequiresDB(t *testing.T) {
	cleanEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENV", "prod")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_ADDR")
}

func TestLoad_InvalidEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENV", "qa")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"ACCESS_TOKEN_TTL":  "soon",
		"HTTP_READ_TIMEOUT": "x",
		"LOGIN_RATE_LIMIT":  "ten",
		"REDIS_DB":          "one",
		"DB_DEBUG":          "maybe",
		"ENABLE_FAKE_USERS": "sure",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			cleanEnv(t)
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(key, val)

			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoad_NonPositiveTTL(t *testing.T) {
	cleanEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL", "0s")

	_, err := Load()
	assert.Error(t, err)
}

func TestFakeUsersEnabled_NeverInProd(t *testing.T) {
	cleanEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENABLE_FAKE_USERS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.FakeUsersEnabled())

	t.Setenv("ENV", "prod")
	t.Setenv("DB_ADDR", "postgres://u:p@localhost/db")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.FakeUsersEnabled())
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	cleanEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("JWT_SECRET=from-file\nLOGIN_RATE_LIMIT=3\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("JWT_SECRET")
		_ = os.Unsetenv("LOGIN_RATE_LIMIT")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 3, cfg.LoginRateLimit)
}
