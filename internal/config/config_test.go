package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origUser := os.Getenv("AUTH_USERNAME")
	defer os.Setenv("AUTH_USERNAME", origUser)

	os.Setenv("AUTH_USERNAME", "admin")
	os.Setenv("DOWNLOAD_TOKEN_TTL_SEC", "120")
	os.Setenv("MINIO_USE_SSL", "true")
	os.Setenv("CORS_ALLOW_ORIGINS", "http://a.example, http://b.example")
	defer func() {
		os.Unsetenv("DOWNLOAD_TOKEN_TTL_SEC")
		os.Unsetenv("MINIO_USE_SSL")
		os.Unsetenv("CORS_ALLOW_ORIGINS")
	}()

	cfg := Load()

	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.Equal(t, 2*time.Minute, cfg.Download.TokenTTL)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("DOWNLOAD_TOKEN_TTL_SEC")
	os.Unsetenv("ACCESS_TOKEN_TTL_MIN")
	os.Unsetenv("GEMINI_MODEL")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.Download.TokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV("a, b,"))
	assert.Empty(t, splitCSV(""))
}
