package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("STORAGE_BACKEND", "s3")
	os.Setenv("MINIO_USE_SSL", "true")
	os.Setenv("GEMINI_MODEL", "gemini-1.5-flash")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("STORAGE_BACKEND")
		os.Unsetenv("MINIO_USE_SSL")
		os.Unsetenv("GEMINI_MODEL")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.True(t, cfg.Storage.MinIO.UseSSL)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("ALLOWED_ORIGINS")
	os.Unsetenv("STORAGE_BACKEND")
	os.Unsetenv("UPLOAD_DIR")

	cfg := Load()

	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:5174",
	}, cfg.AllowedOrigins)
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

	os.Setenv(key, "not-a-bool")
	assert.False(t, getEnvBool(key, false))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "42")
	assert.Equal(t, 42, getEnvInt(key, 1))

	os.Setenv(key, "not-an-int")
	assert.Equal(t, 1, getEnvInt(key, 1))

	os.Unsetenv(key)
	assert.Equal(t, 7, getEnvInt(key, 7))
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"

	os.Setenv(key, "http://a.test, http://b.test ,")
	defer os.Unsetenv(key)

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getEnvList(key, ""))
}
