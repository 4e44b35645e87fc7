package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadDefaults(t *testing.T) {
	noEnvFile(t)
	t.Setenv("DB_URL", "postgres://localhost/filekeep")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "disk", cfg.BlobBackend)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, int64(100<<20), cfg.MaxUploadBytes())
	assert.False(t, cfg.R2.Enabled)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CorsConfig.AllowedOrigins)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=sqlite\nDB_URL=filekeep.db\nMAX_UPLOAD_MB=5\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	// godotenv does not override variables that are already set.
	t.Setenv("PORT", "9090")

	// Keep the loaded keys from leaking into other tests.
	for _, key := range []string{"DB_DRIVER", "DB_URL", "MAX_UPLOAD_MB"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "filekeep.db", cfg.DBURL)
	assert.Equal(t, int64(5), cfg.MaxUploadMB)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing db url":  {},
		"unknown driver":  {"DB_URL": "x", "DB_DRIVER": "mysql"},
		"unknown backend": {"DB_URL": "x", "BLOB_BACKEND": "ftp"},
		"bad port":        {"DB_URL": "x", "PORT": "http"},
		"r2 without keys": {"DB_URL": "x", "BLOB_BACKEND": "r2"},
		"zero upload cap": {"DB_URL": "x", "MAX_UPLOAD_MB": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			noEnvFile(t)
			t.Setenv("DB_URL", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadR2(t *testing.T) {
	noEnvFile(t)
	t.Setenv("DB_URL", "x")
	t.Setenv("BLOB_BACKEND", "r2")
	t.Setenv("R2_ACCOUNT_ID", "acct")
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_BUCKET_NAME", "bucket")
	t.Setenv("R2_PRESIGN_DOWNLOADS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.R2.Enabled)
	assert.True(t, cfg.R2.PresignDownloads)
	assert.Equal(t, "auto", cfg.R2.Region)
}

func TestCorsConfig(t *testing.T) {
	opts := CorsConfig(" https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, opts.AllowedOrigins)
	assert.True(t, opts.AllowCredentials)
}
