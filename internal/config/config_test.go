package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"jwt_secret": "s",
		"database": {"host": "db", "user": "u", "dbname": "trailmark"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, 24, cfg.JWTTTLHours)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Equal(t, "local", cfg.FileStore.Type)
	require.EqualValues(t, defaultPhotoMaxSize, cfg.Photo.MaxSize)
	require.Equal(t, defaultTagCacheSize, cfg.TagCacheSize)
	require.Equal(t, defaultPhotoGCCron, cfg.PhotoGCCron)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TRAILMARK_PORT", "9090")
	t.Setenv("TRAILMARK_DB_DRIVER", "SQLite")
	t.Setenv("TRAILMARK_DB_DSN", "/tmp/trailmark.db")
	t.Setenv("TRAILMARK_CORS_ALLOWLIST", "https://a.example,https://b.example")
	path := writeConfig(t, `{"port": 8080, "jwt_secret": "s"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "/tmp/trailmark.db", cfg.Database.DSN)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowlist)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing secret", body: `{"port": 1, "database": {"host": "db"}}`},
		{name: "missing port", body: `{"jwt_secret": "s", "database": {"host": "db"}}`},
		{name: "missing database", body: `{"port": 1, "jwt_secret": "s"}`},
		{name: "sqlite without dsn", body: `{"port": 1, "jwt_secret": "s", "database": {"driver": "sqlite"}}`},
		{name: "unknown driver", body: `{"port": 1, "jwt_secret": "s", "database": {"driver": "mysql", "dsn": "x"}}`},
		{name: "bad json", body: `{"port": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
