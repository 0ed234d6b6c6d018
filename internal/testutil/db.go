package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/trailmark/internal/config"
	"github.com/xxxsen/trailmark/internal/db"
)

// OpenTestDB returns a migrated database. It uses postgres when TEST_DB_HOST
// is set and a throwaway sqlite file otherwise.
func OpenTestDB(t *testing.T) *db.DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "trailmark.db"),
	}
	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		cfg = config.DatabaseConfig{
			Driver:   "postgres",
			Host:     host,
			Port:     5432,
			User:     "trailmark",
			Password: "trailmark_pass",
			DBName:   "trailmark_test",
			SSLMode:  "disable",
		}
	}
	conn, err := db.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations(conn))
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}
