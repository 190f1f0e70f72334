// Package testutil provides shared test helpers for creating config files and SQLite schedule stores.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/langner-srs/internal/config"
	"github.com/at-ishikawa/langner-srs/internal/database"
)

// SetupTestConfig creates a config file that points at a SQLite database in tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, orphanPolicy string) string {
	t.Helper()

	configContent := fmt.Sprintf(`database:
  driver: sqlite
  path: %s
srs:
  orphan_policy: %s
`,
		filepath.Join(tmpDir, "srs.db"),
		orphanPolicy,
	)

	configPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	return configPath
}

// OpenSQLiteDB migrates and opens a SQLite database under t.TempDir().
// The database is closed when the test finishes.
func OpenSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "srs.db"),
	}
	require.NoError(t, database.Migrate(cfg))

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
