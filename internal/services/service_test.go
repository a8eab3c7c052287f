package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vilebranco/catalogo-be/internal/database"
)

// newTestDB opens a fresh SQLite database in a per-test temp directory. A
// file-backed database is used instead of :memory: because the pool may open
// more than one connection.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}
