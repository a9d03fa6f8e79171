package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"ledger/database"

	"github.com/stretchr/testify/require"
)

// SetupSQLiteDatabase creates a migrated SQLite file in a per-test temp directory
func SetupSQLiteDatabase(t *testing.T) *database.SQLiteDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger_test.db")
	require.NoError(t, database.RunSQLiteMigrations(path))

	db, err := database.OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}
