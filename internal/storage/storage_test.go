package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaV(version int) storage.Schema {
	return storage.Schema{
		Name:    "sample",
		Version: version,
		Tables:  []string{"items"},
		CreateSQL: `
			CREATE TABLE IF NOT EXISTS items (
				id   INTEGER PRIMARY KEY,
				name TEXT NOT NULL
			);`,
	}
}

func TestOpenInitializesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.db")

	db, err := storage.Open(path, schemaV(1), logger.Default())
	require.NoError(t, err)

	version, err := storage.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	_, err = db.Exec(`INSERT INTO items (name) VALUES ('a')`)
	require.NoError(t, err)
	require.NoError(t, storage.Close(db))

	// Same version keeps the data.
	db, err = storage.Open(path, schemaV(1), logger.Default())
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count))
	assert.Equal(t, 1, count)
	require.NoError(t, storage.Close(db))
}

func TestOpenMigratesWithBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.db")

	db, err := storage.Open(path, schemaV(1), logger.Default())
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO items (name) VALUES ('a')`)
	require.NoError(t, err)
	require.NoError(t, storage.Close(db))

	db, err = storage.Open(path, schemaV(2), logger.Default())
	require.NoError(t, err)
	defer storage.Close(db)

	version, err := storage.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count))
	assert.Zero(t, count)

	backups, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Contains(t, backups[0].Name(), "sample_v1_")
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := storage.Open("", schemaV(1), logger.Default())
	assert.True(t, errors.HasCode(err, storage.ErrInvalidDBPath))
}
