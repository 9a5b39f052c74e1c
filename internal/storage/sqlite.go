// Package storage opens the SQLite files ryzenctl keeps its state and
// history in, and keeps their schemas current.
package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultDirPerm = 0o755
	backupDirName  = "backups"
)

// Open opens (creating if needed) the database at path and brings schema up
// to date. Outdated databases are backed up next to the file.
func Open(path string, schema Schema, log logger.Logger) (*sql.DB, error) {
	errFactory := errors.New()

	if path == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  path,
			Error: err.Error(),
		})
	}

	dsn := path + "?_journal=WAL&_auto_vacuum=2&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	if err := ValidateAndUpdateSchema(db, schema, filepath.Join(dir, backupDirName), log); err != nil {
		db.Close()
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	return db, nil
}

// Close checkpoints the WAL and closes db.
func Close(db *sql.DB) error {
	errFactory := errors.New()

	if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errFactory.WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "checkpoint_wal",
			Error: err.Error(),
		})
	}

	if err := db.Close(); err != nil {
		return errFactory.WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "close_database",
			Error: err.Error(),
		})
	}

	return nil
}

func BoolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
