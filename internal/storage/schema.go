package storage

import (
	"database/sql"
	"time"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
)

const createVersionsSQL = `
	CREATE TABLE IF NOT EXISTS schema_versions (
		version     INTEGER PRIMARY KEY,
		applied_at  TEXT NOT NULL
	);`

// Schema describes the tables owned by one database file.
type Schema struct {
	// Name prefixes backup files.
	Name    string
	Version int
	// Tables are dropped, in order, when the version changes.
	Tables    []string
	CreateSQL string
}

// GetSchemaVersion returns the recorded schema version, or 0 for a new
// database.
func GetSchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_versions'`,
	).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, nil
	}

	var version sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_versions`).Scan(&version); err != nil {
		return 0, err
	}

	return int(version.Int64), nil
}

// InitSchema creates the tables and records the schema version.
func InitSchema(db *sql.DB, schema Schema, log logger.Logger) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				log.Debug().Err(err).Msg("Failed to rollback schema init")
			}
		}
	}()

	if _, err := tx.Exec(createVersionsSQL + schema.CreateSQL); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Phase string
			Error string
		}{
			Phase: "create_tables",
			Error: err.Error(),
		})
	}

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO schema_versions (version, applied_at) VALUES (?, ?)`,
		schema.Version, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Phase string
			Error string
		}{
			Phase: "record_version",
			Error: err.Error(),
		})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	log.Debug().
		Str("schema", schema.Name).
		Int("version", schema.Version).
		Msg("Schema initialized")

	return nil
}
