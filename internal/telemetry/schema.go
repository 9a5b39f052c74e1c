package telemetry

import "codeberg.org/mutker/ryzenctl/internal/storage"

const SchemaVersion = 1

var schema = storage.Schema{
	Name:    "telemetry",
	Version: SchemaVersion,
	Tables:  []string{"cycles"},
	CreateSQL: `
	CREATE TABLE IF NOT EXISTS cycles (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp    INTEGER NOT NULL CHECK (typeof(timestamp) = 'integer'),
		session_id   TEXT NOT NULL,
		preset       TEXT NOT NULL,
		arguments    TEXT NOT NULL,
		power_source TEXT NOT NULL,
		exit_code    INTEGER NOT NULL CHECK (typeof(exit_code) = 'integer'),
		succeeded    INTEGER NOT NULL CHECK (succeeded IN (0, 1)),
		duration_ms  INTEGER NOT NULL CHECK (typeof(duration_ms) = 'integer')
	);
	CREATE INDEX IF NOT EXISTS cycles_timestamp ON cycles (timestamp);`,
}

const (
	insertCycleSQL = `
	INSERT INTO cycles (
		timestamp, session_id, preset, arguments, power_source,
		exit_code, succeeded, duration_ms
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	selectRecentSQL = `
	SELECT timestamp, session_id, preset, arguments, power_source,
		exit_code, succeeded, duration_ms
	FROM cycles ORDER BY id DESC LIMIT ?`
)
