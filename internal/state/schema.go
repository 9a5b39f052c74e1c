package state

import "codeberg.org/mutker/ryzenctl/internal/storage"

const SchemaVersion = 1

var schema = storage.Schema{
	Name:    "state",
	Version: SchemaVersion,
	Tables:  []string{"profile", "applied_state"},
	CreateSQL: `
	CREATE TABLE IF NOT EXISTS profile (
		id            INTEGER PRIMARY KEY CHECK (id = 1),
		model_name    TEXT NOT NULL,
		vendor        TEXT NOT NULL,
		signature     TEXT NOT NULL,
		voltage       TEXT NOT NULL,
		max_speed     TEXT NOT NULL,
		current_speed TEXT NOT NULL,
		core_count    INTEGER NOT NULL,
		core_enabled  INTEGER NOT NULL,
		thread_count  INTEGER NOT NULL,
		source        TEXT NOT NULL,
		architecture  TEXT NOT NULL,
		codename      TEXT NOT NULL,
		category      TEXT NOT NULL,
		preset_group  TEXT NOT NULL,
		detected_at   INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS applied_state (
		id               INTEGER PRIMARY KEY CHECK (id = 1),
		preset           TEXT NOT NULL,
		custom_args      TEXT NOT NULL,
		dynamic_mode     INTEGER NOT NULL CHECK (dynamic_mode IN (0, 1)),
		auto_reapply     INTEGER NOT NULL CHECK (auto_reapply IN (0, 1)),
		apply_on_start   INTEGER NOT NULL CHECK (apply_on_start IN (0, 1)),
		interval_seconds INTEGER NOT NULL CHECK (interval_seconds >= 1),
		updated_at       INTEGER NOT NULL
	);`,
}

const (
	upsertProfileSQL = `
	INSERT INTO profile (
		id, model_name, vendor, signature, voltage, max_speed, current_speed,
		core_count, core_enabled, thread_count, source,
		architecture, codename, category, preset_group, detected_at
	) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		model_name = excluded.model_name,
		vendor = excluded.vendor,
		signature = excluded.signature,
		voltage = excluded.voltage,
		max_speed = excluded.max_speed,
		current_speed = excluded.current_speed,
		core_count = excluded.core_count,
		core_enabled = excluded.core_enabled,
		thread_count = excluded.thread_count,
		source = excluded.source,
		architecture = excluded.architecture,
		codename = excluded.codename,
		category = excluded.category,
		preset_group = excluded.preset_group,
		detected_at = excluded.detected_at`

	selectProfileSQL = `
	SELECT model_name, vendor, signature, voltage, max_speed, current_speed,
		core_count, core_enabled, thread_count, source,
		architecture, codename, category, preset_group, detected_at
	FROM profile WHERE id = 1`

	upsertAppliedSQL = `
	INSERT INTO applied_state (
		id, preset, custom_args, dynamic_mode, auto_reapply, apply_on_start,
		interval_seconds, updated_at
	) VALUES (1, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		preset = excluded.preset,
		custom_args = excluded.custom_args,
		dynamic_mode = excluded.dynamic_mode,
		auto_reapply = excluded.auto_reapply,
		apply_on_start = excluded.apply_on_start,
		interval_seconds = excluded.interval_seconds,
		updated_at = excluded.updated_at`

	selectAppliedSQL = `
	SELECT preset, custom_args, dynamic_mode, auto_reapply, apply_on_start, interval_seconds
	FROM applied_state WHERE id = 1`
)
