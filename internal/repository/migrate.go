package repository

import (
	"context"
	"fmt"
)

const (
	tableRuns        = "runs"
	tableAssignments = "assignments"
)

// schemaStatements is valid for both postgres and sqlite. Free-form columns
// are text: the roster engine passes through tokens like "08:30 Uhr bis 12:00 Uhr".
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ` + tableRuns + ` (
	id            text    NOT NULL PRIMARY KEY,
	source_path   text    NOT NULL,
	content_hash  text    NOT NULL UNIQUE,
	status        text    NOT NULL,
	records       integer NOT NULL DEFAULT 0,
	error_message text,
	created_at    text    NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS ` + tableAssignments + ` (
	id       text    NOT NULL PRIMARY KEY,
	run_id   text    NOT NULL REFERENCES ` + tableRuns + `(id) ON DELETE CASCADE,
	position integer NOT NULL,
	day      text    NOT NULL,
	slot     text    NOT NULL,
	who      text    NOT NULL,
	location text    NOT NULL,
	docket   text    NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS assignments_run_position ON ` + tableAssignments + ` (run_id, position)`,
	`CREATE INDEX IF NOT EXISTS assignments_day ON ` + tableAssignments + ` (day)`,
}

// Migrate creates the runs and assignments tables when they do not exist yet.
// Timestamps are stored as RFC 3339 text so both dialects share one schema.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if err := db.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			db.logger.Error("migration failed", "statement", stmt, "error", err)
			return fmt.Errorf("migrate: %w", err)
		}
	}
	db.logger.Info("database schema ready", "dialect", db.dialect)
	return nil
}
