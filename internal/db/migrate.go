package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// migrations is the full, ordered schema for the scheduler's reference
// persistence layer: tasks/milestones/projects/habits (§3 data model) plus
// the learning module's single long-lived blob (§6, §4.8).
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		deadline    TEXT,
		start_date  TEXT NOT NULL,
		progress_pct REAL NOT NULL DEFAULT 0,
		tags        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS milestones (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		"order"         INTEGER NOT NULL,
		title           TEXT NOT NULL,
		estimated_hours REAL NOT NULL DEFAULT 0,
		deadline        TEXT,
		progress_pct    REAL NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_milestones_project ON milestones(project_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		title             TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'pending'
		                  CHECK(status IN ('pending','in_progress','completed','blocked','cancelled')),
		priority          TEXT NOT NULL DEFAULT 'medium'
		                  CHECK(priority IN ('urgent','high','medium','low')),
		estimated_minutes INTEGER NOT NULL DEFAULT 30,
		actual_minutes    INTEGER,
		due_date          TEXT,
		scheduled_start   TEXT,
		scheduled_end     TEXT,
		project_id        TEXT REFERENCES projects(id) ON DELETE SET NULL,
		milestone_id      TEXT REFERENCES milestones(id) ON DELETE SET NULL,
		tags              TEXT NOT NULL DEFAULT '',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_milestone ON tasks(milestone_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,

	`CREATE TABLE IF NOT EXISTS task_dependencies (
		blocked_task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		blocking_task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		PRIMARY KEY (blocked_task_id, blocking_task_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_deps_blocking ON task_dependencies(blocking_task_id)`,

	`CREATE TABLE IF NOT EXISTS habits (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		frequency        TEXT NOT NULL DEFAULT 'daily'
		                 CHECK(frequency IN ('daily','weekly','custom')),
		scheduled_time   TEXT,
		duration_minutes INTEGER NOT NULL DEFAULT 30,
		weekdays         TEXT NOT NULL DEFAULT '',
		active           INTEGER NOT NULL DEFAULT 1
	)`,

	`CREATE TABLE IF NOT EXISTS learning_data (
		id         TEXT PRIMARY KEY DEFAULT 'default',
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}
