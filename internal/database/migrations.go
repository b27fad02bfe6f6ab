package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order; each runs once and is recorded in
// schema_migrations by its position
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS archived_tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		final_column TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		archived_at TEXT NOT NULL,
		archived_by TEXT NOT NULL,
		UNIQUE (task_id, completed_at)
	)`,
	`CREATE TABLE IF NOT EXISTS archived_history (
		archived_task_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		column_name TEXT NOT NULL,
		entered_at TEXT NOT NULL,
		PRIMARY KEY (archived_task_id, seq),
		FOREIGN KEY (archived_task_id) REFERENCES archived_tasks(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_archived_tasks_order
		ON archived_tasks(archived_at, task_id)`,
}

// runMigrations creates the database schema if needed
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY
		)
	`)
	if err != nil {
		return err
	}

	var applied int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
		return err
	}

	for version := applied; version < len(migrations); version++ {
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migrations[version]); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version+1)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d: %w", version+1, err)
		}
	}

	return nil
}
