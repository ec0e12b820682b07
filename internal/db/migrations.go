package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run. Each one must be
// safe to run against a database that already has it applied.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT     PRIMARY KEY,
		value      TEXT     NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	// One row per write; value is NULL for removals.
	`CREATE TABLE IF NOT EXISTS kv_changes (
		seq        INTEGER  PRIMARY KEY AUTOINCREMENT,
		key        TEXT     NOT NULL,
		value      TEXT,
		removed    INTEGER  NOT NULL DEFAULT 0,
		tab        TEXT     NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_kv_changes_key ON kv_changes (key)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
