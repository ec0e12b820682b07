package kv

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

var postgresDialect = dialect{
	name: "postgres",
	get:  "SELECT value FROM kv WHERE key = $1",
	upsert: `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = now()`,
	remove:  "DELETE FROM kv WHERE key = $1",
	journal: "INSERT INTO kv_changes (key, value, removed, tab) VALUES ($1, $2, $3, $4)",
	poll:    "SELECT seq, key, COALESCE(value, ''), removed, tab FROM kv_changes WHERE seq > $1 ORDER BY seq",
	maxSeq:  "SELECT COALESCE(MAX(seq), 0) FROM kv_changes",
	trim:    "DELETE FROM kv_changes WHERE seq <= (SELECT COALESCE(MAX(seq), 0) FROM kv_changes) - $1",
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS kv_changes (
		seq        BIGSERIAL PRIMARY KEY,
		key        TEXT NOT NULL,
		value      TEXT,
		removed    BOOLEAN NOT NULL DEFAULT false,
		tab        TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OpenPostgres connects to a PostgreSQL origin, creating its tables if needed.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	openMu.Lock()
	db, err := sqlOpen("pgx", dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	for i, stmt := range postgresSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres schema %d: %w", i, err)
		}
	}

	s, err := newSQLStore(db, postgresDialect, true)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
