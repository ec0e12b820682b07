package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// dialect holds the statements a SQL origin needs. Values live in the kv
// table; every write also appends to the kv_changes journal so other
// processes can replay it as a change signal.
type dialect struct {
	name    string
	get     string
	upsert  string
	remove  string
	journal string
	poll    string
	maxSeq  string
	trim    string
}

var sqliteDialect = dialect{
	name: "sqlite",
	get:  "SELECT value FROM kv WHERE key = ?",
	upsert: `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
	remove:  "DELETE FROM kv WHERE key = ?",
	journal: "INSERT INTO kv_changes (key, value, removed, tab) VALUES (?, ?, ?, ?)",
	poll:    "SELECT seq, key, COALESCE(value, ''), removed, tab FROM kv_changes WHERE seq > ? ORDER BY seq",
	maxSeq:  "SELECT COALESCE(MAX(seq), 0) FROM kv_changes",
	trim:    "DELETE FROM kv_changes WHERE seq <= (SELECT COALESCE(MAX(seq), 0) FROM kv_changes) - ?",
}

// SQLStore is an origin backed by a SQL database shared between processes.
// Each SQLStore value is one tab.
type SQLStore struct {
	db        *sql.DB
	d         dialect
	tab       string
	ownsDB    bool
	listeners listeners

	pollMu  sync.Mutex
	lastSeq int64
}

var (
	_ Store    = (*SQLStore)(nil)
	_ Notifier = (*SQLStore)(nil)
)

// NewSQLite creates a tab over a SQLite database opened by db.Open.
// Changes already in the journal are not replayed.
func NewSQLite(db *sql.DB) (*SQLStore, error) {
	return newSQLStore(db, sqliteDialect, false)
}

func newSQLStore(db *sql.DB, d dialect, owns bool) (*SQLStore, error) {
	s := &SQLStore{db: db, d: d, tab: uuid.NewString(), ownsDB: owns}
	if err := db.QueryRow(d.maxSeq).Scan(&s.lastSeq); err != nil {
		return nil, fmt.Errorf("reading journal position: %w", err)
	}
	return s, nil
}

// ID returns the tab identifier stamped on journal entries.
func (s *SQLStore) ID() string {
	return s.tab
}

// Get returns the value for key. Read errors are logged and treated as absent.
func (s *SQLStore) Get(key string) (string, bool) {
	var v string
	err := s.db.QueryRow(s.d.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		slog.Warn("kv read failed", "store", s.d.name, "key", key, "error", err)
		return "", false
	}
	return v, true
}

// Set writes value and journals the change.
func (s *SQLStore) Set(key, value string) error {
	return s.inTx(func(tx *sql.Tx) error {
		var old string
		err := tx.QueryRow(s.d.get, key).Scan(&old)
		if err == nil && old == value {
			return nil
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("reading %s: %w", key, err)
		}

		if _, err := tx.Exec(s.d.upsert, key, value); err != nil {
			return fmt.Errorf("writing %s: %w", key, err)
		}
		if _, err := tx.Exec(s.d.journal, key, value, false, s.tab); err != nil {
			return fmt.Errorf("journaling %s: %w", key, err)
		}
		return nil
	})
}

// Remove deletes key and journals the change.
func (s *SQLStore) Remove(key string) error {
	return s.inTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(s.d.remove, key)
		if err != nil {
			return fmt.Errorf("removing %s: %w", key, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rows == 0 {
			return nil
		}
		if _, err := tx.Exec(s.d.journal, key, nil, true, s.tab); err != nil {
			return fmt.Errorf("journaling %s: %w", key, err)
		}
		return nil
	})
}

func (s *SQLStore) inTx(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (also failed to roll back: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// OnChange registers fn for changes journaled by other tabs.
// Listeners fire from Poll.
func (s *SQLStore) OnChange(fn func(Change)) func() {
	return s.listeners.add(fn)
}

// Poll reads journal entries written since the last poll and fires
// listeners for the ones made by other tabs.
func (s *SQLStore) Poll() error {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	rows, err := s.db.Query(s.d.poll, s.lastSeq)
	if err != nil {
		return fmt.Errorf("polling journal: %w", err)
	}

	var changes []Change
	for rows.Next() {
		var seq int64
		var c Change
		if err := rows.Scan(&seq, &c.Key, &c.Value, &c.Removed, &c.SourceID); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scanning journal: %w", err)
		}
		s.lastSeq = seq
		if c.SourceID != s.tab {
			changes = append(changes, c)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("iterating journal: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("closing rows: %w", err)
	}

	for _, c := range changes {
		s.listeners.fire(c)
	}
	return nil
}

// Watch polls the journal every interval until ctx is done.
func (s *SQLStore) Watch(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Poll(); err != nil {
				slog.Warn("journal poll failed", "store", s.d.name, "error", err)
			}
		}
	}
}

// TrimJournal drops all but the newest keep journal entries.
func (s *SQLStore) TrimJournal(keep int64) (int64, error) {
	result, err := s.db.Exec(s.d.trim, keep)
	if err != nil {
		return 0, fmt.Errorf("trimming journal: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

// Close releases the database when the store opened it itself.
func (s *SQLStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
