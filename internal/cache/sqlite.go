// ABOUTME: SQLite-backed cache store so separate CLI runs share cached responses
// ABOUTME: Uses the pure-Go modernc.org/sqlite driver with WAL journaling

package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is a Store persisted in a single database file
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (creating if needed) the cache database at path
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection avoids SQLITE_BUSY between our own goroutines.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA synchronous=NORMAL`,
		`PRAGMA busy_timeout=5000`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configuring cache database: %w", err)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating cache database: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.sweep(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func runMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		fetched_at INTEGER NOT NULL,
		stale_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cache_entries_expires_at ON cache_entries(expires_at);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLite) Get(ctx context.Context, key string) (Entry, bool, error) {
	var (
		e                          Entry
		fetched, stale, expiration int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, fetched_at, stale_at, expires_at FROM cache_entries WHERE key = ? AND expires_at > ?`,
		key, s.now().UnixMilli(),
	).Scan(&e.Value, &fetched, &stale, &expiration)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, mapClosed(err)
	}

	e.FetchedAt = time.UnixMilli(fetched)
	e.StaleAt = time.UnixMilli(stale)
	e.ExpiresAt = time.UnixMilli(expiration)
	return e, true, nil
}

func (s *SQLite) Set(ctx context.Context, key string, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, fetched_at, stale_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			fetched_at = excluded.fetched_at,
			stale_at = excluded.stale_at,
			expires_at = excluded.expires_at`,
		key, e.Value, e.FetchedAt.UnixMilli(), e.StaleAt.UnixMilli(), e.ExpiresAt.UnixMilli(),
	)
	return mapClosed(err)
}

func (s *SQLite) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	_, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key IN (`+placeholders+`)`, args...)
	return mapClosed(err)
}

func (s *SQLite) Purge(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	return mapClosed(err)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// sweep drops entries past retention
func (s *SQLite) sweep(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE expires_at <= ?`, s.now().UnixMilli())
	return err
}

func mapClosed(err error) error {
	if err != nil && strings.Contains(err.Error(), "database is closed") {
		return ErrClosed
	}
	return err
}
