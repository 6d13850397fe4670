// Package store implements the keyed document store every feature reads and
// writes through. Each collection (users, sectors, roles, bookings, settings,
// current session) is one JSON document stored under its key in a single
// SQLite table, so multi-key writes can share a transaction.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages the SQLite connection backing the document table.
type Store struct {
	db *sql.DB
}

// Open creates a store for the given SQLite DSN. Call Migrate before use.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping tests the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the document table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS documents (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: failed to apply schema: %v", ErrPersistence, err)
	}
	return nil
}

// Get loads the document stored under key into out. Returns ErrNotFound when
// the key has never been written.
func (s *Store) Get(ctx context.Context, key string, out any) error {
	if key == "" {
		return ErrNotFound
	}

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: failed to read %q: %v", ErrPersistence, key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: failed to decode %q: %v", ErrPersistence, key, err)
	}
	return nil
}

// Put stores value as the document under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %q: %v", ErrPersistence, key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: failed to write %q: %v", ErrPersistence, key, err)
	}
	return nil
}

// Entry pairs a collection key with its replacement document.
type Entry struct {
	Key   string
	Value any
}

// PutAll writes every entry in a single transaction. Cascading operations
// (deleting a user together with that user's bookings) rely on this so a
// partial failure cannot leave orphaned documents behind.
func (s *Store) PutAll(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	encoded := make([]string, len(entries))
	for i, entry := range entries {
		raw, err := json.Marshal(entry.Value)
		if err != nil {
			return fmt.Errorf("%w: failed to encode %q: %v", ErrPersistence, entry.Key, err)
		}
		encoded[i] = string(raw)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", ErrPersistence, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i, entry := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, entry.Key, encoded[i], now); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("%w: failed to write %q (rollback error: %v): %v", ErrPersistence, entry.Key, rbErr, err)
			}
			return fmt.Errorf("%w: failed to write %q: %v", ErrPersistence, entry.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %v", ErrPersistence, err)
	}
	return nil
}
