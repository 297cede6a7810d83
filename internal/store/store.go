// Package store persists the mnemo collection in SQLite: items,
// scheduling states, the append-only review and analytics logs, group
// membership and the quarantine set.
//
// The store keeps an in-memory snapshot of the collection, loaded once
// at Open. Mutations update the snapshot and accumulate in a pending
// SQLite transaction; Persist commits it. Until Persist returns nil,
// nothing is durable, which is the contract the engine's grading path
// relies on. A flashcard collection is small (tens of thousands of
// items), so the snapshot is cheap.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mnemo-app/mnemo/internal/card"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for a mnemo collection.
// Uses SQLite with WAL mode.
type Store struct {
	db *sql.DB
	tx *sql.Tx // Pending mutation transaction, nil when clean.

	items      []card.Item
	states     map[string]card.SchedulingState
	reviews    []card.ReviewEntry
	analytics  []card.AnalyticsEntry
	groups     map[string][]string
	quarantine map[string]bool
}

// Open creates or opens a SQLite collection at the given path and
// loads the snapshot. Applies required pragmas and the schema; safe to
// call on an existing collection.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to collection: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{
		db:         db,
		states:     make(map[string]card.SchedulingState),
		groups:     make(map[string][]string),
		quarantine: make(map[string]bool),
	}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close rolls back any un-persisted mutations and closes the database.
func (s *Store) Close() error {
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Persist durably commits all mutations issued since the last call.
// A no-op when nothing is pending. On a failed commit SQLite keeps the
// prior durable state, so the snapshot is reloaded to match: a caller
// that retries after an error starts from the last persisted state,
// not from half-applied staging.
func (s *Store) Persist(_ context.Context) error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		if rerr := s.reset(); rerr != nil {
			return fmt.Errorf("persist collection: %w (reload snapshot: %v)", err, rerr)
		}
		return fmt.Errorf("persist collection: %w", err)
	}
	return nil
}

// reset discards the pending transaction and staged snapshot mutations,
// reloading the snapshot from the last durable state.
func (s *Store) reset() error {
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	s.items = nil
	s.states = make(map[string]card.SchedulingState)
	s.reviews = nil
	s.analytics = nil
	s.groups = make(map[string][]string)
	s.quarantine = make(map[string]bool)
	return s.load()
}

// pending returns the open mutation transaction, starting one if needed.
func (s *Store) pending() (*sql.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin mutation: %w", err)
	}
	s.tx = tx
	return tx, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}
