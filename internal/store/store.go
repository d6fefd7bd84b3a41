// Package store provides SQLite persistence for the vocabulary cache.
//
// The catalog's dimension value lists (categories, areas, ingredients)
// change rarely, so they are cached on disk and refreshed only after a
// configurable age. The cache is best-effort: callers fall back to the
// network on any failure.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/benjaelizalde/recetario/internal/catalog"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	maxAge time.Duration
}

// Open creates a Store at the given database path, creating tables if they
// don't exist. Cached vocabularies older than maxAge are treated as misses.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string, maxAge time.Duration) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// For in-memory databases, use shared cache mode so all connections
		// in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db, maxAge: maxAge}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS vocabulary (
		dimension TEXT NOT NULL,
		position INTEGER NOT NULL,
		value TEXT NOT NULL,
		fetched_at DATETIME NOT NULL,
		PRIMARY KEY (dimension, position)
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Vocabulary returns the cached value list for a dimension in stored order.
// ok is false when the dimension was never cached or the cache is stale.
// Thread-safe: acquires read lock.
func (s *Store) Vocabulary(dim catalog.Dimension) ([]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-s.maxAge)
	rows, err := s.db.Query(`
		SELECT value FROM vocabulary
		WHERE dimension = ? AND fetched_at > ?
		ORDER BY position
	`, string(dim), cutoff)
	if err != nil {
		return nil, false, fmt.Errorf("query vocabulary: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, false, fmt.Errorf("scan vocabulary: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(values) == 0 {
		return nil, false, nil
	}
	return values, true, nil
}

// SaveVocabulary replaces the cached value list for a dimension.
// Thread-safe: acquires write lock.
func (s *Store) SaveVocabulary(dim catalog.Dimension, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM vocabulary WHERE dimension = ?`, string(dim)); err != nil {
		return fmt.Errorf("clear vocabulary: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO vocabulary (dimension, position, value, fetched_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, v := range values {
		if _, err := stmt.Exec(string(dim), i, v, now); err != nil {
			return fmt.Errorf("insert vocabulary: %w", err)
		}
	}

	return tx.Commit()
}
