package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sqlmatch/pkg/lint"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLiteStore implements Cache using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// NewSQLiteStoreWithDB wraps an already open connection. Migrations are not
// run.
func NewSQLiteStoreWithDB(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	s := NewSQLiteStore(logger)
	s.db = db
	return s
}

// Open opens a connection to the SQLite database, creating its directory
// when needed. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create cache directory: %w", err)
			}
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection: an in-memory database is private to its connection,
	// and lint workers serialize their writes anyway.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened lint cache", slog.String("path", path))
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// --- Lint result operations ---

// Lookup returns the cached diagnostics for key. The bool is false when no
// entry exists or the entry was produced from different content, dialect
// or configuration.
func (s *SQLiteStore) Lookup(key Key) ([]lint.Diagnostic, bool, error) {
	if s.db == nil {
		return nil, false, ErrNotOpen
	}

	var contentHash, dialect, configHash, payload string
	err := s.db.QueryRow(
		`SELECT content_hash, dialect, config_hash, diagnostics FROM lint_results WHERE path = ?`,
		key.Path,
	).Scan(&contentHash, &dialect, &configHash, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up lint result: %w", err)
	}

	if contentHash != key.ContentHash || dialect != key.Dialect || configHash != key.ConfigHash {
		s.logger.Debug("stale lint result", slog.String("path", key.Path))
		return nil, false, nil
	}

	var diags []lint.Diagnostic
	if err := json.Unmarshal([]byte(payload), &diags); err != nil {
		return nil, false, fmt.Errorf("failed to decode lint result for %s: %w", key.Path, err)
	}
	return diags, true, nil
}

// Save stores diags for key, replacing any previous entry for the path.
func (s *SQLiteStore) Save(key Key, diags []lint.Diagnostic) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if diags == nil {
		diags = []lint.Diagnostic{}
	}

	payload, err := json.Marshal(diags)
	if err != nil {
		return fmt.Errorf("failed to encode lint result: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO lint_results (path, content_hash, dialect, config_hash, diagnostics, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (path) DO UPDATE SET
		   content_hash = excluded.content_hash,
		   dialect = excluded.dialect,
		   config_hash = excluded.config_hash,
		   diagnostics = excluded.diagnostics,
		   updated_at = excluded.updated_at`,
		key.Path, key.ContentHash, key.Dialect, key.ConfigHash, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save lint result: %w", err)
	}
	return nil
}

// Delete removes the cached entry for path.
func (s *SQLiteStore) Delete(path string) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if _, err := s.db.Exec(`DELETE FROM lint_results WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to delete lint result: %w", err)
	}
	return nil
}

// Clear removes every cached lint result.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return ErrNotOpen
	}
	if _, err := s.db.Exec(`DELETE FROM lint_results`); err != nil {
		return fmt.Errorf("failed to clear lint results: %w", err)
	}
	return nil
}
