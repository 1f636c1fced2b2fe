package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// CreateRun records the start of a lint invocation.
func (s *SQLiteStore) CreateRun(dialect string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	run := &Run{
		ID:        generateID(),
		Dialect:   dialect,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("creating run", slog.String("id", run.ID), slog.String("dialect", dialect))

	_, err := s.db.Exec(
		`INSERT INTO lint_runs (id, dialect, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Dialect, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun stores the totals of a finished run.
func (s *SQLiteStore) CompleteRun(id string, files, cached, issues int) error {
	if s.db == nil {
		return ErrNotOpen
	}

	res, err := s.db.Exec(
		`UPDATE lint_runs SET completed_at = ?, files = ?, cached = ?, issues = ? WHERE id = ?`,
		time.Now().UTC(), files, cached, issues, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(id string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	row := s.db.QueryRow(
		`SELECT id, dialect, started_at, completed_at, files, cached, issues FROM lint_runs WHERE id = ?`,
		id,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recently started run, or nil when none exist.
func (s *SQLiteStore) LatestRun() (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	row := s.db.QueryRow(
		`SELECT id, dialect, started_at, completed_at, files, cached, issues
		 FROM lint_runs ORDER BY started_at DESC LIMIT 1`,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

func scanRun(row *sql.Row) (*Run, error) {
	run := &Run{}
	var completedAt sql.NullTime
	if err := row.Scan(&run.ID, &run.Dialect, &run.StartedAt, &completedAt, &run.Files, &run.Cached, &run.Issues); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return run, nil
}
