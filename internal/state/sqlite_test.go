package state

import (
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlmatch/internal/testutil"
	"github.com/leapstack-labs/sqlmatch/pkg/lint"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.OpenAndMigrate(":memory:"))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleDiagnostics() []lint.Diagnostic {
	return []lint.Diagnostic{{
		RuleID:           "RF01",
		Severity:         lint.SeverityWarning,
		Message:          "Reference 'vee.a' refers to table/view not found in the FROM clause or found in ancestor statement.",
		Pos:              token.Position{Line: 1, Column: 8, Offset: 7},
		EndPos:           token.Position{Line: 1, Column: 11, Offset: 10},
		DocumentationURL: lint.BuildDocURL("RF01"),
	}}
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Close())

	// Closing an unopened store is a no-op.
	assert.NoError(t, NewSQLiteStore(nil).Close())
}

func TestSQLiteStore_OpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	store := NewSQLiteStore(nil)
	require.NoError(t, store.OpenAndMigrate(path))
	defer store.Close()

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestSQLiteStore_NotOpen(t *testing.T) {
	store := NewSQLiteStore(nil)

	_, _, err := store.Lookup(Key{Path: "a.sql"})
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, store.Save(Key{Path: "a.sql"}, nil), ErrNotOpen)
	assert.ErrorIs(t, store.Delete("a.sql"), ErrNotOpen)
	assert.ErrorIs(t, store.Clear(), ErrNotOpen)
	assert.ErrorIs(t, store.Migrate(), ErrNotOpen)
	_, err = store.CreateRun("ansi")
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = store.LatestRun()
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestSQLiteStore_LintResults(t *testing.T) {
	key := Key{Path: "models/a.sql", ContentHash: HashContent([]byte("SELECT vee.a FROM foo")), Dialect: "ansi", ConfigHash: "c1"}

	tests := []struct {
		name   string
		lookup Key
		found  bool
	}{
		{name: "same key", lookup: key, found: true},
		{name: "content changed", lookup: Key{Path: key.Path, ContentHash: "other", Dialect: "ansi", ConfigHash: "c1"}},
		{name: "dialect changed", lookup: Key{Path: key.Path, ContentHash: key.ContentHash, Dialect: "postgres", ConfigHash: "c1"}},
		{name: "config changed", lookup: Key{Path: key.Path, ContentHash: key.ContentHash, Dialect: "ansi", ConfigHash: "c2"}},
		{name: "unknown path", lookup: Key{Path: "models/b.sql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			require.NoError(t, store.Save(key, sampleDiagnostics()))

			diags, found, err := store.Lookup(tt.lookup)
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, sampleDiagnostics(), diags)
			} else {
				assert.Nil(t, diags)
			}
		})
	}
}

func TestSQLiteStore_SaveReplacesAndDeletes(t *testing.T) {
	store := setupTestStore(t)
	key := Key{Path: "a.sql", ContentHash: "h1", Dialect: "ansi", ConfigHash: "c"}

	require.NoError(t, store.Save(key, sampleDiagnostics()))

	// A clean file is cached as an empty, found result.
	key.ContentHash = "h2"
	require.NoError(t, store.Save(key, nil))
	diags, found, err := store.Lookup(key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, diags)

	require.NoError(t, store.Delete("a.sql"))
	_, found, err = store.Lookup(key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(key, nil))
	require.NoError(t, store.Clear())
	_, found, err = store.Lookup(key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	store := setupTestStore(t)

	latest, err := store.LatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest)

	run, err := store.CreateRun("postgres")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "postgres", run.Dialect)
	assert.Nil(t, run.CompletedAt)

	require.NoError(t, store.CompleteRun(run.ID, 4, 1, 7))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, 4, got.Files)
	assert.Equal(t, 1, got.Cached)
	assert.Equal(t, 7, got.Issues)
	require.NotNil(t, got.CompletedAt)
	assert.False(t, got.CompletedAt.Before(got.StartedAt))

	latest, err = store.LatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)

	_, err = store.GetRun("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, store.CompleteRun("missing", 0, 0, 0), ErrRunNotFound)
}

func TestSQLiteStore_DatabaseErrors(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		call      func(s *SQLiteStore) error
		errMsg    string
	}{
		{
			name: "lookup query fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT content_hash").WillReturnError(assert.AnError)
			},
			call: func(s *SQLiteStore) error {
				_, _, err := s.Lookup(Key{Path: "a.sql"})
				return err
			},
			errMsg: "failed to look up lint result",
		},
		{
			name: "lookup payload corrupt",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"content_hash", "dialect", "config_hash", "diagnostics"}).
					AddRow("h", "ansi", "c", "{not json")
				mock.ExpectQuery("SELECT content_hash").WithArgs("a.sql").WillReturnRows(rows)
			},
			call: func(s *SQLiteStore) error {
				_, _, err := s.Lookup(Key{Path: "a.sql", ContentHash: "h", Dialect: "ansi", ConfigHash: "c"})
				return err
			},
			errMsg: "failed to decode lint result for a.sql",
		},
		{
			name: "save fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO lint_results").WillReturnError(assert.AnError)
			},
			call: func(s *SQLiteStore) error {
				return s.Save(Key{Path: "a.sql"}, sampleDiagnostics())
			},
			errMsg: "failed to save lint result",
		},
		{
			name: "create run fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO lint_runs").WillReturnError(assert.AnError)
			},
			call: func(s *SQLiteStore) error {
				_, err := s.CreateRun("ansi")
				return err
			},
			errMsg: "failed to create run",
		},
		{
			name: "complete run fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE lint_runs").WillReturnError(assert.AnError)
			},
			call: func(s *SQLiteStore) error {
				return s.CompleteRun("id", 1, 0, 0)
			},
			errMsg: "failed to complete run",
		},
		{
			name: "delete fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM lint_results").WillReturnError(assert.AnError)
			},
			call: func(s *SQLiteStore) error {
				return s.Delete("a.sql")
			},
			errMsg: "failed to delete lint result",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			store := NewSQLiteStoreWithDB(db, testutil.NewTestLogger(t))
			err = tt.call(store)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHashing(t *testing.T) {
	assert.Equal(t, HashContent([]byte("a")), HashContent([]byte("a")))
	assert.NotEqual(t, HashContent([]byte("a")), HashContent([]byte("b")))
	assert.Len(t, HashContent(nil), 64)

	h1, err := HashConfig(map[string]any{"b": 1, "a": []string{"x"}})
	require.NoError(t, err)
	h2, err := HashConfig(map[string]any{"a": []string{"x"}, "b": 1})
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	_, err = HashConfig(func() {})
	assert.Error(t, err)
}
