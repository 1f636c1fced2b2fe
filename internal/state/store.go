// Package state caches lint results in SQLite so unchanged files are not
// re-linted. Entries are keyed by file path and are valid only while the
// file content, dialect and effective lint configuration are unchanged.
// Each lint invocation is recorded as a run.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/leapstack-labs/sqlmatch/pkg/lint"
)

// ErrNotOpen is returned by store operations before Open succeeds.
var ErrNotOpen = errors.New("database not opened")

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Key identifies a cached lint result.
type Key struct {
	Path        string
	ContentHash string
	Dialect     string
	ConfigHash  string
}

// Run records one lint invocation.
type Run struct {
	ID          string
	Dialect     string
	StartedAt   time.Time
	CompletedAt *time.Time
	Files       int
	Cached      int
	Issues      int
}

// Cache is the lookup/save surface the lint command needs.
type Cache interface {
	Lookup(key Key) ([]lint.Diagnostic, bool, error)
	Save(key Key, diags []lint.Diagnostic) error
}

// HashContent returns the hex SHA-256 of content.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashConfig returns a stable hash of v's JSON encoding. Map keys are
// sorted by encoding/json, so equal configurations hash equally.
func HashConfig(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return HashContent(data), nil
}
