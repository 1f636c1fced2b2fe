package dialect

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// DefaultName is the dialect used when none is configured.
const DefaultName = "ansi"

// Registered dialects keyed by lowercased name. Dialect packages add
// themselves from init; pkg/dialects/all imports every one of them.
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

// ErrUnknownDialect is returned when a dialect name is not registered.
var ErrUnknownDialect = errors.New("unknown dialect")

// Get returns a dialect by name.
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// Resolve returns the named dialect or an error wrapping ErrDialectRequired
// or ErrUnknownDialect.
func Resolve(name string) (*Dialect, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrDialectRequired
	}
	d, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownDialect, name, strings.Join(List(), ", "))
	}
	return d, nil
}

// Register adds d, replacing any dialect registered under the same name.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name)] = d
}

// List returns the registered dialect names in order.
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	return slices.Sorted(maps.Keys(dialects))
}
