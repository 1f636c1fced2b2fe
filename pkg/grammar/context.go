package grammar

import (
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"github.com/leapstack-labs/sqlmatch/pkg/segment"
)

// DefaultMaxDepth bounds grammar recursion for a single parse.
const DefaultMaxDepth = 255

// Library resolves named grammars for Ref elements.
type Library interface {
	// Name identifies the library, usually the dialect name.
	Name() string
	// Lookup returns the grammar registered under name.
	Lookup(name string) (Matchable, bool)
}

// Stats counts matcher activity for one parse.
type Stats struct {
	Attempts      int // full match attempts made by combinators
	Pruned        int // alternatives skipped by simple hints
	CacheHits     int
	CacheMisses   int
	DepthExceeded int
}

// Context carries the state of one parse down the grammar tree. A Context
// is never modified after creation; descending a level produces a copy.
type Context struct {
	lib         Library
	runID       uuid.UUID
	logger      *slog.Logger
	depth       int
	maxDepth    int
	terminators []Matchable
	noPrune     bool
	cache       *SimpleCache
	libID       any
	stats       *Stats
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLogger sets the logger used for match tracing.
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *Context) { c.logger = l }
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(n int) ContextOption {
	return func(c *Context) { c.maxDepth = n }
}

// WithoutPruning makes combinators attempt every alternative in full.
func WithoutPruning() ContextOption {
	return func(c *Context) { c.noPrune = true }
}

// WithSimpleCache replaces the process-wide hint cache.
func WithSimpleCache(sc *SimpleCache) ContextOption {
	return func(c *Context) { c.cache = sc }
}

// NewContext creates the root context of a parse.
func NewContext(lib Library, opts ...ContextOption) *Context {
	c := &Context{
		lib:      lib,
		runID:    uuid.New(),
		logger:   slog.Default(),
		maxDepth: DefaultMaxDepth,
		cache:    defaultSimpleCache,
		stats:    &Stats{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if id, ok := libraryIdentity(lib); ok {
		c.libID = id
	} else {
		c.cache = nil
	}
	c.logger = c.logger.With("run_id", c.runID.String(), "dialect", c.Dialect())
	return c
}

// libraryIdentity returns the value hint cache entries of lib are keyed
// by. Libraries of uncomparable types (a bare map) are never cached.
func libraryIdentity(lib Library) (any, bool) {
	if lib == nil {
		return nil, true
	}
	if !reflect.TypeOf(lib).Comparable() {
		return nil, false
	}
	return lib, true
}

// Library returns the grammar library of the parse.
func (c *Context) Library() Library { return c.lib }

// Dialect returns the library name, or "" when no library is set.
func (c *Context) Dialect() string {
	if c.lib == nil {
		return ""
	}
	return c.lib.Name()
}

// RunID identifies the parse in logs.
func (c *Context) RunID() uuid.UUID { return c.runID }

// Logger returns the parse logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Depth returns the current nesting depth.
func (c *Context) Depth() int { return c.depth }

// Terminators returns the active terminators.
func (c *Context) Terminators() []Matchable { return c.terminators }

// Stats returns a snapshot of the parse counters.
func (c *Context) Stats() Stats { return *c.stats }

// Deeper returns a context one level down with local terminators pushed.
// When clear is set the inherited terminators are dropped first. ok is
// false when the depth limit is exceeded.
func (c *Context) Deeper(terminators []Matchable, clear bool) (*Context, bool) {
	next := *c
	next.depth++
	if next.depth > c.maxDepth {
		c.stats.DepthExceeded++
		c.logger.Warn("grammar depth limit exceeded", "depth", next.depth, "max_depth", c.maxDepth)
		return nil, false
	}
	switch {
	case clear:
		next.terminators = append([]Matchable(nil), terminators...)
	case len(terminators) > 0:
		next.terminators = make([]Matchable, 0, len(c.terminators)+len(terminators))
		next.terminators = append(next.terminators, c.terminators...)
		next.terminators = append(next.terminators, terminators...)
	}
	return &next, true
}

// Terminated reports whether any active terminator matches at the start of
// segs.
func (c *Context) Terminated(segs []*segment.Segment) bool {
	if len(c.terminators) == 0 || len(segs) == 0 {
		return false
	}
	probe := *c
	probe.terminators = nil
	for _, t := range c.terminators {
		if !probe.noPrune {
			if hint, ok := probe.simpleOf(t, nil); ok && !hint.admitsSegment(segs[0]) {
				continue
			}
		}
		if t.Match(segs, &probe).HasMatch() {
			return true
		}
	}
	return false
}

// simpleOf returns the hint of m, consulting the shared cache for top-level
// lookups.
func (c *Context) simpleOf(m Matchable, crumbs []string) (SimpleHint, bool) {
	if len(crumbs) > 0 || c.cache == nil {
		return m.Simple(c, crumbs)
	}
	k := simpleKey{key: m.CacheKey(), lib: c.libID}
	if e, ok := c.cache.get(k); ok {
		c.stats.CacheHits++
		return e.hint, e.ok
	}
	c.stats.CacheMisses++
	hint, ok := m.Simple(c, nil)
	c.cache.put(k, simpleEntry{hint: hint, ok: ok})
	return hint, ok
}
