package grammar

import (
	"sync"

	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// SimpleHint is the cheap characterization of what an element can start
// with: the upper-cased raw texts and the type tags of a first segment that
// could possibly match.
type SimpleHint struct {
	Raws  map[string]struct{}
	Types map[token.Type]struct{}
}

// NewSimpleHint builds a hint from raw texts and types.
func NewSimpleHint(raws []string, types []token.Type) SimpleHint {
	h := SimpleHint{
		Raws:  make(map[string]struct{}, len(raws)),
		Types: make(map[token.Type]struct{}, len(types)),
	}
	for _, r := range raws {
		h.Raws[r] = struct{}{}
	}
	for _, t := range types {
		h.Types[t] = struct{}{}
	}
	return h
}

// Union returns a hint admitting everything either hint admits.
func (h SimpleHint) Union(o SimpleHint) SimpleHint {
	u := SimpleHint{
		Raws:  make(map[string]struct{}, len(h.Raws)+len(o.Raws)),
		Types: make(map[token.Type]struct{}, len(h.Types)+len(o.Types)),
	}
	for _, src := range []SimpleHint{h, o} {
		for r := range src.Raws {
			u.Raws[r] = struct{}{}
		}
		for t := range src.Types {
			u.Types[t] = struct{}{}
		}
	}
	return u
}

// Admits reports whether a segment with the given upper raw and types may
// start a match.
func (h SimpleHint) Admits(rawUpper string, types []token.Type) bool {
	if _, ok := h.Raws[rawUpper]; ok {
		return true
	}
	for _, t := range types {
		if _, ok := h.Types[t]; ok {
			return true
		}
	}
	return false
}

// admitsSegment applies the hint to the first upcoming segment.
func (h SimpleHint) admitsSegment(seg *segment.Segment) bool {
	raw := seg.RawUpper()
	if !seg.IsRaw() {
		raw = seg.FirstCodeRawUpper()
	}
	return h.Admits(raw, seg.Types())
}

// simpleKey scopes a hint to one library value, not its name: two
// dialects called alike may still resolve the same Ref differently.
type simpleKey struct {
	key Key
	lib any
}

type simpleEntry struct {
	hint SimpleHint
	ok   bool
}

// SimpleCache memoizes element hints per grammar library. It is safe for concurrent
// use and may be shared by any number of parses.
type SimpleCache struct {
	mu      sync.RWMutex
	entries map[simpleKey]simpleEntry
}

// NewSimpleCache creates an empty cache.
func NewSimpleCache() *SimpleCache {
	return &SimpleCache{entries: make(map[simpleKey]simpleEntry)}
}

var defaultSimpleCache = NewSimpleCache()

func (c *SimpleCache) get(k simpleKey) (simpleEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[k]
	return e, ok
}

func (c *SimpleCache) put(k simpleKey, e simpleEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = e
}

// Len returns the number of cached hints.
func (c *SimpleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
