// Package grammar implements the combinator engine used to parse SQL segments.
//
// Every grammar element implements Matchable. Leaf parsers match a single
// segment by text or type; Sequence, Bracketed and Delimited compose elements
// in order; AnyOf (AnyNumberOf, OneOf, AnySetOf, OptionallyBracketed) chooses
// among alternatives with pruning, longest-match selection and repetition
// limits.
//
// A failed match is a value, not an error: it is a MatchResult with nothing
// matched and the whole input unmatched.
package grammar

import (
	"sync/atomic"

	"github.com/leapstack-labs/sqlmatch/pkg/segment"
)

// Key identifies a grammar element for caching and repetition counting.
// Keys are allocated once when the element is constructed.
type Key uint64

var keySeq atomic.Uint64

// NewKey allocates a fresh element key.
func NewKey() Key {
	return Key(keySeq.Add(1))
}

// Matchable is implemented by every grammar element.
type Matchable interface {
	// Match attempts to match a prefix of segs.
	Match(segs []*segment.Segment, ctx *Context) MatchResult
	// Simple returns the cheap first-segment characterization of the element.
	// ok is false when no such characterization exists and a full match must
	// be attempted. crumbs holds the names of references already being
	// resolved, used to break recursion.
	Simple(ctx *Context, crumbs []string) (hint SimpleHint, ok bool)
	// CacheKey returns the element's stable identity.
	CacheKey() Key
	// IsOptional reports whether a sequence may skip the element.
	IsOptional() bool
}

// base holds the fields shared by every element.
type base struct {
	key      Key
	optional bool
}

func newBase() base {
	return base{key: NewKey()}
}

// CacheKey implements Matchable.
func (b *base) CacheKey() Key { return b.key }

// IsOptional implements Matchable.
func (b *base) IsOptional() bool { return b.optional }

// optional wraps an element so a sequence may skip it.
type optional struct {
	Matchable
	key Key
}

// Optional marks m as skippable inside a Sequence.
func Optional(m Matchable) Matchable {
	return &optional{Matchable: m, key: NewKey()}
}

func (o *optional) CacheKey() Key    { return o.key }
func (o *optional) IsOptional() bool { return true }

func (o *optional) Simple(ctx *Context, crumbs []string) (SimpleHint, bool) {
	return ctx.simpleOf(o.Matchable, crumbs)
}
