package grammar

import (
	"github.com/leapstack-labs/sqlmatch/pkg/segment"
)

// AnyOf matches any of its alternatives, repeatedly. AnyNumberOf, OneOf,
// AnySetOf and OptionallyBracketed are configurations of it.
type AnyOf struct {
	base
	elems            []Matchable
	minTimes         int
	maxTimes         int // 0 means unbounded
	maxPerElement    int // 0 means unbounded
	exclude          Matchable
	terminators      []Matchable
	resetTerminators bool
	allowGaps        bool
}

// AnyNumberOf matches elems any number of times in any order.
func AnyNumberOf(elems ...Matchable) *AnyOf {
	return &AnyOf{base: newBase(), elems: elems, allowGaps: true}
}

// OneOf matches exactly one of elems.
func OneOf(elems ...Matchable) *AnyOf {
	return AnyNumberOf(elems...).Min(1).Max(1)
}

// AnySetOf matches each of elems at most once, in any order.
func AnySetOf(elems ...Matchable) *AnyOf {
	return AnyNumberOf(elems...).MaxPerElement(1)
}

// OptionallyBracketed matches elems either wrapped in brackets or bare. The
// bracketed form is listed first and wins ties.
func OptionallyBracketed(elems ...Matchable) *AnyOf {
	var bare Matchable
	if len(elems) == 1 {
		bare = elems[0]
	} else {
		bare = Sequence(elems...)
	}
	return OneOf(Bracketed(elems...), bare)
}

// Min sets the minimum number of repetitions.
func (a *AnyOf) Min(n int) *AnyOf {
	a.minTimes = n
	return a
}

// Max sets the maximum number of repetitions, 0 for unbounded.
func (a *AnyOf) Max(n int) *AnyOf {
	a.maxTimes = n
	return a
}

// MaxPerElement caps how often a single alternative may be used.
func (a *AnyOf) MaxPerElement(n int) *AnyOf {
	a.maxPerElement = n
	return a
}

// Exclude fails the whole match when m matches at the start of the input.
func (a *AnyOf) Exclude(m Matchable) *AnyOf {
	a.exclude = m
	return a
}

// Terminators adds grammars that end the repetition early.
func (a *AnyOf) Terminators(ts ...Matchable) *AnyOf {
	a.terminators = append(a.terminators, ts...)
	return a
}

// ResetTerminators drops inherited terminators before adding local ones.
func (a *AnyOf) ResetTerminators() *AnyOf {
	a.resetTerminators = true
	return a
}

// NoGaps forbids non-code between repetitions.
func (a *AnyOf) NoGaps() *AnyOf {
	a.allowGaps = false
	return a
}

// Optional marks the element as skippable inside a sequence.
func (a *AnyOf) Optional() *AnyOf {
	a.optional = true
	return a
}

// IsOptional implements Matchable.
func (a *AnyOf) IsOptional() bool {
	return a.optional || a.minTimes == 0
}

// Elements returns the alternatives in declaration order.
func (a *AnyOf) Elements() []Matchable {
	return a.elems
}

// Simple implements Matchable. The hint is the union of the alternatives'
// hints, and exists only if every alternative has one.
func (a *AnyOf) Simple(ctx *Context, crumbs []string) (SimpleHint, bool) {
	var hint SimpleHint
	for _, e := range a.elems {
		h, ok := ctx.simpleOf(e, crumbs)
		if !ok {
			return SimpleHint{}, false
		}
		hint = hint.Union(h)
	}
	return hint, true
}

// Match implements Matchable.
func (a *AnyOf) Match(segs []*segment.Segment, ctx *Context) MatchResult {
	if a.exclude != nil && len(segs) > 0 {
		if probe, ok := ctx.Deeper(nil, false); ok && a.exclude.Match(segs, probe).HasMatch() {
			return NoMatch(segs)
		}
	}

	sub, ok := ctx.Deeper(a.terminators, a.resetTerminators)
	if !ok {
		return NoMatch(segs)
	}

	counts := make(map[Key]int, len(a.elems))
	var matched []*segment.Segment
	rest := segs
	n := 0
	for {
		if a.maxTimes > 0 && n >= a.maxTimes {
			break
		}

		// Gaps are only consumed together with the repetition that follows
		// them, so any break below leaves them in rest.
		gap, next := []*segment.Segment(nil), rest
		if n > 0 && a.allowGaps {
			gap, next = splitNonCode(rest)
		}
		if len(next) == 0 {
			break
		}
		if n > 0 && sub.Terminated(next) {
			break
		}

		candidates := a.prune(next, sub)
		if len(candidates) == 0 {
			break
		}
		r, winner := longestMatch(next, candidates, sub)
		if winner == nil {
			break
		}

		counts[winner.CacheKey()]++
		if a.maxPerElement > 0 && counts[winner.CacheKey()] > a.maxPerElement {
			break
		}

		matched = append(matched, gap...)
		matched = append(matched, r.Matched...)
		rest = r.Unmatched
		n++
	}

	if n < a.minTimes {
		return NoMatch(segs)
	}
	return MatchResult{Matched: matched, Unmatched: rest}
}

// prune drops alternatives whose hint rules out the first upcoming segment.
// Alternatives without a hint are always kept.
func (a *AnyOf) prune(segs []*segment.Segment, ctx *Context) []Matchable {
	if ctx.noPrune {
		return a.elems
	}
	first := segs[0]
	kept := make([]Matchable, 0, len(a.elems))
	for _, e := range a.elems {
		hint, ok := ctx.simpleOf(e, nil)
		if !ok || hint.admitsSegment(first) {
			kept = append(kept, e)
			continue
		}
		ctx.stats.Pruned++
	}
	return kept
}

// longestMatch tries every candidate at the start of segs and returns the
// match consuming the most segments. Ties go to the earlier candidate. A
// complete match ends the search since nothing can be longer.
func longestMatch(segs []*segment.Segment, candidates []Matchable, ctx *Context) (MatchResult, Matchable) {
	best := NoMatch(segs)
	var winner Matchable
	bestLen := 0
	for _, c := range candidates {
		ctx.stats.Attempts++
		r := c.Match(segs, ctx)
		if !r.HasMatch() {
			continue
		}
		if l := r.consumed(segs); l > bestLen {
			best, winner, bestLen = r, c, l
			if r.IsComplete() {
				break
			}
		}
	}
	if winner != nil {
		ctx.logger.Debug("longest match",
			"depth", ctx.depth,
			"candidates", len(candidates),
			"consumed", bestLen,
		)
	}
	return best, winner
}
