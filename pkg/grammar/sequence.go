package grammar

import (
	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// SequenceGrammar matches its elements in order.
type SequenceGrammar struct {
	base
	elems       []Matchable
	allowGaps   bool
	terminators []Matchable
}

// Sequence creates a grammar matching elems one after another. Non-code
// segments between elements are skipped.
func Sequence(elems ...Matchable) *SequenceGrammar {
	return &SequenceGrammar{base: newBase(), elems: elems, allowGaps: true}
}

// NoGaps forbids non-code between elements.
func (s *SequenceGrammar) NoGaps() *SequenceGrammar {
	s.allowGaps = false
	return s
}

// Terminators adds terminators active while the sequence matches.
func (s *SequenceGrammar) Terminators(ts ...Matchable) *SequenceGrammar {
	s.terminators = append(s.terminators, ts...)
	return s
}

// Optional marks the sequence as skippable.
func (s *SequenceGrammar) Optional() *SequenceGrammar {
	s.optional = true
	return s
}

// Simple implements Matchable: the union over the leading elements up to
// and including the first required one.
func (s *SequenceGrammar) Simple(ctx *Context, crumbs []string) (SimpleHint, bool) {
	var hint SimpleHint
	for _, e := range s.elems {
		h, ok := ctx.simpleOf(e, crumbs)
		if !ok {
			return SimpleHint{}, false
		}
		hint = hint.Union(h)
		if !e.IsOptional() {
			break
		}
	}
	return hint, true
}

// Match implements Matchable.
func (s *SequenceGrammar) Match(segs []*segment.Segment, ctx *Context) MatchResult {
	sub, ok := ctx.Deeper(s.terminators, false)
	if !ok {
		return NoMatch(segs)
	}

	var matched []*segment.Segment
	rest := segs
	for _, e := range s.elems {
		gap, next := []*segment.Segment(nil), rest
		if s.allowGaps && len(matched) > 0 {
			gap, next = splitNonCode(rest)
		}
		if len(next) == 0 {
			if e.IsOptional() {
				continue
			}
			return NoMatch(segs)
		}

		r := e.Match(next, sub)
		if !r.HasMatch() {
			if e.IsOptional() {
				continue
			}
			return NoMatch(segs)
		}
		matched = append(matched, gap...)
		matched = append(matched, r.Matched...)
		rest = r.Unmatched
	}
	if len(matched) == 0 {
		return NoMatch(segs)
	}
	return MatchResult{Matched: matched, Unmatched: rest}
}

// BracketedGrammar matches "(" content ")".
type BracketedGrammar struct {
	base
	inner *SequenceGrammar
}

// Bracketed creates a grammar matching elems inside round brackets. The
// content must be matched in full; only non-code may remain.
func Bracketed(elems ...Matchable) *BracketedGrammar {
	return &BracketedGrammar{base: newBase(), inner: Sequence(elems...)}
}

// Optional marks the brackets as skippable.
func (b *BracketedGrammar) Optional() *BracketedGrammar {
	b.optional = true
	return b
}

// Simple implements Matchable.
func (b *BracketedGrammar) Simple(*Context, []string) (SimpleHint, bool) {
	return NewSimpleHint([]string{"("}, nil), true
}

// Match implements Matchable.
func (b *BracketedGrammar) Match(segs []*segment.Segment, ctx *Context) MatchResult {
	if len(segs) == 0 || !segs[0].IsRaw() || !segs[0].IsType(token.StartBracket) {
		return NoMatch(segs)
	}
	end := closingBracket(segs)
	if end < 0 {
		return NoMatch(segs)
	}

	// Inherited terminators do not apply between the brackets.
	sub, ok := ctx.Deeper(nil, true)
	if !ok {
		return NoMatch(segs)
	}

	pre, content, post := Trim(segs[1:end])
	children := []*segment.Segment{segs[0]}
	children = append(children, pre...)
	if len(content) > 0 {
		r := b.inner.Match(content, sub)
		if !r.HasMatch() || hasCode(r.Unmatched) {
			return NoMatch(segs)
		}
		children = append(children, r.Matched...)
		children = append(children, r.Unmatched...)
	} else if !b.inner.allOptional() {
		return NoMatch(segs)
	}
	children = append(children, post...)
	children = append(children, segs[end])

	node := segment.NewNode([]token.Type{token.Bracketed}, children)
	return MatchResult{Matched: []*segment.Segment{node}, Unmatched: segs[end+1:]}
}

func (s *SequenceGrammar) allOptional() bool {
	for _, e := range s.elems {
		if !e.IsOptional() {
			return false
		}
	}
	return true
}

// closingBracket returns the index of the bracket closing segs[0], or -1.
func closingBracket(segs []*segment.Segment) int {
	depth := 0
	for i, s := range segs {
		if !s.IsRaw() {
			continue
		}
		switch {
		case s.IsType(token.StartBracket):
			depth++
		case s.IsType(token.EndBracket):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// DelimitedGrammar matches one or more elements separated by a delimiter.
type DelimitedGrammar struct {
	base
	elems         []Matchable
	delimiter     Matchable
	allowTrailing bool
	allowGaps     bool
	terminators   []Matchable
	minDelimiters int
}

// Delimited creates a comma separated list of any of elems.
func Delimited(elems ...Matchable) *DelimitedGrammar {
	return &DelimitedGrammar{
		base:      newBase(),
		elems:     elems,
		delimiter: Symbol(",", token.Comma),
		allowGaps: true,
	}
}

// Delimiter replaces the default comma.
func (d *DelimitedGrammar) Delimiter(m Matchable) *DelimitedGrammar {
	d.delimiter = m
	return d
}

// AllowTrailing accepts a delimiter after the last element.
func (d *DelimitedGrammar) AllowTrailing() *DelimitedGrammar {
	d.allowTrailing = true
	return d
}

// MinDelimiters requires at least n delimiters.
func (d *DelimitedGrammar) MinDelimiters(n int) *DelimitedGrammar {
	d.minDelimiters = n
	return d
}

// Terminators adds grammars that end the list.
func (d *DelimitedGrammar) Terminators(ts ...Matchable) *DelimitedGrammar {
	d.terminators = append(d.terminators, ts...)
	return d
}

// Optional marks the list as skippable.
func (d *DelimitedGrammar) Optional() *DelimitedGrammar {
	d.optional = true
	return d
}

// Simple implements Matchable.
func (d *DelimitedGrammar) Simple(ctx *Context, crumbs []string) (SimpleHint, bool) {
	var hint SimpleHint
	for _, e := range d.elems {
		h, ok := ctx.simpleOf(e, crumbs)
		if !ok {
			return SimpleHint{}, false
		}
		hint = hint.Union(h)
	}
	return hint, true
}

// Match implements Matchable.
func (d *DelimitedGrammar) Match(segs []*segment.Segment, ctx *Context) MatchResult {
	// The delimiter terminates elements so nested repetitions stop at it.
	local := append([]Matchable{d.delimiter}, d.terminators...)
	sub, ok := ctx.Deeper(local, false)
	if !ok {
		return NoMatch(segs)
	}
	outer, _ := ctx.Deeper(d.terminators, false)

	var matched []*segment.Segment
	rest := segs
	delimiters := 0
	var pending []*segment.Segment // delimiter and gaps not yet followed by an element
	var beforeDelim []*segment.Segment
	for {
		gap, next := []*segment.Segment(nil), rest
		if d.allowGaps && len(matched) > 0 {
			gap, next = splitNonCode(rest)
		}
		if len(next) == 0 || (len(matched) > 0 && outer.Terminated(next)) {
			break
		}

		r, winner := longestMatch(next, d.elems, sub)
		if winner == nil {
			break
		}
		matched = append(matched, pending...)
		matched = append(matched, gap...)
		matched = append(matched, r.Matched...)
		rest = r.Unmatched
		pending = nil

		dgap, dnext := []*segment.Segment(nil), rest
		if d.allowGaps {
			dgap, dnext = splitNonCode(rest)
		}
		dr := d.delimiter.Match(dnext, outer)
		if !dr.HasMatch() {
			break
		}
		delimiters++
		pending = concat(dgap, dr.Matched)
		beforeDelim = rest
		rest = dr.Unmatched
	}

	if len(pending) > 0 {
		if d.allowTrailing {
			matched = append(matched, pending...)
		} else {
			delimiters--
			rest = beforeDelim
		}
	}
	if len(matched) == 0 || delimiters < d.minDelimiters {
		return NoMatch(segs)
	}
	return MatchResult{Matched: matched, Unmatched: rest}
}
