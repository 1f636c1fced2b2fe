package grammar

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// RefGrammar resolves a named grammar from the context library at match
// time, which allows recursive grammars and per-dialect overrides.
type RefGrammar struct {
	base
	name        string
	exclude     Matchable
	terminators []Matchable
}

// Ref creates a reference to the library grammar called name.
func Ref(name string) *RefGrammar {
	return &RefGrammar{base: newBase(), name: name}
}

// KeywordRef references the keyword grammar registered for word.
func KeywordRef(word string) *RefGrammar {
	return Ref(KeywordName(word))
}

// KeywordName returns the library name under which a keyword is registered.
func KeywordName(word string) string {
	return strings.ToUpper(word) + "Keyword"
}

// Name returns the referenced grammar name.
func (r *RefGrammar) Name() string { return r.name }

// Optional marks the reference as skippable.
func (r *RefGrammar) Optional() *RefGrammar {
	r.optional = true
	return r
}

// Exclude fails the match when m matches at the start of the input.
func (r *RefGrammar) Exclude(m Matchable) *RefGrammar {
	r.exclude = m
	return r
}

// Terminators adds terminators active while the referenced grammar matches.
func (r *RefGrammar) Terminators(ts ...Matchable) *RefGrammar {
	r.terminators = append(r.terminators, ts...)
	return r
}

func (r *RefGrammar) resolve(ctx *Context) (Matchable, bool) {
	if ctx.lib == nil {
		return nil, false
	}
	return ctx.lib.Lookup(r.name)
}

// Simple implements Matchable. A reference already being resolved higher up
// has no hint.
func (r *RefGrammar) Simple(ctx *Context, crumbs []string) (SimpleHint, bool) {
	if slices.Contains(crumbs, r.name) {
		return SimpleHint{}, false
	}
	m, ok := r.resolve(ctx)
	if !ok {
		return SimpleHint{}, false
	}
	next := append(append(make([]string, 0, len(crumbs)+1), crumbs...), r.name)
	return ctx.simpleOf(m, next)
}

// Match implements Matchable.
func (r *RefGrammar) Match(segs []*segment.Segment, ctx *Context) MatchResult {
	m, ok := r.resolve(ctx)
	if !ok {
		ctx.logger.Warn("unknown grammar reference", "name", r.name)
		return NoMatch(segs)
	}
	if r.exclude != nil && len(segs) > 0 {
		if probe, ok := ctx.Deeper(nil, false); ok && r.exclude.Match(segs, probe).HasMatch() {
			return NoMatch(segs)
		}
	}
	sub, ok := ctx.Deeper(r.terminators, false)
	if !ok {
		return NoMatch(segs)
	}
	return m.Match(segs, sub)
}

// NodeGrammar wraps whatever its grammar matches into a composite segment.
type NodeGrammar struct {
	base
	types   []token.Type
	grammar Matchable
}

// Node creates a grammar producing a typ node over the match of g.
func Node(typ token.Type, g Matchable, extra ...token.Type) *NodeGrammar {
	return &NodeGrammar{base: newBase(), types: append([]token.Type{typ}, extra...), grammar: g}
}

// Optional marks the node as skippable.
func (n *NodeGrammar) Optional() *NodeGrammar {
	n.optional = true
	return n
}

// Type returns the primary node type.
func (n *NodeGrammar) Type() token.Type { return n.types[0] }

// Simple implements Matchable.
func (n *NodeGrammar) Simple(ctx *Context, crumbs []string) (SimpleHint, bool) {
	return ctx.simpleOf(n.grammar, crumbs)
}

// Match implements Matchable.
func (n *NodeGrammar) Match(segs []*segment.Segment, ctx *Context) MatchResult {
	r := n.grammar.Match(segs, ctx)
	if !r.HasMatch() {
		return NoMatch(segs)
	}
	node := segment.NewNode(n.types, r.Matched)
	return MatchResult{Matched: []*segment.Segment{node}, Unmatched: r.Unmatched}
}

// AnythingGrammar consumes segments up to the first active terminator,
// treating bracketed runs as opaque.
type AnythingGrammar struct {
	base
}

// Anything creates a grammar matching everything up to a terminator.
func Anything() *AnythingGrammar {
	return &AnythingGrammar{base: newBase()}
}

// Simple implements Matchable.
func (a *AnythingGrammar) Simple(*Context, []string) (SimpleHint, bool) {
	return SimpleHint{}, false
}

// Match implements Matchable.
func (a *AnythingGrammar) Match(segs []*segment.Segment, ctx *Context) MatchResult {
	depth := 0
	i := 0
	for ; i < len(segs); i++ {
		s := segs[i]
		if depth == 0 && i > 0 && s.IsCode() && ctx.Terminated(segs[i:]) {
			break
		}
		switch {
		case s.IsRaw() && s.IsType(token.StartBracket):
			depth++
		case s.IsRaw() && s.IsType(token.EndBracket):
			if depth == 0 {
				return matchPrefix(segs, i)
			}
			depth--
		}
	}
	return matchPrefix(segs, i)
}

// matchPrefix matches segs[:n] minus trailing non-code.
func matchPrefix(segs []*segment.Segment, n int) MatchResult {
	for n > 0 && !segs[n-1].IsCode() {
		n--
	}
	if n == 0 {
		return NoMatch(segs)
	}
	return MatchResult{Matched: segs[:n], Unmatched: segs[n:]}
}

// NothingGrammar never matches.
type NothingGrammar struct {
	base
}

// Nothing creates a grammar that never matches. Dialects use it to disable
// a construct inherited from their parent.
func Nothing() *NothingGrammar {
	return &NothingGrammar{base: newBase()}
}

// Simple implements Matchable.
func (n *NothingGrammar) Simple(*Context, []string) (SimpleHint, bool) {
	return SimpleHint{}, true
}

// Match implements Matchable.
func (n *NothingGrammar) Match(segs []*segment.Segment, _ *Context) MatchResult {
	return NoMatch(segs)
}
