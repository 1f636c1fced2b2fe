package grammar

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// StringParser matches one code segment by its upper-cased text.
type StringParser struct {
	base
	template string
	types    []token.Type
}

// String creates a parser matching template case-insensitively and tagging
// the matched leaf with types.
func String(template string, types ...token.Type) *StringParser {
	return &StringParser{base: newBase(), template: strings.ToUpper(template), types: types}
}

// Keyword matches a keyword.
func Keyword(word string) *StringParser {
	return String(word, token.Keyword)
}

// Symbol matches punctuation such as "," or "=".
func Symbol(sym string, typ token.Type) *StringParser {
	return String(sym, typ)
}

// Simple implements Matchable.
func (p *StringParser) Simple(*Context, []string) (SimpleHint, bool) {
	return NewSimpleHint([]string{p.template}, nil), true
}

// Match implements Matchable.
func (p *StringParser) Match(segs []*segment.Segment, _ *Context) MatchResult {
	if len(segs) == 0 || !segs[0].IsRaw() || !segs[0].IsCode() {
		return NoMatch(segs)
	}
	if segs[0].RawUpper() != p.template {
		return NoMatch(segs)
	}
	return MatchResult{Matched: []*segment.Segment{segs[0].Retype(p.types...)}, Unmatched: segs[1:]}
}

// MultiStringParser matches one code segment against a set of texts.
type MultiStringParser struct {
	base
	templates map[string]struct{}
	list      []string
	types     []token.Type
}

// MultiString creates a parser matching any of templates.
func MultiString(templates []string, types ...token.Type) *MultiStringParser {
	p := &MultiStringParser{base: newBase(), templates: make(map[string]struct{}, len(templates)), types: types}
	for _, t := range templates {
		u := strings.ToUpper(t)
		p.templates[u] = struct{}{}
		p.list = append(p.list, u)
	}
	return p
}

// Simple implements Matchable.
func (p *MultiStringParser) Simple(*Context, []string) (SimpleHint, bool) {
	return NewSimpleHint(p.list, nil), true
}

// Match implements Matchable.
func (p *MultiStringParser) Match(segs []*segment.Segment, _ *Context) MatchResult {
	if len(segs) == 0 || !segs[0].IsRaw() || !segs[0].IsCode() {
		return NoMatch(segs)
	}
	if _, ok := p.templates[segs[0].RawUpper()]; !ok {
		return NoMatch(segs)
	}
	return MatchResult{Matched: []*segment.Segment{segs[0].Retype(p.types...)}, Unmatched: segs[1:]}
}

// TypedParser matches one segment carrying a given type.
type TypedParser struct {
	base
	template token.Type
	types    []token.Type
}

// Typed creates a parser matching a segment of type template and tagging it
// with types.
func Typed(template token.Type, types ...token.Type) *TypedParser {
	return &TypedParser{base: newBase(), template: template, types: types}
}

// Simple implements Matchable.
func (p *TypedParser) Simple(*Context, []string) (SimpleHint, bool) {
	return NewSimpleHint(nil, []token.Type{p.template}), true
}

// Match implements Matchable.
func (p *TypedParser) Match(segs []*segment.Segment, _ *Context) MatchResult {
	if len(segs) == 0 || !segs[0].IsType(p.template) {
		return NoMatch(segs)
	}
	return MatchResult{Matched: []*segment.Segment{segs[0].Retype(p.types...)}, Unmatched: segs[1:]}
}

// RegexParser matches one raw code segment whose upper-cased text fully
// matches a pattern and does not fully match the anti pattern.
type RegexParser struct {
	base
	re    *regexp.Regexp
	anti  *regexp.Regexp
	types []token.Type
}

// Regex creates a regex parser. anti may be empty. Patterns are anchored and
// compiled case-insensitively; invalid patterns panic at construction.
func Regex(pattern, anti string, types ...token.Type) *RegexParser {
	p := &RegexParser{base: newBase(), re: regexp.MustCompile(`(?i)^(?:` + pattern + `)$`), types: types}
	if anti != "" {
		p.anti = regexp.MustCompile(`(?i)^(?:` + anti + `)$`)
	}
	return p
}

// Simple implements Matchable. Regexes have no cheap characterization.
func (p *RegexParser) Simple(*Context, []string) (SimpleHint, bool) {
	return SimpleHint{}, false
}

// Match implements Matchable.
func (p *RegexParser) Match(segs []*segment.Segment, _ *Context) MatchResult {
	if len(segs) == 0 || !segs[0].IsRaw() || !segs[0].IsCode() {
		return NoMatch(segs)
	}
	raw := segs[0].RawUpper()
	if !p.re.MatchString(raw) {
		return NoMatch(segs)
	}
	if p.anti != nil && p.anti.MatchString(raw) {
		return NoMatch(segs)
	}
	return MatchResult{Matched: []*segment.Segment{segs[0].Retype(p.types...)}, Unmatched: segs[1:]}
}
