// Package dialect provides SQL dialect configuration and the grammar
// libraries the parser matches against.
//
// A Dialect is built once, usually in the init function of a package under
// pkg/dialects, and is immutable afterwards. Derived dialects extend a parent
// and only override the grammars that differ; lookups fall back to the
// parent for everything else.
package dialect

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/sqlmatch/pkg/grammar"
	"github.com/leapstack-labs/sqlmatch/pkg/lexer"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// Names of grammars generated by the Builder.
const (
	NakedIdentifierGrammar = "NakedIdentifierSegment"
)

// identifierPattern is the shape of an unquoted identifier.
const identifierPattern = `[A-Z_][A-Z0-9_$]*`

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers IdentifierConfig

	lexer             lexer.Config
	nestedFieldAccess bool
	parent            *Dialect

	keywords      map[string]struct{} // upper-cased, reserved words included
	reservedWords map[string]struct{} // upper-cased
	grammars      map[string]grammar.Matchable
}

// GetName returns the dialect name.
// This method allows Dialect to satisfy interfaces that require Name() string.
func (d *Dialect) GetName() string {
	return d.Name
}

// Parent returns the dialect this one extends, or nil.
func (d *Dialect) Parent() *Dialect {
	return d.parent
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case NormUppercase:
		return cases.Upper(language.Und).String(name)
	case NormLowercase, NormCaseInsensitive:
		return cases.Lower(language.Und).String(name)
	default: // NormCaseSensitive
		return name
	}
}

// UnquoteIdentifier strips the dialect quote characters from a quoted
// identifier and resolves escaped quotes. Unquoted input is returned as is.
func (d *Dialect) UnquoteIdentifier(raw string) string {
	for _, q := range [][2]string{{d.Identifiers.Quote, d.Identifiers.QuoteEnd}, {`"`, `"`}, {"`", "`"}} {
		open, closeQ := q[0], q[1]
		if open == "" || len(raw) < 2 || !strings.HasPrefix(raw, open) || !strings.HasSuffix(raw, closeQ) {
			continue
		}
		inner := raw[len(open) : len(raw)-len(closeQ)]
		return strings.ReplaceAll(inner, closeQ+closeQ, closeQ)
	}
	return raw
}

// NormalizeIdentifier returns the comparison key of an identifier as written
// in source. Quoted identifiers keep their case unless the dialect folds all
// identifiers.
func (d *Dialect) NormalizeIdentifier(raw string, quoted bool) string {
	if !quoted {
		return d.NormalizeName(raw)
	}
	name := d.UnquoteIdentifier(raw)
	if d.Identifiers.Normalization == NormCaseInsensitive {
		return d.NormalizeName(name)
	}
	return name
}

// LexerConfig returns the lexing switches of the dialect.
func (d *Dialect) LexerConfig() lexer.Config {
	return d.lexer
}

// NestedFieldAccess reports whether dotted references may address struct
// fields, making multi-part references ambiguous.
func (d *Dialect) NestedFieldAccess() bool {
	return d.nestedFieldAccess
}

// IsKeyword returns true if the word is a keyword of the dialect.
func (d *Dialect) IsKeyword(word string) bool {
	_, ok := d.keywords[strings.ToUpper(word)]
	return ok
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[strings.ToUpper(word)]
	return ok
}

// Keywords returns all keywords, sorted.
func (d *Dialect) Keywords() []string {
	return sortedKeys(d.keywords)
}

// ReservedWords returns the reserved keywords, sorted.
func (d *Dialect) ReservedWords() []string {
	return sortedKeys(d.reservedWords)
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// Grammar returns the named grammar, consulting parent dialects when this
// dialect does not define it.
func (d *Dialect) Grammar(name string) (grammar.Matchable, bool) {
	for cur := d; cur != nil; cur = cur.parent {
		if g, ok := cur.grammars[name]; ok {
			return g, true
		}
	}
	return nil, false
}

// GrammarNames returns the names of every grammar visible in the dialect.
func (d *Dialect) GrammarNames() []string {
	seen := make(map[string]struct{})
	for cur := d; cur != nil; cur = cur.parent {
		for name := range cur.grammars {
			seen[name] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Library returns the dialect as a grammar library for match contexts.
func (d *Dialect) Library() grammar.Library {
	return library{d: d}
}

type library struct {
	d *Dialect
}

func (l library) Name() string { return l.d.Name }

func (l library) Lookup(name string) (grammar.Matchable, bool) { return l.d.Grammar(name) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ---------- Builder ----------

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
	config  *Config // Optional config for auto-wiring features
}

// NewDialect creates a new dialect builder with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: IdentifierConfig{
				Quote:         `"`,
				QuoteEnd:      `"`,
				Escape:        `""`,
				Normalization: NormLowercase,
			},
			keywords:      make(map[string]struct{}),
			reservedWords: make(map[string]struct{}),
			grammars:      make(map[string]grammar.Matchable),
		},
	}
}

// New creates a dialect builder from a Config.
// The builder will auto-wire features based on config flags when Build() is called.
func New(cfg *Config) *Builder {
	b := NewDialect(cfg.Name)
	b.config = cfg
	b.dialect.Identifiers = cfg.Identifiers
	b.dialect.lexer = lexer.Config{BackQuotes: cfg.BackQuotes, HashComments: cfg.HashComments}
	b.dialect.nestedFieldAccess = cfg.NestedFieldAccess
	return b
}

// Extends makes the dialect inherit the keywords and grammars of parent.
func (b *Builder) Extends(parent *Dialect) *Builder {
	b.dialect.parent = parent
	for kw := range parent.keywords {
		b.dialect.keywords[kw] = struct{}{}
	}
	for w := range parent.reservedWords {
		b.dialect.reservedWords[w] = struct{}{}
	}
	return b
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm NormalizationStrategy) *Builder {
	b.dialect.Identifiers = IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// Lexer sets the lexing switches.
func (b *Builder) Lexer(cfg lexer.Config) *Builder {
	b.dialect.lexer = cfg
	return b
}

// WithKeywords registers unreserved keywords.
func (b *Builder) WithKeywords(kws ...string) *Builder {
	for _, kw := range kws {
		b.dialect.keywords[strings.ToUpper(kw)] = struct{}{}
	}
	return b
}

// WithReservedWords registers words that cannot be used as unquoted identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		u := strings.ToUpper(w)
		b.dialect.keywords[u] = struct{}{}
		b.dialect.reservedWords[u] = struct{}{}
	}
	return b
}

// Unreserve demotes inherited reserved words to plain keywords.
func (b *Builder) Unreserve(words ...string) *Builder {
	for _, w := range words {
		delete(b.dialect.reservedWords, strings.ToUpper(w))
	}
	return b
}

// Grammar registers or replaces a named grammar.
func (b *Builder) Grammar(name string, g grammar.Matchable) *Builder {
	b.dialect.grammars[name] = g
	return b
}

// Grammars registers a set of named grammars.
func (b *Builder) Grammars(defs map[string]grammar.Matchable) *Builder {
	for name, g := range defs {
		b.dialect.grammars[name] = g
	}
	return b
}

// Build returns the constructed dialect.
// If the builder was created with New(cfg), this auto-wires features based on config flags.
func (b *Builder) Build() *Dialect {
	if cfg := b.config; cfg != nil {
		b.WithKeywords(cfg.Keywords...)
		b.WithReservedWords(cfg.ReservedWords...)

		if cfg.SupportsQualify {
			b.WithReservedWords("QUALIFY")
			b.addGrammarIfMissing(QualifyClauseGrammar, StandardQualify)
		}
		if cfg.SupportsLateralView {
			b.WithReservedWords("LATERAL", "VIEW")
			b.WithKeywords("OUTER", "AS")
			b.addGrammarIfMissing(LateralViewClauseGrammar, StandardLateralView)
		}
		if cfg.SupportsSemiAntiJoins {
			b.WithReservedWords("SEMI", "ANTI")
			b.WithKeywords("LEFT")
			b.addGrammarIfMissing(SemiAntiJoinGrammar, StandardSemiAntiJoin)
		}
	}

	// Every keyword gets a parser, even when inherited, so that overridden
	// keyword sets take effect without touching the parent.
	for kw := range b.dialect.keywords {
		name := grammar.KeywordName(kw)
		if _, ok := b.dialect.grammars[name]; !ok {
			b.dialect.grammars[name] = grammar.Keyword(kw)
		}
	}
	b.dialect.grammars[NakedIdentifierGrammar] = grammar.Regex(
		identifierPattern,
		antiPattern(b.dialect.reservedWords),
		token.NakedIdentifier, token.Identifier,
	)
	return b.dialect
}

func (b *Builder) addGrammarIfMissing(name string, g grammar.Matchable) {
	if _, ok := b.dialect.grammars[name]; !ok {
		b.dialect.grammars[name] = g
	}
}

// antiPattern returns an alternation of the reserved words, longest first.
func antiPattern(words map[string]struct{}) string {
	if len(words) == 0 {
		return ""
	}
	list := sortedKeys(words)
	slices.SortStableFunc(list, func(a, b string) int { return len(b) - len(a) })
	for i, w := range list {
		list[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(list, "|")
}
