package grammar_test

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlmatch/internal/testutil"
	"github.com/leapstack-labs/sqlmatch/pkg/grammar"
	"github.com/leapstack-labs/sqlmatch/pkg/lexer"
	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLib map[string]grammar.Matchable

func (l testLib) Name() string { return "test" }

func (l testLib) Lookup(name string) (grammar.Matchable, bool) {
	m, ok := l[name]
	return m, ok
}

func newCtx(t *testing.T, lib grammar.Library, opts ...grammar.ContextOption) *grammar.Context {
	t.Helper()
	opts = append([]grammar.ContextOption{
		grammar.WithLogger(testutil.NewTestLogger(t)),
		grammar.WithSimpleCache(grammar.NewSimpleCache()),
	}, opts...)
	return grammar.NewContext(lib, opts...)
}

// words builds adjacent word segments with no whitespace between them.
func words(ws ...string) []*segment.Segment {
	var out []*segment.Segment
	pos := token.Position{Line: 1, Column: 1}
	for _, w := range ws {
		s := segment.NewRaw(token.Word, w, pos)
		out = append(out, s)
		pos = s.EndPos()
	}
	return out
}

func lex(sql string) []*segment.Segment {
	return lexer.Lex(sql, lexer.Config{})
}

func raws(segs []*segment.Segment) []string {
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.Raw())
	}
	return out
}

func joined(segs []*segment.Segment) string {
	return strings.Join(raws(segs), "")
}

// assertPartition checks that matched followed by unmatched reproduces the
// input text without loss or duplication.
func assertPartition(t *testing.T, input []*segment.Segment, r grammar.MatchResult) {
	t.Helper()
	assert.Equal(t, joined(input), joined(r.Matched)+joined(r.Unmatched))
}

func TestAnySetOfLimitsEachElement(t *testing.T) {
	g := grammar.AnySetOf(grammar.String("foo"), grammar.String("bar"))
	input := words("foo", "foo")

	r := g.Match(input, newCtx(t, nil))

	assert.Equal(t, []string{"foo"}, raws(r.Matched))
	assert.Equal(t, []string{"foo"}, raws(r.Unmatched))
	assert.Same(t, input[1], r.Unmatched[0])
}

func TestAnySetOfAnyOrder(t *testing.T) {
	g := grammar.AnySetOf(grammar.Keyword("foo"), grammar.Keyword("bar"), grammar.Keyword("baz"))
	input := lex("baz foo bar baz")

	r := g.Match(input, newCtx(t, nil))

	assert.Equal(t, "baz foo bar", joined(r.Matched))
	assert.Equal(t, " baz", joined(r.Unmatched))
	assertPartition(t, input, r)
}

func TestAnyNumberOfMaxTimes(t *testing.T) {
	g := grammar.AnyNumberOf(grammar.OneOf(grammar.String("foo"), grammar.String("bar"))).Min(1).Max(2)
	input := words("foo", "bar", "foo")

	r := g.Match(input, newCtx(t, nil))

	assert.Equal(t, []string{"foo", "bar"}, raws(r.Matched))
	assert.Equal(t, []string{"foo"}, raws(r.Unmatched))
}

func TestAnyNumberOfMinTimes(t *testing.T) {
	g := grammar.AnyNumberOf(grammar.Keyword("foo")).Min(3)
	input := lex("foo foo")

	r := g.Match(input, newCtx(t, nil))

	assert.False(t, r.HasMatch())
	assert.Equal(t, input, r.Unmatched)
}

func TestAnyNumberOfZeroMinNeverFails(t *testing.T) {
	g := grammar.AnyNumberOf(grammar.Keyword("foo"), grammar.Keyword("bar"))
	inputs := []string{"", "foo", "bar foo", "baz", "  foo", "foo baz foo", "foo -- c\nbar"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			segs := lex(in)
			var r grammar.MatchResult
			require.NotPanics(t, func() { r = g.Match(segs, newCtx(t, nil)) })
			assertPartition(t, segs, r)
			assert.True(t, g.IsOptional())
		})
	}
}

func TestOneOfConsumesExactlyOne(t *testing.T) {
	a := grammar.Sequence(grammar.Keyword("a"), grammar.Keyword("b"))
	b := grammar.Keyword("c")
	g := grammar.OneOf(a, b)

	tests := []struct {
		input       string
		wantMatched string
	}{
		{input: "a b c", wantMatched: "a b"},
		{input: "c a b", wantMatched: "c"},
		{input: "a c", wantMatched: ""},
		{input: "", wantMatched: ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			segs := lex(tt.input)
			r := g.Match(segs, newCtx(t, nil))
			assert.Equal(t, tt.wantMatched, joined(r.Matched))
			assertPartition(t, segs, r)
			if tt.wantMatched == "" {
				assert.Equal(t, segs, r.Unmatched)
			}
		})
	}
}

func TestLongestMatchWins(t *testing.T) {
	short := grammar.Keyword("a")
	long := grammar.Sequence(grammar.Keyword("a"), grammar.Keyword("b"))
	g := grammar.OneOf(short, long)

	r := g.Match(lex("a b"), newCtx(t, nil))

	assert.Equal(t, "a b", joined(r.Matched))
	assert.Empty(t, r.Unmatched)
}

func TestLongestMatchTieGoesToFirst(t *testing.T) {
	g := grammar.OneOf(
		grammar.String("a", "first_kind"),
		grammar.String("a", "second_kind"),
	)

	r := g.Match(words("a"), newCtx(t, nil))

	require.Len(t, r.Matched, 1)
	assert.True(t, r.Matched[0].IsType("first_kind"))
	assert.False(t, r.Matched[0].IsType("second_kind"))
}

func TestAnyNumberOfExclude(t *testing.T) {
	g := grammar.AnyNumberOf(grammar.Typed(token.Word)).Exclude(grammar.Keyword("stop"))

	r := g.Match(lex("stop a b"), newCtx(t, nil))
	assert.False(t, r.HasMatch())

	r = g.Match(lex("a stop b"), newCtx(t, nil))
	assert.Equal(t, "a stop b", joined(r.Matched))
}

func TestAnyNumberOfTerminators(t *testing.T) {
	word := grammar.Typed(token.Word)
	g := grammar.AnyNumberOf(word).Terminators(grammar.Keyword("from"))

	input := lex("a b FROM c")
	r := g.Match(input, newCtx(t, nil))

	assert.Equal(t, "a b", joined(r.Matched))
	assert.Equal(t, " FROM c", joined(r.Unmatched))
	assertPartition(t, input, r)

	// A terminator is not checked before the first repetition.
	r = g.Match(lex("FROM c"), newCtx(t, nil))
	assert.Equal(t, "FROM c", joined(r.Matched))
}

func TestAnyNumberOfInheritedTerminators(t *testing.T) {
	inner := grammar.AnyNumberOf(grammar.Typed(token.Word))
	outer := grammar.Sequence(inner).Terminators(grammar.Keyword("where"))
	reset := grammar.Sequence(grammar.AnyNumberOf(grammar.Typed(token.Word)).ResetTerminators()).
		Terminators(grammar.Keyword("where"))

	r := outer.Match(lex("a b where c"), newCtx(t, nil))
	assert.Equal(t, "a b", joined(r.Matched))

	r = reset.Match(lex("a b where c"), newCtx(t, nil))
	assert.Equal(t, "a b where c", joined(r.Matched))
}

func TestAnyNumberOfGaps(t *testing.T) {
	input := lex("foo  foo")

	r := grammar.AnyNumberOf(grammar.Keyword("foo")).Match(input, newCtx(t, nil))
	assert.Equal(t, "foo  foo", joined(r.Matched))

	r = grammar.AnyNumberOf(grammar.Keyword("foo")).NoGaps().Match(input, newCtx(t, nil))
	assert.Equal(t, "foo", joined(r.Matched))
	assert.Equal(t, "  foo", joined(r.Unmatched))
}

func TestAnyNumberOfReturnsTrailingGap(t *testing.T) {
	input := lex("foo bar ")
	r := grammar.AnyNumberOf(grammar.Keyword("foo")).Match(input, newCtx(t, nil))

	assert.Equal(t, "foo", joined(r.Matched))
	assert.Equal(t, " bar ", joined(r.Unmatched))
	assertPartition(t, input, r)
}

func TestAnySetOfDiscardKeepsGap(t *testing.T) {
	input := lex("foo /* c */ foo")
	r := grammar.AnySetOf(grammar.Keyword("foo")).Match(input, newCtx(t, nil))

	assert.Equal(t, "foo", joined(r.Matched))
	assert.Equal(t, " /* c */ foo", joined(r.Unmatched))
	assertPartition(t, input, r)
}

func TestOptionallyBracketed(t *testing.T) {
	g := grammar.OptionallyBracketed(grammar.Keyword("a"), grammar.Keyword("b"))

	r := g.Match(lex("(a b) c"), newCtx(t, nil))
	require.Len(t, r.Matched, 1)
	assert.True(t, r.Matched[0].IsType(token.Bracketed))
	assert.Equal(t, "(a b)", joined(r.Matched))

	r = g.Match(lex("a b c"), newCtx(t, nil))
	assert.Equal(t, "a b", joined(r.Matched))

	r = g.Match(lex("(a) b"), newCtx(t, nil))
	assert.False(t, r.HasMatch())
}

func TestOptionallyBracketedSingleElement(t *testing.T) {
	g := grammar.OptionallyBracketed(grammar.Typed(token.Word))

	r := g.Match(lex("( x )"), newCtx(t, nil))
	require.Len(t, r.Matched, 1)
	assert.Equal(t, token.Bracketed, r.Matched[0].Type())

	r = g.Match(lex("x"), newCtx(t, nil))
	assert.Equal(t, "x", joined(r.Matched))
}

func TestPruningSkipsAlternatives(t *testing.T) {
	g := grammar.OneOf(grammar.Keyword("a"), grammar.Keyword("b"), grammar.Keyword("c"))
	ctx := newCtx(t, nil)

	r := g.Match(lex("c"), ctx)

	assert.Equal(t, "c", joined(r.Matched))
	assert.Equal(t, 2, ctx.Stats().Pruned)
	assert.Equal(t, 1, ctx.Stats().Attempts)
}

func TestPruningKeepsNonSimpleAlternatives(t *testing.T) {
	g := grammar.OneOf(grammar.Keyword("a"), grammar.Regex(`[A-Z]+`, ""))
	ctx := newCtx(t, nil)

	r := g.Match(lex("zzz"), ctx)

	assert.Equal(t, "zzz", joined(r.Matched))
	assert.Equal(t, 1, ctx.Stats().Pruned)
}

func TestPruningTransparency(t *testing.T) {
	lib := testLib{
		"item": grammar.OneOf(
			grammar.Keyword("foo"),
			grammar.Sequence(grammar.Keyword("bar"), grammar.Optional(grammar.Keyword("baz"))),
			grammar.Bracketed(grammar.Ref("list")),
		),
		"list": grammar.Delimited(grammar.Ref("item")),
	}
	grammars := map[string]grammar.Matchable{
		"any":        grammar.AnyNumberOf(grammar.Keyword("foo"), grammar.Keyword("bar"), grammar.Typed(token.NumericLiteral)),
		"one":        grammar.OneOf(grammar.Keyword("foo"), grammar.Sequence(grammar.Keyword("foo"), grammar.Keyword("bar"))),
		"set":        grammar.AnySetOf(grammar.Keyword("foo"), grammar.Keyword("bar"), grammar.Regex(`BA.`, "BAR")),
		"bounded":    grammar.AnyNumberOf(grammar.OneOf(grammar.Keyword("foo"), grammar.Keyword("bar"))).Min(1).Max(2),
		"per":        grammar.AnyNumberOf(grammar.Keyword("foo"), grammar.Keyword("bar")).MaxPerElement(2),
		"excluded":   grammar.AnyNumberOf(grammar.Typed(token.Word)).Exclude(grammar.Keyword("baz")),
		"terminated": grammar.AnyNumberOf(grammar.Typed(token.Word)).Terminators(grammar.Keyword("baz")),
		"nogaps":     grammar.AnyNumberOf(grammar.Keyword("foo"), grammar.Keyword("bar")).NoGaps(),
		"bracketed":  grammar.OptionallyBracketed(grammar.Keyword("foo"), grammar.Keyword("bar")),
		"recursive":  grammar.AnyNumberOf(grammar.Ref("item")),
		"whitespace": grammar.AnyNumberOf(grammar.Typed(token.Whitespace), grammar.Keyword("foo")),
	}
	inputs := []string{
		"", "foo", "bar", "foo bar foo", "bar baz foo", "baz foo",
		"1 foo 2", "(foo, bar baz)", "(foo bar) foo", "foo  bar", " foo",
		"foo -- c\nbar", "bat bar", "((foo), bar)",
	}

	for name, g := range grammars {
		for _, in := range inputs {
			t.Run(name+"/"+in, func(t *testing.T) {
				segs := lex(in)
				pruned := g.Match(segs, newCtx(t, lib))
				full := g.Match(segs, newCtx(t, lib, grammar.WithoutPruning()))

				assert.Equal(t, describe(full.Matched), describe(pruned.Matched))
				assert.Equal(t, describe(full.Unmatched), describe(pruned.Unmatched))
				assertPartition(t, segs, pruned)
			})
		}
	}
}

// describe renders segments with their types so results can be compared
// structurally.
func describe(segs []*segment.Segment) []string {
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		d := strings.Join(s.Types(), "|") + ":" + s.Raw()
		if !s.IsRaw() {
			d += "{" + strings.Join(describe(s.Children()), ",") + "}"
		}
		out = append(out, d)
	}
	return out
}

func TestSimpleHints(t *testing.T) {
	ctx := newCtx(t, nil)

	hint, ok := grammar.AnyNumberOf(grammar.Keyword("a"), grammar.Typed(token.NumericLiteral)).Simple(ctx, nil)
	require.True(t, ok)
	assert.Contains(t, hint.Raws, "A")
	assert.Contains(t, hint.Types, token.NumericLiteral)

	_, ok = grammar.OneOf(grammar.Keyword("a"), grammar.Regex(`X`, "")).Simple(ctx, nil)
	assert.False(t, ok)
}

// namedLib is a comparable library, so contexts over it use the hint cache.
type namedLib struct {
	name  string
	rules map[string]grammar.Matchable
}

func (l *namedLib) Name() string { return l.name }

func (l *namedLib) Lookup(name string) (grammar.Matchable, bool) {
	m, ok := l.rules[name]
	return m, ok
}

func TestSimpleCacheSeparatesLibrariesWithSameName(t *testing.T) {
	cache := grammar.NewSimpleCache()
	g := grammar.OneOf(grammar.Ref("x"), grammar.String("z"))
	first := &namedLib{name: "same", rules: map[string]grammar.Matchable{"x": grammar.String("a")}}
	second := &namedLib{name: "same", rules: map[string]grammar.Matchable{"x": grammar.String("b")}}

	r := g.Match(words("a"), newCtx(t, first, grammar.WithSimpleCache(cache)))
	assert.Equal(t, []string{"a"}, raws(r.Matched))
	cached := cache.Len()
	assert.Positive(t, cached)

	r = g.Match(words("b"), newCtx(t, second, grammar.WithSimpleCache(cache)))
	assert.Equal(t, []string{"b"}, raws(r.Matched))
	assert.Greater(t, cache.Len(), cached)
	cached = cache.Len()

	// The same library value reuses its entries.
	r = g.Match(words("a"), newCtx(t, first, grammar.WithSimpleCache(cache)))
	assert.Equal(t, []string{"a"}, raws(r.Matched))
	assert.Equal(t, cached, cache.Len())
}
