package dialect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlmatch/pkg/grammar"
	"github.com/leapstack-labs/sqlmatch/pkg/lexer"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

func TestNormalizationStrategies(t *testing.T) {
	tests := []struct {
		name  string
		norm  NormalizationStrategy
		input string
		want  string
	}{
		{"lowercase", NormLowercase, "FooBar", "foobar"},
		{"uppercase", NormUppercase, "FooBar", "FOOBAR"},
		{"case sensitive", NormCaseSensitive, "FooBar", "FooBar"},
		{"case insensitive", NormCaseInsensitive, "FooBar", "foobar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDialect("test").
				Identifiers(`"`, `"`, `""`, tt.norm).
				Build()

			assert.Equal(t, tt.want, d.NormalizeName(tt.input))
		})
	}
}

func TestUnquoteIdentifier(t *testing.T) {
	d := NewDialect("test").Build()
	bq := NewDialect("bq").Identifiers("`", "`", "``", NormCaseInsensitive).Build()

	assert.Equal(t, "my col", d.UnquoteIdentifier(`"my col"`))
	assert.Equal(t, `a"b`, d.UnquoteIdentifier(`"a""b"`))
	assert.Equal(t, "plain", d.UnquoteIdentifier("plain"))
	assert.Equal(t, "tbl", bq.UnquoteIdentifier("`tbl`"))
}

func TestKeywords(t *testing.T) {
	d := NewDialect("test").
		WithKeywords("current_date").
		WithReservedWords("select", "FROM").
		Build()

	assert.Equal(t, []string{"CURRENT_DATE", "FROM", "SELECT"}, d.Keywords())
	assert.Equal(t, []string{"FROM", "SELECT"}, d.ReservedWords())
	assert.True(t, d.IsKeyword("Current_Date"))
	assert.False(t, d.IsReservedWord("current_date"))
	assert.True(t, d.IsReservedWord("select"))

	_, ok := d.Grammar(grammar.KeywordName("select"))
	assert.True(t, ok, "keyword parsers are generated")
}

func TestNakedIdentifierExcludesReservedWords(t *testing.T) {
	d := NewDialect("test").WithReservedWords("FROM").WithKeywords("DATE").Build()
	g, ok := d.Grammar(NakedIdentifierGrammar)
	require.True(t, ok)

	tests := []struct {
		input string
		want  bool
	}{
		{"foo", true},
		{"_x1", true},
		{"date", true},
		{"from", false},
		{"fromage", true},
		{"1abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ctx := grammar.NewContext(d.Library())
			r := g.Match(lexer.Lex(tt.input, d.LexerConfig()), ctx)
			assert.Equal(t, tt.want, r.HasMatch())
			if tt.want {
				assert.True(t, r.Matched[0].IsType(token.NakedIdentifier))
			}
		})
	}
}

func TestExtendsFallsBackToParent(t *testing.T) {
	parent := NewDialect("parent").
		WithReservedWords("SELECT").
		Grammar("A", grammar.Keyword("a")).
		Grammar("B", grammar.Keyword("b")).
		Build()
	child := NewDialect("child").
		Extends(parent).
		Grammar("B", grammar.Nothing()).
		WithReservedWords("QUALIFY").
		Build()

	a, ok := child.Grammar("A")
	require.True(t, ok)
	pa, _ := parent.Grammar("A")
	assert.Same(t, pa, a)

	b, _ := child.Grammar("B")
	_, isNothing := b.(*grammar.NothingGrammar)
	assert.True(t, isNothing)

	assert.True(t, child.IsReservedWord("select"))
	assert.True(t, child.IsReservedWord("qualify"))
	assert.False(t, parent.IsReservedWord("qualify"))
	assert.Same(t, parent, child.Parent())
	assert.Contains(t, child.GrammarNames(), "A")
}

func TestUnreserve(t *testing.T) {
	parent := NewDialect("parent").WithReservedWords("VALUE").Build()
	child := NewDialect("child").Extends(parent).Unreserve("value").Build()

	assert.True(t, parent.IsReservedWord("value"))
	assert.False(t, child.IsReservedWord("value"))
	assert.True(t, child.IsKeyword("value"))
}

func TestNewAutoWiresFeatures(t *testing.T) {
	cfg := &Config{
		Name:                  "feat",
		Identifiers:           IdentifierConfig{Quote: "`", QuoteEnd: "`", Escape: "``", Normalization: NormCaseInsensitive},
		BackQuotes:            true,
		SupportsQualify:       true,
		SupportsLateralView:   true,
		SupportsSemiAntiJoins: true,
		NestedFieldAccess:     true,
		Keywords:              []string{"RLIKE"},
	}
	d := New(cfg).Build()

	assert.True(t, d.LexerConfig().BackQuotes)
	assert.True(t, d.NestedFieldAccess())
	assert.True(t, d.IsReservedWord("qualify"))
	assert.True(t, d.IsReservedWord("lateral"))
	assert.True(t, d.IsKeyword("rlike"))

	for _, name := range []string{QualifyClauseGrammar, LateralViewClauseGrammar, SemiAntiJoinGrammar} {
		_, ok := d.Grammar(name)
		assert.True(t, ok, name)
	}

	plain := New(&Config{Name: "plain"}).Build()
	_, ok := plain.Grammar(QualifyClauseGrammar)
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	d := NewDialect("Registry_Test").Build()
	Register(d)

	got, ok := Get("registry_test")
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.Contains(t, List(), "registry_test")

	got, err := Resolve("REGISTRY_TEST")
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, err = Resolve("")
	assert.True(t, errors.Is(err, ErrDialectRequired))

	_, err = Resolve("nope")
	assert.ErrorIs(t, err, ErrUnknownDialect)
	assert.Contains(t, err.Error(), "registry_test")
}

func TestLibrary(t *testing.T) {
	d := NewDialect("lib").Grammar("X", grammar.Keyword("x")).Build()
	lib := d.Library()

	assert.Equal(t, "lib", lib.Name())
	_, ok := lib.Lookup("X")
	assert.True(t, ok)
	_, ok = lib.Lookup("Y")
	assert.False(t, ok)
}
