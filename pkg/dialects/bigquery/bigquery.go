// Package bigquery provides the Google BigQuery SQL dialect definition.
package bigquery

import (
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlmatch/pkg/grammar"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

func init() {
	dialect.Register(BigQuery)
}

// Config is the BigQuery dialect configuration.
var Config = &dialect.Config{
	Name: "bigquery",
	Identifiers: dialect.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        `\` + "`",
		Normalization: dialect.NormCaseInsensitive,
	},
	BackQuotes:   true,
	HashComments: true,

	// Framework Features (auto-wired by Builder)
	SupportsQualify: true,

	// Struct fields are addressed with dots, so a.b.c may be column a's
	// field path rather than schema a, table b.
	NestedFieldAccess: true,

	Keywords:      []string{"REPLACE"},
	ReservedWords: []string{"UNNEST", "WINDOW"},
}

// BigQuery is the BigQuery dialect. Identifiers are quoted with backticks;
// double-quoted text is a string literal.
var BigQuery = dialect.New(Config).
	Extends(ansi.ANSI).
	Grammars(map[string]grammar.Matchable{
		"QuotedIdentifierSegment": grammar.Typed(token.BackQuote, token.QuotedIdentifier, token.Identifier),
		"LiteralGrammar": grammar.OneOf(
			grammar.Typed(token.QuotedLiteral, token.Literal),
			grammar.Typed(token.DoubleQuote, token.QuotedLiteral, token.Literal),
			grammar.Typed(token.NumericLiteral, token.Literal),
			grammar.KeywordRef("NULL"),
			grammar.KeywordRef("TRUE"),
			grammar.KeywordRef("FALSE"),
		),
		dialect.StarModifierGrammar: dialect.StarModifiers("EXCEPT"),
	}).
	Build()
