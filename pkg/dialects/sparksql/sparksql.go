// Package sparksql provides the Apache Spark SQL dialect definition.
package sparksql

import (
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlmatch/pkg/grammar"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

func init() {
	dialect.Register(SparkSQL)
}

// Config is the Spark SQL dialect configuration.
var Config = &dialect.Config{
	Name: "sparksql",
	Identifiers: dialect.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: dialect.NormCaseInsensitive,
	},
	BackQuotes: true,

	// Framework Features (auto-wired by Builder)
	SupportsLateralView:   true,
	SupportsSemiAntiJoins: true,

	ReservedWords: []string{"MINUS"},
}

// SparkSQL is the Spark SQL dialect.
// Builder reads Config flags and auto-wires standard features:
// - LATERAL VIEW clause (SupportsLateralView)
// - SEMI/ANTI joins (SupportsSemiAntiJoins)
var SparkSQL = dialect.New(Config).
	Extends(ansi.ANSI).
	Grammar("QuotedIdentifierSegment", QuotedIdentifier).
	Build()

// QuotedIdentifier accepts both `name` and "name". Dialects extending Spark
// reuse it.
var QuotedIdentifier = grammar.OneOf(
	grammar.Typed(token.BackQuote, token.QuotedIdentifier, token.Identifier),
	grammar.Typed(token.DoubleQuote, token.QuotedIdentifier, token.Identifier),
)
