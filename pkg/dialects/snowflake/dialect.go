package snowflake

import (
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlmatch/pkg/grammar"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

func init() {
	dialect.Register(Snowflake)
}

// Snowflake is the Snowflake SQL dialect.
// Builder reads Config flags and auto-wires standard features:
// - QUALIFY clause (SupportsQualify)
var Snowflake = dialect.New(Config).
	Extends(ansi.ANSI).
	Grammar("SetOperatorSegment", setOperator).
	Build()

// setOperator accepts MINUS as a synonym for EXCEPT.
var setOperator = grammar.Node(token.SetOperator, grammar.Sequence(
	grammar.OneOf(
		grammar.KeywordRef("UNION"),
		grammar.KeywordRef("INTERSECT"),
		grammar.KeywordRef("EXCEPT"),
		grammar.KeywordRef("MINUS"),
	),
	grammar.OneOf(grammar.KeywordRef("ALL"), grammar.KeywordRef("DISTINCT")).Optional(),
))
