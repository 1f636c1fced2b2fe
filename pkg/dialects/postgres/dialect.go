package postgres

import (
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlmatch/pkg/grammar"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect. On top of ANSI it accepts
// SELECT DISTINCT ON (...).
var Postgres = dialect.New(Config).
	Extends(ansi.ANSI).
	Grammar("SelectClauseModifierSegment", distinctOn).
	Build()

var distinctOn = grammar.Node(token.SelectClauseModifier, grammar.OneOf(
	grammar.Sequence(
		grammar.KeywordRef("DISTINCT"),
		grammar.Sequence(
			grammar.KeywordRef("ON"),
			grammar.Bracketed(grammar.Delimited(grammar.Ref(dialect.ExpressionGrammar))),
		).Optional(),
	),
	grammar.KeywordRef("ALL"),
))
