package dialect

import (
	"github.com/leapstack-labs/sqlmatch/pkg/grammar"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// Grammar names shared between the framework and dialect packages. The
// standard grammars below refer to the base grammars by these names, so any
// dialect wiring them must define them (the ANSI dialect does).
const (
	ExpressionGrammar        = "ExpressionSegment"
	FunctionGrammar          = "FunctionSegment"
	SingleIdentifierGrammar  = "SingleIdentifierGrammar"
	QualifyClauseGrammar     = "QualifyClauseSegment"
	LateralViewClauseGrammar = "LateralViewClauseSegment"
	SemiAntiJoinGrammar      = "SemiAntiJoinGrammar"
	StarModifierGrammar      = "StarModifierSegment"
)

// --- Standard grammar definitions ---
// These are the pre-built pieces the Builder wires from Config flags.

var (
	// StandardQualify is the QUALIFY clause: QUALIFY <expression>.
	StandardQualify = grammar.Node(token.QualifyClause, grammar.Sequence(
		grammar.KeywordRef("QUALIFY"),
		grammar.Ref(ExpressionGrammar),
	))

	// StandardLateralView is the Hive/Spark LATERAL VIEW clause. The table
	// alias and the column aliases are each wrapped in an alias_expression.
	StandardLateralView = grammar.Node(token.LateralViewClause, grammar.Sequence(
		grammar.KeywordRef("LATERAL"),
		grammar.KeywordRef("VIEW"),
		grammar.KeywordRef("OUTER").Optional(),
		grammar.Ref(FunctionGrammar),
		grammar.Node(token.AliasExpression, grammar.Ref(SingleIdentifierGrammar)).Optional(),
		grammar.Node(token.AliasExpression, grammar.Sequence(
			grammar.KeywordRef("AS").Optional(),
			grammar.Delimited(grammar.Ref(SingleIdentifierGrammar)),
		)).Optional(),
	))

	// StandardSemiAntiJoin is the [LEFT] SEMI | ANTI join type.
	StandardSemiAntiJoin = grammar.Sequence(
		grammar.KeywordRef("LEFT").Optional(),
		grammar.OneOf(grammar.KeywordRef("SEMI"), grammar.KeywordRef("ANTI")),
	)
)

// StarModifiers returns the modifier list that may follow a wildcard:
// <excludeWord> (col, ...) and REPLACE (expr AS col, ...). DuckDB spells the
// first one EXCLUDE, BigQuery EXCEPT.
func StarModifiers(excludeWord string) grammar.Matchable {
	return grammar.AnySetOf(
		grammar.Sequence(
			grammar.KeywordRef(excludeWord),
			grammar.OneOf(
				grammar.Bracketed(grammar.Delimited(grammar.Ref(SingleIdentifierGrammar))),
				grammar.Ref(SingleIdentifierGrammar),
			),
		),
		grammar.Sequence(
			grammar.KeywordRef("REPLACE"),
			grammar.Bracketed(grammar.Delimited(grammar.Sequence(
				grammar.Ref(ExpressionGrammar),
				grammar.KeywordRef("AS").Optional(),
				grammar.Ref(SingleIdentifierGrammar),
			))),
		),
	).Min(1)
}
