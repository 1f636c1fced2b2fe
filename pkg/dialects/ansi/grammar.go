package ansi

import (
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	g "github.com/leapstack-labs/sqlmatch/pkg/grammar"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// kw is shorthand for a keyword reference.
func kw(word string) *g.RefGrammar { return g.KeywordRef(word) }

// ref is shorthand for a named grammar reference.
func ref(name string) *g.RefGrammar { return g.Ref(name) }

// functionNameKeywords are reserved words that are also function names.
var functionNameKeywords = []string{"LEFT", "RIGHT"}

// grammars returns the ANSI grammar library.
func grammars() map[string]g.Matchable {
	return map[string]g.Matchable{
		// --- Leaves ---
		"QuotedIdentifierSegment": g.Typed(token.DoubleQuote, token.QuotedIdentifier, token.Identifier),
		dialect.SingleIdentifierGrammar: g.OneOf(
			ref(dialect.NakedIdentifierGrammar),
			ref("QuotedIdentifierSegment"),
		),
		"DotSegment":    g.Symbol(".", token.Dot),
		"StarSegment":   g.Symbol("*", token.Star),
		"EqualsSegment": g.Symbol("=", token.ComparisonOperator),
		"LiteralGrammar": g.OneOf(
			g.Typed(token.QuotedLiteral, token.Literal),
			g.Typed(token.NumericLiteral, token.Literal),
			kw("NULL"), kw("TRUE"), kw("FALSE"),
		),
		"DatatypeSegment": g.Node(token.DataType, g.Sequence(
			g.Typed(token.Word, token.Keyword),
			g.Bracketed(g.Delimited(g.Typed(token.NumericLiteral, token.Literal))).Optional(),
		)),

		// --- References ---
		"ObjectReferenceGrammar": g.Sequence(
			ref(dialect.SingleIdentifierGrammar),
			g.AnyNumberOf(g.Sequence(ref("DotSegment"), ref(dialect.SingleIdentifierGrammar)).NoGaps()).NoGaps(),
		).NoGaps(),
		"ColumnReferenceSegment": g.Node(token.ColumnReference, ref("ObjectReferenceGrammar"), token.ObjectReference),
		"TableReferenceSegment":  g.Node(token.TableReference, ref("ObjectReferenceGrammar"), token.ObjectReference),
		"WildcardIdentifierSegment": g.Node(token.WildcardIdentifier, g.Sequence(
			g.AnyNumberOf(g.Sequence(ref(dialect.SingleIdentifierGrammar), ref("DotSegment")).NoGaps()).NoGaps(),
			ref("StarSegment"),
		).NoGaps(), token.ObjectReference),
		"WildcardExpressionSegment": g.Node(token.WildcardExpression, g.Sequence(
			ref("WildcardIdentifierSegment"),
			ref(dialect.StarModifierGrammar).Optional(),
		)),
		dialect.StarModifierGrammar: g.Nothing(),
		"AliasExpressionSegment": g.Node(token.AliasExpression, g.Sequence(
			kw("AS").Optional(),
			ref(dialect.SingleIdentifierGrammar),
		)),

		// --- Expressions ---
		dialect.ExpressionGrammar: g.Node(token.Expression, ref("Expression_A_Grammar")),
		"Expression_A_Grammar": g.Sequence(
			ref("Expression_B_Grammar"),
			g.AnyNumberOf(g.Sequence(ref("BinaryOperatorGrammar"), ref("Expression_B_Grammar"))),
		),
		"Expression_B_Grammar": g.Sequence(
			g.AnyNumberOf(kw("NOT"), g.MultiString([]string{"+", "-"}, token.BinaryOperator)),
			ref("Expression_C_Grammar"),
			g.AnyNumberOf(g.Sequence(g.Symbol("::", token.BinaryOperator), ref("DatatypeSegment"))),
		),
		"Expression_C_Grammar": g.OneOf(
			ref("LiteralGrammar"),
			ref("CaseExpressionSegment"),
			ref("CastExpressionSegment"),
			ref(dialect.FunctionGrammar),
			g.Sequence(kw("EXISTS"), g.Bracketed(ref("SelectableGrammar"))),
			g.Bracketed(ref("SelectableGrammar")),
			g.Bracketed(g.Delimited(ref(dialect.ExpressionGrammar))),
			ref("ColumnReferenceSegment"),
		),
		"BinaryOperatorGrammar": g.OneOf(
			g.Typed(token.Operator, token.ComparisonOperator),
			g.MultiString([]string{"+", "-", "*", "/", "%", "||"}, token.BinaryOperator),
			kw("AND"),
			kw("OR"),
			g.Sequence(kw("NOT").Optional(), g.OneOf(kw("IN"), kw("LIKE"), kw("ILIKE"), kw("BETWEEN"))),
			g.Sequence(kw("IS"), kw("NOT").Optional(), g.Sequence(kw("DISTINCT"), kw("FROM")).Optional()),
		),
		"CaseExpressionSegment": g.Node(token.CaseExpression, g.Sequence(
			kw("CASE"),
			ref(dialect.ExpressionGrammar).Optional(),
			g.AnyNumberOf(g.Sequence(
				kw("WHEN"), ref(dialect.ExpressionGrammar),
				kw("THEN"), ref(dialect.ExpressionGrammar),
			)).Min(1),
			g.Sequence(kw("ELSE"), ref(dialect.ExpressionGrammar)).Optional(),
			kw("END"),
		)),
		"CastExpressionSegment": g.Node(token.Function, g.Sequence(
			g.Node(token.FunctionName, kw("CAST")),
			g.Bracketed(ref(dialect.ExpressionGrammar), kw("AS"), ref("DatatypeSegment")),
		)),
		"FunctionNameSegment": g.Node(token.FunctionName, g.Sequence(
			g.AnyNumberOf(g.Sequence(ref(dialect.SingleIdentifierGrammar), ref("DotSegment")).NoGaps()).NoGaps(),
			g.OneOf(
				ref(dialect.SingleIdentifierGrammar),
				g.MultiString(functionNameKeywords, token.Keyword),
			),
		).NoGaps()),
		dialect.FunctionGrammar: g.Node(token.Function, g.Sequence(
			g.Sequence(
				ref("FunctionNameSegment"),
				g.Bracketed(ref("FunctionContentsGrammar").Optional()),
			).NoGaps(),
			ref("OverClauseSegment").Optional(),
		)),
		"FunctionContentsGrammar": g.OneOf(
			ref("StarSegment"),
			g.Sequence(
				kw("DISTINCT").Optional(),
				g.Delimited(ref(dialect.ExpressionGrammar)),
				ref("OrderByClauseSegment").Optional(),
			),
		),
		"OverClauseSegment": g.Node(token.OverClause, g.Sequence(
			kw("OVER"),
			g.Bracketed(
				g.Sequence(kw("PARTITION"), kw("BY"), g.Delimited(ref(dialect.ExpressionGrammar))).Optional(),
				ref("OrderByClauseSegment").Optional(),
			),
		)),

		// --- SELECT ---
		"SelectClauseModifierSegment": g.Node(token.SelectClauseModifier, g.OneOf(kw("DISTINCT"), kw("ALL"))),
		"SelectClauseElementSegment": g.Node(token.SelectClauseElement, g.OneOf(
			ref("WildcardExpressionSegment"),
			g.Sequence(
				ref(dialect.ExpressionGrammar),
				ref("AliasExpressionSegment").Optional(),
			),
		)),
		"SelectClauseSegment": g.Node(token.SelectClause, g.Sequence(
			kw("SELECT"),
			ref("SelectClauseModifierSegment").Optional(),
			g.Delimited(ref("SelectClauseElementSegment")),
			ref("IntoTableClauseSegment").Optional(),
		)),
		"IntoTableClauseSegment": g.Node(token.IntoTableClause, g.Sequence(
			kw("INTO"),
			ref("TableReferenceSegment"),
		)),
		"FromClauseSegment": g.Node(token.FromClause, g.Sequence(
			kw("FROM"),
			g.Delimited(ref("FromExpressionSegment")),
		)),
		"FromExpressionSegment": g.Node(token.FromExpression, g.Sequence(
			ref("FromExpressionElementSegment"),
			g.AnyNumberOf(ref("JoinClauseSegment"), ref(dialect.LateralViewClauseGrammar)),
		)),
		"FromExpressionElementSegment": g.Node(token.FromExpressionElement, g.Sequence(
			ref("TableExpressionSegment"),
			ref("AliasExpressionSegment").Optional(),
		)),
		"TableExpressionSegment": g.Node(token.TableExpression, g.OneOf(
			ref(dialect.FunctionGrammar),
			ref("TableReferenceSegment"),
			g.Bracketed(ref("SelectableGrammar")),
		)),
		"JoinClauseSegment": g.Node(token.JoinClause, g.Sequence(
			ref("JoinTypeKeywordsGrammar").Optional(),
			kw("JOIN"),
			ref("FromExpressionElementSegment"),
			g.OneOf(
				ref("JoinOnConditionSegment"),
				g.Sequence(kw("USING"), g.Bracketed(g.Delimited(ref(dialect.SingleIdentifierGrammar)))),
			).Optional(),
		)),
		"JoinTypeKeywordsGrammar": g.OneOf(
			kw("CROSS"),
			kw("INNER"),
			kw("NATURAL"),
			g.Sequence(g.OneOf(kw("LEFT"), kw("RIGHT"), kw("FULL")), kw("OUTER").Optional()),
			ref(dialect.SemiAntiJoinGrammar),
		),
		dialect.SemiAntiJoinGrammar: g.Nothing(),
		"JoinOnConditionSegment": g.Node(token.JoinOnCondition, g.Sequence(
			kw("ON"),
			ref(dialect.ExpressionGrammar),
		)),
		dialect.LateralViewClauseGrammar: g.Nothing(),
		"WhereClauseSegment": g.Node(token.WhereClause, g.Sequence(
			kw("WHERE"),
			ref(dialect.ExpressionGrammar),
		)),
		"GroupByClauseSegment": g.Node(token.GroupByClause, g.Sequence(
			kw("GROUP"), kw("BY"),
			g.Delimited(ref(dialect.ExpressionGrammar)),
		)),
		"HavingClauseSegment": g.Node(token.HavingClause, g.Sequence(
			kw("HAVING"),
			ref(dialect.ExpressionGrammar),
		)),
		dialect.QualifyClauseGrammar: g.Nothing(),
		"OrderByClauseSegment": g.Node(token.OrderByClause, g.Sequence(
			kw("ORDER"), kw("BY"),
			g.Delimited(g.Sequence(
				ref(dialect.ExpressionGrammar),
				g.OneOf(kw("ASC"), kw("DESC")).Optional(),
				g.Sequence(kw("NULLS"), g.OneOf(kw("FIRST"), kw("LAST"))).Optional(),
			)),
		)),
		"LimitClauseSegment": g.Node(token.LimitClause, g.Sequence(
			kw("LIMIT"),
			g.OneOf(kw("ALL"), ref(dialect.ExpressionGrammar)),
			g.Sequence(kw("OFFSET"), ref(dialect.ExpressionGrammar)).Optional(),
		)),
		// A set expression owns the trailing ORDER BY and LIMIT, so its
		// branches use the unordered form.
		"UnorderedSelectStatementSegment": g.Node(token.SelectStatement, g.Sequence(
			ref("SelectClauseSegment"),
			ref("FromClauseSegment").Optional(),
			ref("WhereClauseSegment").Optional(),
			ref("GroupByClauseSegment").Optional(),
			ref("HavingClauseSegment").Optional(),
			ref(dialect.QualifyClauseGrammar).Optional(),
		)),
		"SelectStatementSegment": g.Node(token.SelectStatement, g.Sequence(
			ref("SelectClauseSegment"),
			ref("FromClauseSegment").Optional(),
			ref("WhereClauseSegment").Optional(),
			ref("GroupByClauseSegment").Optional(),
			ref("HavingClauseSegment").Optional(),
			ref(dialect.QualifyClauseGrammar).Optional(),
			ref("OrderByClauseSegment").Optional(),
			ref("LimitClauseSegment").Optional(),
		)),
		"ValuesClauseSegment": g.Node(token.ValuesClause, g.Sequence(
			g.OneOf(kw("VALUES"), kw("VALUE")),
			g.Delimited(g.Bracketed(g.Delimited(ref(dialect.ExpressionGrammar)))),
		)),

		// --- Set operations and CTEs ---
		"SetOperatorSegment": g.Node(token.SetOperator, g.Sequence(
			g.OneOf(kw("UNION"), kw("INTERSECT"), kw("EXCEPT")),
			g.OneOf(kw("ALL"), kw("DISTINCT")).Optional(),
		)),
		"NonSetSelectableGrammar": g.OneOf(
			ref("ValuesClauseSegment"),
			ref("UnorderedSelectStatementSegment"),
			g.Bracketed(ref("SelectableGrammar")),
		),
		"SetExpressionSegment": g.Node(token.SetExpression, g.Sequence(
			ref("NonSetSelectableGrammar"),
			g.AnyNumberOf(g.Sequence(ref("SetOperatorSegment"), ref("NonSetSelectableGrammar"))).Min(1),
			ref("OrderByClauseSegment").Optional(),
			ref("LimitClauseSegment").Optional(),
		)),
		"NonWithSelectableGrammar": g.OneOf(
			ref("SetExpressionSegment"),
			g.OptionallyBracketed(ref("SelectStatementSegment")),
			ref("NonSetSelectableGrammar"),
		),
		"CommonTableExpressionSegment": g.Node(token.CommonTableExpression, g.Sequence(
			ref(dialect.SingleIdentifierGrammar),
			g.Bracketed(g.Delimited(ref(dialect.SingleIdentifierGrammar))).Optional(),
			kw("AS"),
			g.Bracketed(ref("SelectableGrammar")),
		)),
		"WithCompoundStatementSegment": g.Node(token.WithCompoundStatement, g.Sequence(
			kw("WITH"),
			kw("RECURSIVE").Optional(),
			g.Delimited(ref("CommonTableExpressionSegment")),
			g.OneOf(ref("NonWithSelectableGrammar"), ref("NonWithNonSelectableGrammar")),
		)),
		"SelectableGrammar": g.OneOf(
			g.OptionallyBracketed(ref("WithCompoundStatementSegment")),
			ref("NonWithSelectableGrammar"),
		),

		// --- DML ---
		"NonWithNonSelectableGrammar": g.OneOf(
			ref("InsertStatementSegment"),
			ref("UpdateStatementSegment"),
			ref("DeleteStatementSegment"),
			ref("MergeStatementSegment"),
		),
		"InsertStatementSegment": g.Node(token.InsertStatement, g.Sequence(
			kw("INSERT"),
			kw("INTO"),
			ref("TableReferenceSegment"),
			g.Bracketed(g.Delimited(ref("ColumnReferenceSegment"))).Optional(),
			g.OneOf(
				ref("SelectableGrammar"),
				g.Sequence(kw("DEFAULT"), kw("VALUES")),
			),
		)),
		"SetClauseSegment": g.Node(token.SetClause, g.Sequence(
			ref("ColumnReferenceSegment"),
			ref("EqualsSegment"),
			g.OneOf(kw("DEFAULT"), ref(dialect.ExpressionGrammar)),
		)),
		"SetClauseListSegment": g.Node(token.SetClauseList, g.Sequence(
			kw("SET"),
			g.Delimited(ref("SetClauseSegment")),
		)),
		"UpdateStatementSegment": g.Node(token.UpdateStatement, g.Sequence(
			kw("UPDATE"),
			ref("TableReferenceSegment"),
			ref("AliasExpressionSegment").Optional(),
			ref("SetClauseListSegment"),
			ref("FromClauseSegment").Optional(),
			ref("WhereClauseSegment").Optional(),
		)),
		"DeleteStatementSegment": g.Node(token.DeleteStatement, g.Sequence(
			kw("DELETE"),
			kw("FROM"),
			ref("TableReferenceSegment"),
			ref("AliasExpressionSegment").Optional(),
			g.Node(token.UsingClause, g.Sequence(
				kw("USING"),
				g.Delimited(ref("FromExpressionSegment")),
			)).Optional(),
			ref("WhereClauseSegment").Optional(),
		)),
		"MergeStatementSegment": g.Node(token.MergeStatement, g.Sequence(
			kw("MERGE"),
			kw("INTO"),
			ref("TableReferenceSegment"),
			ref("AliasExpressionSegment").Optional(),
			kw("USING"),
			ref("FromExpressionElementSegment"),
			ref("JoinOnConditionSegment"),
			ref("MergeMatchSegment"),
		)),
		"MergeMatchSegment": g.Node(token.MergeMatch, g.AnyNumberOf(ref("MergeWhenClauseSegment")).Min(1)),
		"MergeWhenClauseSegment": g.Node(token.MergeWhenClause, g.Sequence(
			kw("WHEN"),
			kw("NOT").Optional(),
			kw("MATCHED"),
			g.Sequence(kw("AND"), ref(dialect.ExpressionGrammar)).Optional(),
			kw("THEN"),
			g.OneOf(
				g.Sequence(kw("UPDATE"), ref("SetClauseListSegment")),
				kw("DELETE"),
				g.Sequence(
					kw("INSERT"),
					g.Bracketed(g.Delimited(ref("ColumnReferenceSegment"))).Optional(),
					ref("ValuesClauseSegment"),
				),
			),
		)),

		// --- Statements ---
		"StatementSegment": g.Node(token.Statement, g.OneOf(
			ref("SelectableGrammar"),
			ref("NonWithNonSelectableGrammar"),
		)),
	}
}
