// Package token defines source positions and the syntactic type tags carried by segments.
//
// Type tags are plain strings so that dialects can introduce their own node kinds
// (e.g. "lateral_view_clause") without touching this package. The constants below
// cover the raw lexer output and the node kinds the ANSI grammar and the
// reference analysis depend on.
package token

// Type is a syntactic type tag attached to a segment.
type Type = string

// Raw segment types produced by the lexer.
const (
	Whitespace     Type = "whitespace"
	Newline        Type = "newline"
	Comment        Type = "comment"
	InlineComment  Type = "inline_comment"
	BlockComment   Type = "block_comment"
	Word           Type = "word"
	NumericLiteral Type = "numeric_literal"
	QuotedLiteral  Type = "quoted_literal"
	DoubleQuote    Type = "double_quote"
	BackQuote      Type = "back_quote"
	Symbol         Type = "symbol"
	Comma          Type = "comma"
	Dot            Type = "dot"
	Semicolon      Type = "statement_terminator"
	StartBracket   Type = "start_bracket"
	EndBracket     Type = "end_bracket"
	Star           Type = "star"
	Operator       Type = "raw_comparison_operator"
	Unlexable      Type = "unlexable"
)

// Parsed leaf types assigned by grammar leaf parsers.
const (
	Keyword            Type = "keyword"
	NakedIdentifier    Type = "naked_identifier"
	QuotedIdentifier   Type = "quoted_identifier"
	Identifier         Type = "identifier"
	Literal            Type = "literal"
	BinaryOperator     Type = "binary_operator"
	ComparisonOperator Type = "comparison_operator"
	FunctionName       Type = "function_name"
)

// Composite node types built by the grammar.
const (
	File                  Type = "file"
	Statement             Type = "statement"
	Unparsable            Type = "unparsable"
	Bracketed             Type = "bracketed"
	SelectStatement       Type = "select_statement"
	SetExpression         Type = "set_expression"
	SetOperator           Type = "set_operator"
	WithCompoundStatement Type = "with_compound_statement"
	CommonTableExpression Type = "common_table_expression"
	SelectClause          Type = "select_clause"
	SelectClauseElement   Type = "select_clause_element"
	SelectClauseModifier  Type = "select_clause_modifier"
	WildcardExpression    Type = "wildcard_expression"
	WildcardIdentifier    Type = "wildcard_identifier"
	AliasExpression       Type = "alias_expression"
	IntoTableClause       Type = "into_table_clause"
	FromClause            Type = "from_clause"
	FromExpression        Type = "from_expression"
	FromExpressionElement Type = "from_expression_element"
	TableExpression       Type = "table_expression"
	JoinClause            Type = "join_clause"
	JoinOnCondition       Type = "join_on_condition"
	UsingClause           Type = "using_clause"
	LateralViewClause     Type = "lateral_view_clause"
	WhereClause           Type = "where_clause"
	GroupByClause         Type = "groupby_clause"
	HavingClause          Type = "having_clause"
	OrderByClause         Type = "orderby_clause"
	QualifyClause         Type = "qualify_clause"
	LimitClause           Type = "limit_clause"
	Expression            Type = "expression"
	DataType              Type = "data_type"
	OverClause            Type = "over_clause"
	Function              Type = "function"
	CaseExpression        Type = "case_expression"
	ObjectReference       Type = "object_reference"
	ColumnReference       Type = "column_reference"
	TableReference        Type = "table_reference"
	InsertStatement       Type = "insert_statement"
	ValuesClause          Type = "values_clause"
	UpdateStatement       Type = "update_statement"
	SetClauseList         Type = "set_clause_list"
	SetClause             Type = "set_clause"
	DeleteStatement       Type = "delete_statement"
	MergeStatement        Type = "merge_statement"
	MergeMatch            Type = "merge_match"
	MergeWhenClause       Type = "merge_when_clause"
)

// nonCode lists raw types that carry no syntactic meaning.
var nonCode = map[Type]struct{}{
	Whitespace:    {},
	Newline:       {},
	Comment:       {},
	InlineComment: {},
	BlockComment:  {},
}

// IsNonCode reports whether a raw type is whitespace or a comment.
func IsNonCode(t Type) bool {
	_, ok := nonCode[t]
	return ok
}

// IsWhitespace reports whether a raw type is whitespace or a newline.
func IsWhitespace(t Type) bool {
	return t == Whitespace || t == Newline
}
