// Package ansi provides the base ANSI SQL dialect: the keyword tables and the
// grammar library every other dialect extends.
//
// The grammar is deliberately compact. It covers the statement shapes whose
// structure matters for reference analysis (SELECT with joins, subqueries,
// CTEs and set operations, INSERT, UPDATE, DELETE and MERGE) and parses
// expressions as a flat operand/operator chain without precedence.
package ansi

import (
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
)

func init() {
	dialect.Register(ANSI)
}

// Config is the ANSI dialect configuration.
var Config = &dialect.Config{
	Name: "ansi",
	Identifiers: dialect.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: dialect.NormUppercase,
	},
	Keywords:      unreservedKeywords,
	ReservedWords: reservedKeywords,
}

// ANSI is the base ANSI SQL dialect.
var ANSI = dialect.New(Config).
	Grammars(grammars()).
	Build()

// reservedKeywords can never be used as unquoted identifiers. Clause and
// operator keywords must be reserved so that an implicit alias never
// swallows the keyword that follows it.
var reservedKeywords = []string{
	"ALL", "AND", "AS", "ASC", "BETWEEN", "BY", "CASE", "CAST", "CROSS",
	"DEFAULT", "DELETE", "DESC", "DISTINCT", "ELSE", "END", "EXCEPT",
	"EXISTS", "FALSE", "FROM", "FULL", "GROUP", "HAVING", "ILIKE", "IN",
	"INNER", "INSERT", "INTERSECT", "INTO", "IS", "JOIN", "LEFT", "LIKE",
	"LIMIT", "MERGE", "NATURAL", "NOT", "NULL", "OFFSET", "ON", "OR",
	"ORDER", "OUTER", "OVER", "RIGHT", "SELECT", "SET", "THEN", "TRUE",
	"UNION", "UPDATE", "USING", "VALUES", "WHEN", "WHERE", "WITH",
}

// unreservedKeywords are matched as keywords where the grammar asks for them
// and are plain identifiers everywhere else.
var unreservedKeywords = []string{
	"FIRST", "LAST", "MATCHED", "NULLS", "PARTITION", "RECURSIVE", "VALUE",
}
