// Package postgres provides the PostgreSQL SQL dialect definition.
package postgres

import "github.com/leapstack-labs/sqlmatch/pkg/dialect"

// Config is the PostgreSQL dialect configuration.
// This is pure data. The Builder reads feature flags and auto-wires
// standard grammars.
var Config = &dialect.Config{
	Name: "postgres",
	Identifiers: dialect.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: dialect.NormLowercase, // Postgres normalizes unquoted to lowercase
	},
	// PostgreSQL does NOT support these:
	// - QUALIFY (window filtering clause)
	// - LATERAL VIEW
	// - SEMI/ANTI joins
	ReservedWords: postgresReservedWords,
}

// postgresReservedWords are the PostgreSQL reserved words not already
// reserved in ANSI.
var postgresReservedWords = []string{
	"ANALYSE", "ANALYZE", "ANY", "ARRAY", "ASYMMETRIC", "BOTH", "CHECK",
	"COLLATE", "COLUMN", "CONSTRAINT", "CREATE", "CURRENT_CATALOG",
	"CURRENT_DATE", "CURRENT_ROLE", "CURRENT_TIME", "CURRENT_TIMESTAMP",
	"CURRENT_USER", "DEFERRABLE", "DO", "FETCH", "FOR", "FOREIGN", "GRANT",
	"INITIALLY", "LATERAL", "LEADING", "LOCALTIME", "LOCALTIMESTAMP",
	"ONLY", "PLACING", "PRIMARY", "REFERENCES", "RETURNING", "SESSION_USER",
	"SOME", "SYMMETRIC", "TABLE", "TO", "TRAILING", "UNIQUE", "USER",
	"VARIADIC", "WINDOW",
}
