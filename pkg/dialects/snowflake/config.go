// Package snowflake provides the Snowflake SQL dialect definition.
package snowflake

import "github.com/leapstack-labs/sqlmatch/pkg/dialect"

// Config is the Snowflake SQL dialect configuration.
// This is pure data. The Builder reads feature flags and auto-wires
// standard grammars.
var Config = &dialect.Config{
	Name: "snowflake",
	Identifiers: dialect.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: dialect.NormUppercase, // Snowflake normalizes to uppercase
	},

	// Framework Features (auto-wired by Builder)
	SupportsQualify: true,

	// Snowflake does NOT support these:
	// - LATERAL VIEW (it uses LATERAL FLATTEN)
	// - SEMI/ANTI joins
	ReservedWords: []string{
		"CONNECT", "ILIKE", "INCREMENT", "LATERAL", "MINUS", "REGEXP",
		"RLIKE", "SAMPLE", "START", "TABLESAMPLE", "TRY_CAST",
	},
}
