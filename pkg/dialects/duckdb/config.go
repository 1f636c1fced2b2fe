// Package duckdb provides the DuckDB SQL dialect definition.
package duckdb

import "github.com/leapstack-labs/sqlmatch/pkg/dialect"

// Config is the DuckDB dialect configuration.
// This is pure data. The Builder reads feature flags and auto-wires
// standard grammars.
var Config = &dialect.Config{
	Name: "duckdb",
	Identifiers: dialect.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: dialect.NormCaseInsensitive,
	},

	// Framework Features (auto-wired by Builder)
	SupportsQualify:       true,
	SupportsSemiAntiJoins: true,

	Keywords: []string{"EXCLUDE", "REPLACE"},
}
