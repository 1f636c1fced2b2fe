// Package databricks provides the Databricks SQL dialect definition.
package databricks

import "github.com/leapstack-labs/sqlmatch/pkg/dialect"

// Config is the Databricks SQL dialect configuration.
// This is pure data. The Builder reads feature flags and auto-wires
// standard grammars.
var Config = &dialect.Config{
	Name: "databricks",
	Identifiers: dialect.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: dialect.NormCaseInsensitive,
	},
	BackQuotes: true,

	// Framework Features (auto-wired by Builder)
	SupportsQualify:       true,
	SupportsLateralView:   true,
	SupportsSemiAntiJoins: true,
	// Databricks does NOT support these:
	// - RETURNING clause
}
