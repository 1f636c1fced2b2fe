// Package hive provides the Apache Hive SQL dialect definition.
package hive

import (
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlmatch/pkg/dialects/sparksql"
)

func init() {
	dialect.Register(Hive)
}

// Config is the Hive dialect configuration.
var Config = &dialect.Config{
	Name: "hive",
	Identifiers: dialect.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: dialect.NormCaseInsensitive,
	},
	BackQuotes: true,

	SupportsLateralView:   true,
	SupportsSemiAntiJoins: true,
}

// Hive is the Hive dialect.
var Hive = dialect.New(Config).
	Extends(ansi.ANSI).
	Grammar("QuotedIdentifierSegment", sparksql.QuotedIdentifier).
	Build()
