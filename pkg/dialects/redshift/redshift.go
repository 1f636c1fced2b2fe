// Package redshift provides the Amazon Redshift SQL dialect definition.
package redshift

import (
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/dialects/postgres"
)

func init() {
	dialect.Register(Redshift)
}

// Config is the Redshift dialect configuration.
var Config = &dialect.Config{
	Name: "redshift",
	Identifiers: dialect.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: dialect.NormLowercase,
	},
	SupportsQualify: true,
}

// Redshift is the Amazon Redshift dialect. It extends PostgreSQL.
var Redshift = dialect.New(Config).
	Extends(postgres.Postgres).
	Build()
