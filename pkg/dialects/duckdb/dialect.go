package duckdb

import (
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/dialects/postgres"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect. It extends PostgreSQL.
// Builder reads Config flags and auto-wires standard features:
// - QUALIFY clause (SupportsQualify)
// - SEMI/ANTI joins (SupportsSemiAntiJoins)
var DuckDB = dialect.New(Config).
	Extends(postgres.Postgres).
	Grammar(dialect.StarModifierGrammar, starModifiers).
	Build()
