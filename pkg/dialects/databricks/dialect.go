package databricks

import (
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/dialects/sparksql"
)

func init() {
	dialect.Register(Databricks)
}

// Databricks is the Databricks SQL dialect. It extends Spark SQL.
// Builder reads Config flags and auto-wires standard features:
// - QUALIFY clause (SupportsQualify)
// - LATERAL VIEW clause (SupportsLateralView)
// - SEMI/ANTI joins (SupportsSemiAntiJoins)
var Databricks = dialect.New(Config).
	Extends(sparksql.SparkSQL).
	Build()
