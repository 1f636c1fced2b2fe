// Package all registers every built-in dialect. Import it for side effects:
//
//	import _ "github.com/leapstack-labs/sqlmatch/pkg/dialects/all"
package all

import (
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/ansi"       // ANSI
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/bigquery"   // BigQuery
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/databricks" // Databricks
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/duckdb"     // DuckDB
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/hive"       // Hive
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/postgres"   // PostgreSQL
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/redshift"   // Redshift
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/snowflake"  // Snowflake
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/sparksql"   // Spark SQL
)
