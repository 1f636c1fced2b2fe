package duckdb

import "github.com/leapstack-labs/sqlmatch/pkg/dialect"

// starModifiers handles the wildcard modifiers:
//
//	SELECT * EXCLUDE (col1, col2) FROM t
//	SELECT * REPLACE (lower(name) AS name) FROM t
var starModifiers = dialect.StarModifiers("EXCLUDE")
