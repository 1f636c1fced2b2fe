// Package rules provides SQLFluff-style lint rule implementations for sqlmatch.
//
// Rules are organized by category following SQLFluff's naming conventions:
//   - references: Rules about table and column references (RF01)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/sqlmatch/pkg/lint/rules"
package rules
