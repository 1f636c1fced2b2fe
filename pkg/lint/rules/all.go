package rules

// Import all rule subpackages to register them with the global registry.
import (
	_ "github.com/leapstack-labs/sqlmatch/pkg/lint/rules/references"
)
