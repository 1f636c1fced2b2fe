// Package lint provides the rule framework for SQL statement linting.
//
// # Rule Registration
//
// Rules are automatically registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/sqlmatch/pkg/lint/rules"
//
// # Rule Categories
//
//   - RF (References): Rules about column and table references
//
// Unparsable input is reported under the pseudo rule PRS.
//
// # Using the Registry
//
//	rules := lint.GetAll()
//	rule, ok := lint.GetByID("RF01")
//	pgRules := lint.GetByDialect("postgres")
//
// # Configuration
//
// Use Config to control which rules are enabled, their severity and options:
//
//	config := lint.NewConfig()
//	config.Disable("RF01")
//	config.SetSeverity("RF01", lint.SeverityError)
//	config.SetRuleOptions("RF01", map[string]any{"force_enable": true})
//
// # Creating Custom Rules
//
// Define a RuleDef whose Check walks the statement segment tree:
//
//	var MyRule = lint.RuleDef{
//		ID:          "MY01",
//		Name:        "my.custom_rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    lint.SeverityWarning,
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
package lint
