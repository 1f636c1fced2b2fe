package lint

import (
	"cmp"
	"slices"

	"github.com/leapstack-labs/sqlmatch/pkg/parser"
	"github.com/leapstack-labs/sqlmatch/pkg/segment"
)

// ParseErrorRuleID is the rule ID of diagnostics for unparsable input.
const ParseErrorRuleID = "PRS"

// Analyzer runs lint rules against parsed SQL.
type Analyzer struct {
	config  *Config
	dialect string // Filter rules by dialect (empty = the statement's dialect)
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// NewAnalyzerForDialect creates an analyzer that selects rules registered
// for dialectName regardless of the dialect passed to Analyze.
func NewAnalyzerForDialect(config *Config, dialectName string) *Analyzer {
	a := NewAnalyzer(config)
	a.dialect = dialectName
	return a
}

// Analyze runs all applicable rules against one statement.
func (a *Analyzer) Analyze(stmt *segment.Segment, dialect DialectInfo) []Diagnostic {
	if stmt == nil {
		return nil
	}

	dialectName := a.dialect
	if dialectName == "" && dialect != nil {
		dialectName = dialect.GetName()
	}

	var rules []Rule
	if dialectName != "" {
		rules = GetByDialect(dialectName)
	} else {
		rules = GetAll()
	}

	var diagnostics []Diagnostic
	for _, rule := range rules {
		if a.config.IsDisabled(rule.ID()) {
			continue
		}

		opts := a.config.GetRuleOptions(rule.ID())
		for _, d := range rule.Check(stmt, dialect, opts) {
			d.Severity = a.config.GetSeverity(rule.ID(), d.Severity)
			if !a.config.Reports(d.Severity) {
				continue
			}
			if d.DocumentationURL == "" {
				d.DocumentationURL = RuleDocURL(rule.Group(), rule.ID())
			}
			diagnostics = append(diagnostics, d)
		}
	}
	return diagnostics
}

// AnalyzeResult lints every statement of a parse result and reports each
// unparsable region as a PRS error. Diagnostics are ordered by position.
func (a *Analyzer) AnalyzeResult(res *parser.Result, dialect DialectInfo) []Diagnostic {
	var diagnostics []Diagnostic
	if !a.config.IsDisabled(ParseErrorRuleID) {
		for _, e := range res.Errors {
			diagnostics = append(diagnostics, Diagnostic{
				RuleID:   ParseErrorRuleID,
				Severity: SeverityError,
				Message:  e.Message,
				Pos:      e.Pos,
				EndPos:   e.End,
			})
		}
	}
	for _, stmt := range res.Statements() {
		diagnostics = append(diagnostics, a.Analyze(stmt, dialect)...)
	}
	slices.SortStableFunc(diagnostics, func(x, y Diagnostic) int {
		return cmp.Compare(x.Pos.Offset, y.Pos.Offset)
	})
	return diagnostics
}
