package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlmatch/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlmatch/pkg/lint"
	"github.com/leapstack-labs/sqlmatch/pkg/parser"
	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// badColumn flags every column named "bad".
var badColumn = lint.RuleDef{
	ID:          "TST01",
	Name:        "test.bad_column",
	Group:       "test",
	Description: "Flags columns named bad.",
	Severity:    lint.SeverityWarning,
	Check: func(stmt *segment.Segment, d lint.DialectInfo, _ map[string]any) []lint.Diagnostic {
		var diags []lint.Diagnostic
		for _, ref := range stmt.RecursiveCrawl([]token.Type{token.ColumnReference}) {
			if d.NormalizeName(ref.Raw()) == d.NormalizeName("bad") {
				diags = append(diags, lint.Diagnostic{
					RuleID:   "TST01",
					Severity: lint.SeverityWarning,
					Message:  "bad column",
					Pos:      ref.Pos(),
					EndPos:   ref.EndPos(),
				})
			}
		}
		return diags
	},
}

// postgresOnly never applies to ANSI input.
var postgresOnly = lint.RuleDef{
	ID:       "TST02",
	Name:     "test.postgres_only",
	Group:    "test",
	Severity: lint.SeverityError,
	Dialects: []string{"postgres"},
	Check: func(stmt *segment.Segment, _ lint.DialectInfo, _ map[string]any) []lint.Diagnostic {
		return []lint.Diagnostic{{RuleID: "TST02", Message: "always", Pos: stmt.Pos()}}
	},
}

func init() {
	lint.Register(badColumn)
	lint.Register(postgresOnly)
}

func testConfig() *lint.Config {
	// Only the rules defined here run.
	c := lint.NewConfig()
	for _, r := range lint.GetAll() {
		if r.Group() != "test" {
			c.Disable(r.ID())
		}
	}
	return c
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		wantLines []int
	}{
		{name: "clean", sql: "SELECT a FROM t", wantLines: nil},
		{name: "one", sql: "SELECT bad FROM t", wantLines: []int{1}},
		{name: "case folded", sql: "SELECT a,\n  BAD\nFROM t WHERE Bad > 1", wantLines: []int{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parser.Parse(tt.sql, ansi.ANSI)
			require.False(t, res.HasErrors())

			diags := lint.NewAnalyzer(testConfig()).Analyze(res.Statements()[0], ansi.ANSI)

			var lines []int
			for _, d := range diags {
				assert.Equal(t, "TST01", d.RuleID)
				assert.Equal(t, lint.BuildDocURL("TST01"), d.DocumentationURL)
				lines = append(lines, d.Pos.Line)
			}
			assert.Equal(t, tt.wantLines, lines)
		})
	}
}

func TestAnalyzeConfig(t *testing.T) {
	stmt := parser.Parse("SELECT bad FROM t", ansi.ANSI).Statements()[0]

	t.Run("disabled", func(t *testing.T) {
		diags := lint.NewAnalyzer(testConfig().Disable("TST01")).Analyze(stmt, ansi.ANSI)
		assert.Empty(t, diags)
	})
	t.Run("severity override", func(t *testing.T) {
		diags := lint.NewAnalyzer(testConfig().SetSeverity("TST01", lint.SeverityHint)).Analyze(stmt, ansi.ANSI)
		require.Len(t, diags, 1)
		assert.Equal(t, lint.SeverityHint, diags[0].Severity)
	})
	t.Run("min severity", func(t *testing.T) {
		c := testConfig()
		c.MinSeverity = lint.SeverityError
		assert.Empty(t, lint.NewAnalyzer(c).Analyze(stmt, ansi.ANSI))
	})
	t.Run("dialect override", func(t *testing.T) {
		diags := lint.NewAnalyzerForDialect(testConfig(), "postgres").Analyze(stmt, ansi.ANSI)
		var ids []string
		for _, d := range diags {
			ids = append(ids, d.RuleID)
		}
		assert.ElementsMatch(t, []string{"TST01", "TST02"}, ids)
	})
	t.Run("nil statement", func(t *testing.T) {
		assert.Nil(t, lint.NewAnalyzer(nil).Analyze(nil, ansi.ANSI))
	})
}

func TestAnalyzeResult(t *testing.T) {
	res := parser.Parse("SELECT bad FROM t;\nSELEC x;\nSELECT bad FROM u", ansi.ANSI)

	diags := lint.NewAnalyzer(testConfig()).AnalyzeResult(res, ansi.ANSI)

	var got []string
	for _, d := range diags {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{
		"1:8: [TST01] bad column",
		`2:1: [PRS] unable to parse statement starting with "SELEC"`,
		"3:8: [TST01] bad column",
	}, got)
	assert.Equal(t, lint.SeverityError, diags[1].Severity)

	diags = lint.NewAnalyzer(testConfig().Disable(lint.ParseErrorRuleID)).AnalyzeResult(res, ansi.ANSI)
	assert.Len(t, diags, 2)
}
