package references_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlmatch/internal/testutil"
	"github.com/leapstack-labs/sqlmatch/pkg/analysis"
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/all"
	"github.com/leapstack-labs/sqlmatch/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlmatch/pkg/lint"
	"github.com/leapstack-labs/sqlmatch/pkg/lint/rules/references"
	"github.com/leapstack-labs/sqlmatch/pkg/parser"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// runRule parses sql with the named dialect and returns the RF01 diagnostics.
func runRule(t *testing.T, sql, dialectName string, opts map[string]any) []lint.Diagnostic {
	t.Helper()
	d, err := dialect.Resolve(dialectName)
	require.NoError(t, err)

	res := parser.Parse(sql, d, parser.WithLogger(testutil.NewTestLogger(t)))
	require.False(t, res.HasErrors(), "parse errors: %v", res.Errors)

	config := lint.NewConfig()
	if opts != nil {
		config.SetRuleOptions("RF01", opts)
	}
	var filtered []lint.Diagnostic
	for _, diag := range lint.NewAnalyzer(config).AnalyzeResult(res, d) {
		if diag.RuleID == "RF01" {
			filtered = append(filtered, diag)
		}
	}
	return filtered
}

// flagged returns the raw text each diagnostic is anchored at.
func flagged(sql string, diags []lint.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, sql[d.Pos.Offset:d.EndPos.Offset])
	}
	return out
}

func TestRF01_ReferencesFrom(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{name: "unknown qualifier", sql: "SELECT vee.a FROM foo", want: []string{"vee"}},
		{name: "table name", sql: "SELECT foo.a FROM foo"},
		{name: "alias", sql: "SELECT f.a FROM foo AS f"},
		{name: "table name behind alias", sql: "SELECT foo.a FROM foo AS f"},
		{name: "implicit alias", sql: "SELECT f.a FROM foo f WHERE f.b = 1"},
		{name: "unqualified", sql: "SELECT a, b FROM foo"},
		{name: "case folded", sql: "SELECT FOO.a FROM foo"},
		{name: "two violations", sql: "SELECT x.a, y.b FROM foo", want: []string{"x", "y"}},
		{name: "join condition", sql: "SELECT a.x FROM a JOIN b ON a.id = c.id", want: []string{"c"}},
		{name: "join", sql: "SELECT a.x, b.y FROM a LEFT JOIN b ON a.id = b.id"},
		{name: "where group having order", sql: "SELECT 1 FROM t WHERE q.a = 1 GROUP BY r.b HAVING count(s.c) > 1 ORDER BY t.d", want: []string{"q", "r", "s"}},
		{name: "wildcard", sql: "SELECT vee.* FROM foo", want: []string{"vee"}},
		{name: "wildcard ok", sql: "SELECT foo.*, * FROM foo"},

		// Schema-qualified names.
		{name: "schema qualified reference", sql: "SELECT s.foo.a FROM s.foo"},
		{name: "bare name of qualified table", sql: "SELECT foo.a FROM s.foo"},
		{name: "schema is not a table", sql: "SELECT s.a FROM s.foo", want: []string{"s"}},
		{name: "wrong schema", sql: "SELECT x.foo.a FROM s.foo", want: []string{"foo"}},
		{name: "struct path is not a table", sql: "SELECT foo.col.field FROM foo", want: []string{"col"}},
		{name: "schema qualified reference to bare table", sql: "SELECT s.foo.a FROM foo"},
		{name: "catalog qualified reference", sql: "SELECT c.s.foo.a FROM c.s.foo"},
		{name: "catalog qualified reference to schema table", sql: "SELECT c.s.foo.a FROM s.foo"},

		// Quoting.
		{name: "quoted match", sql: `SELECT "Foo".a FROM "Foo"`},
		{name: "quoted keeps case", sql: `SELECT foo.a FROM "Foo"`, want: []string{"foo"}},

		// Nested scopes.
		{name: "inner scope", sql: "SELECT (SELECT inner_tbl.x FROM inner_tbl) AS y FROM outer_tbl"},
		{name: "missing in inner scope", sql: "SELECT (SELECT missing.x FROM inner_tbl) FROM outer_tbl", want: []string{"missing"}},
		{name: "correlated", sql: "SELECT a FROM outer_tbl o WHERE EXISTS (SELECT 1 FROM inner_tbl i WHERE i.x = o.x)"},
		{name: "inner alias not visible outside", sql: "SELECT i.x FROM outer_tbl WHERE a IN (SELECT b FROM inner_tbl i)", want: []string{"i"}},
		{name: "derived table", sql: "SELECT s.a FROM (SELECT t.a FROM t) AS s"},
		{name: "derived table hides inner name", sql: "SELECT t.a FROM (SELECT t.a FROM t) AS s", want: []string{"t"}},
		{name: "cte", sql: "WITH c AS (SELECT t.x FROM t) SELECT c.x FROM c"},
		{name: "cte body", sql: "WITH c AS (SELECT u.x FROM t) SELECT c.x FROM c", want: []string{"u"}},

		// Set expressions accumulate branch aliases in order.
		{name: "union", sql: "SELECT a.x FROM a UNION SELECT b.y FROM b"},
		{name: "union later branch", sql: "SELECT b.x FROM a UNION SELECT b.y FROM b", want: []string{"b"}},
		{name: "union earlier branch", sql: "SELECT a.x FROM a UNION SELECT a.y FROM b"},

		// Write targets.
		{name: "select into", sql: "SELECT t1.a INTO s.t2 FROM t1"},

		// DML.
		{name: "update target", sql: "UPDATE t SET x = t.y"},
		{name: "update other table", sql: "UPDATE t SET x = u.y", want: []string{"u"}},
		{name: "update from", sql: "UPDATE t SET x = u.y FROM u WHERE t.id = u.id"},
		{name: "update alias", sql: "UPDATE t AS a SET x = a.y WHERE a.id = 1"},
		{name: "delete subquery reaches target", sql: "DELETE FROM t WHERE id IN (SELECT t.id FROM u)"},
		{name: "delete subquery unknown", sql: "DELETE FROM t WHERE t.id IN (SELECT v.id FROM u)", want: []string{"v"}},
		{name: "delete using", sql: "DELETE FROM t USING u WHERE t.id = u.id AND w.x = 1", want: []string{"w"}},
		{name: "merge", sql: "MERGE INTO t USING s ON t.id = s.id WHEN MATCHED THEN UPDATE SET a = s.a"},
		{name: "merge unknown", sql: "MERGE INTO t USING s ON t.id = s.id WHEN NOT MATCHED THEN INSERT (id) VALUES (x.id)", want: []string{"x"}},
		{name: "insert select", sql: "INSERT INTO t SELECT u.a FROM u"},
		{name: "insert select unknown", sql: "INSERT INTO t SELECT t.a FROM u", want: []string{"t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, "ansi", nil)
			assert.Equal(t, tt.want, flagged(tt.sql, diags))
		})
	}
}

func TestRF01_Diagnostic(t *testing.T) {
	diags := runRule(t, "SELECT vee.a FROM foo", "ansi", nil)

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "RF01", d.RuleID)
	assert.Equal(t, references.ReferencesFrom.ID, d.RuleID)
	assert.Equal(t, lint.SeverityWarning, d.Severity)
	assert.Equal(t, references.ReferencesFrom.Severity, d.Severity)
	assert.Equal(t, "Reference 'vee.a' refers to table/view not found in the FROM clause or found in ancestor statement.", d.Message)
	assert.Equal(t, token.Position{Line: 1, Column: 8, Offset: 7}, d.Pos)
	assert.Equal(t, lint.BuildDocURL("RF01"), d.DocumentationURL)
}

func TestRF01_MultipleStatements(t *testing.T) {
	sql := "SELECT vee.a FROM foo;\nUPDATE t SET x = u.y;\nSELECT foo.a FROM foo"
	diags := runRule(t, sql, "ansi", nil)

	assert.Equal(t, []string{"vee", "u"}, flagged(sql, diags))
	assert.Equal(t, 2, diags[1].Pos.Line)
}

func TestRF01_DialectPolicy(t *testing.T) {
	const sql = "SELECT vee.a FROM foo"
	tests := []struct {
		name    string
		dialect string
		opts    map[string]any
		want    int
	}{
		{name: "ansi default", dialect: "ansi", want: 1},
		{name: "postgres default", dialect: "postgres", want: 1},
		{name: "bigquery disabled by default", dialect: "bigquery", want: 0},
		{name: "sparksql disabled by default", dialect: "sparksql", want: 0},
		{name: "databricks disabled by default", dialect: "databricks", want: 0},
		{name: "hive disabled by default", dialect: "hive", want: 0},
		{name: "redshift disabled by default", dialect: "redshift", want: 0},
		{name: "force enable", dialect: "bigquery", opts: map[string]any{"force_enable": true}, want: 1},
		{name: "force enable from env string", dialect: "hive", opts: map[string]any{"force_enable": "true"}, want: 1},
		{name: "custom list disables ansi", dialect: "ansi", opts: map[string]any{"disabled_dialects": []any{"ANSI"}}, want: 0},
		{name: "custom list replaces defaults", dialect: "bigquery", opts: map[string]any{"disabled_dialects": []any{"ansi"}}, want: 1},
		{name: "comma separated list from env", dialect: "postgres", opts: map[string]any{"disabled_dialects": "ansi,postgres"}, want: 0},
		{name: "invalid force enable keeps defaults", dialect: "bigquery", opts: map[string]any{"force_enable": "maybe"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, runRule(t, sql, tt.dialect, tt.opts), tt.want)
		})
	}
}

func TestRF01_NestedFieldAccess(t *testing.T) {
	force := map[string]any{"force_enable": true}

	// A struct path resolves through its leading table name.
	assert.Empty(t, runRule(t, "SELECT foo.col.field FROM foo", "bigquery", force))
	assert.Empty(t, runRule(t, "SELECT f.col.field FROM foo AS f", "bigquery", force))
	assert.Len(t, runRule(t, "SELECT bar.col.field FROM foo", "bigquery", force), 1)

	// Up to three leading parts are candidates, and unqualified columns
	// never need a table.
	assert.Empty(t, runRule(t, "SELECT ds.foo.col.field FROM ds.foo", "bigquery", force))
	assert.Empty(t, runRule(t, "SELECT a FROM foo", "bigquery", force))
	sql := "SELECT bar.col.field FROM foo"
	assert.Equal(t, []string{"col"}, flagged(sql, runRule(t, sql, "bigquery", force)))

	// Without nested field access only the schema.table reading is tried.
	assert.Len(t, runRule(t, "SELECT foo.col.field FROM foo", "postgres", nil), 1)
}

func TestRF01_LateralView(t *testing.T) {
	force := map[string]any{"force_enable": true}

	assert.Empty(t, runRule(t, "SELECT e.c FROM t LATERAL VIEW explode(t.arr) e AS c", "sparksql", force))
	assert.Len(t, runRule(t, "SELECT z.c FROM t LATERAL VIEW explode(t.arr) e AS c", "sparksql", force), 1)
}

func TestResolveReferencesTargetFallback(t *testing.T) {
	res := parser.Parse("UPDATE t SET x = t.y", ansi.ANSI)
	require.False(t, res.HasErrors())
	start := analysis.Roots(res.Statements()[0])[0]
	tree := analysis.BuildTree(start, ansi.ANSI)

	assert.Len(t, references.ResolveReferences(tree, nil, ansi.ANSI), 1)
	assert.Empty(t, references.ResolveReferences(tree, analysis.Tuple{"T"}, ansi.ANSI))
	assert.Empty(t, references.ResolveReferences(tree, analysis.Tuple{"S", "T"}, ansi.ANSI))
	assert.Len(t, references.ResolveReferences(tree, analysis.Tuple{"U"}, ansi.ANSI), 1)
}

func TestRF01_Registered(t *testing.T) {
	rule, ok := lint.GetByID("RF01")
	require.True(t, ok)
	assert.Equal(t, "references.from", rule.Name())
	assert.Equal(t, []string{"force_enable", "disabled_dialects"}, rule.ConfigKeys())
	assert.Empty(t, rule.Dialects())
}
