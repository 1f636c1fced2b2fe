package all_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/all"
	"github.com/leapstack-labs/sqlmatch/pkg/parser"
	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

func mustParse(t *testing.T, dialectName, sql string) *segment.Segment {
	t.Helper()
	d, err := dialect.Resolve(dialectName)
	require.NoError(t, err)
	res := parser.Parse(sql, d)
	for _, e := range res.Errors {
		t.Errorf("%s: unexpected parse error: %v", dialectName, e)
	}
	require.Len(t, res.Statements(), 1)
	return res.Statements()[0]
}

func crawlRaws(s *segment.Segment, typ token.Type) []string {
	var out []string
	for _, seg := range s.RecursiveCrawl([]token.Type{typ}) {
		out = append(out, seg.Raw())
	}
	return out
}

func TestAllRegistered(t *testing.T) {
	assert.Equal(t, []string{
		"ansi", "bigquery", "databricks", "duckdb", "hive",
		"postgres", "redshift", "snowflake", "sparksql",
	}, dialect.List())
}

func TestParents(t *testing.T) {
	tests := map[string]string{
		"postgres":   "ansi",
		"duckdb":     "postgres",
		"redshift":   "postgres",
		"snowflake":  "ansi",
		"bigquery":   "ansi",
		"sparksql":   "ansi",
		"databricks": "sparksql",
		"hive":       "ansi",
	}
	for name, parent := range tests {
		d, err := dialect.Resolve(name)
		require.NoError(t, err)
		require.NotNil(t, d.Parent(), name)
		assert.Equal(t, parent, d.Parent().GetName(), name)
	}
}

func TestEveryDialectParsesCore(t *testing.T) {
	sql := "WITH c AS (SELECT a, b FROM s.t WHERE a > 1) SELECT c.a, sum(b) AS total FROM c JOIN u ON c.a = u.a GROUP BY c.a"
	for _, name := range dialect.List() {
		t.Run(name, func(t *testing.T) {
			stmt := mustParse(t, name, sql)
			assert.Equal(t, []string{"s.t", "c", "u"}, crawlRaws(stmt, token.TableReference))
		})
	}
}

func TestDialectFeatures(t *testing.T) {
	tests := []struct {
		dialect string
		sql     string
		typ     token.Type
		want    []string
	}{
		{"postgres", "SELECT DISTINCT ON (a) a, b FROM t", token.SelectClauseModifier, []string{"DISTINCT ON (a)"}},
		{"duckdb", "SELECT * EXCLUDE (a, b) FROM t", token.WildcardExpression, []string{"* EXCLUDE (a, b)"}},
		{"duckdb", "SELECT a FROM t ANTI JOIN u USING (a)", token.JoinClause, []string{"ANTI JOIN u USING (a)"}},
		{"duckdb", "SELECT a FROM t QUALIFY a = 1", token.QualifyClause, []string{"QUALIFY a = 1"}},
		{"bigquery", "SELECT * EXCEPT (a) REPLACE (b + 1 AS b) FROM `proj.ds.t`", token.WildcardExpression, []string{"* EXCEPT (a) REPLACE (b + 1 AS b)"}},
		{"bigquery", "SELECT \"text\" AS s FROM t # trailing", token.Literal, []string{`"text"`}},
		{"sparksql", "SELECT c FROM t LATERAL VIEW OUTER explode(t.arr) x AS c", token.LateralViewClause, []string{"LATERAL VIEW OUTER explode(t.arr) x AS c"}},
		{"sparksql", "SELECT a FROM t LEFT SEMI JOIN u ON t.a = u.a", token.JoinClause, []string{"LEFT SEMI JOIN u ON t.a = u.a"}},
		{"databricks", "SELECT `a` FROM t QUALIFY a = 1", token.QuotedIdentifier, []string{"`a`"}},
		{"hive", "SELECT c FROM t LATERAL VIEW explode(arr) x AS c", token.AliasExpression, []string{"x", "AS c"}},
	}
	for _, tt := range tests {
		t.Run(tt.dialect+"/"+tt.sql, func(t *testing.T) {
			stmt := mustParse(t, tt.dialect, tt.sql)
			assert.Equal(t, tt.want, crawlRaws(stmt, tt.typ))
		})
	}
}

func TestBigQueryBackquotedReference(t *testing.T) {
	stmt := mustParse(t, "bigquery", "SELECT a FROM `proj.ds.t`")

	refs := stmt.RecursiveCrawl([]token.Type{token.TableReference})
	require.Len(t, refs, 1)
	assert.Equal(t, "`proj.ds.t`", refs[0].Raw())
	assert.True(t, refs[0].HasDescendantType(token.QuotedIdentifier))
}

func TestResolveUnknown(t *testing.T) {
	_, err := dialect.Resolve("oracle")
	require.ErrorIs(t, err, dialect.ErrUnknownDialect)
	assert.Contains(t, err.Error(), "postgres")

	_, err = dialect.Resolve("")
	require.ErrorIs(t, err, dialect.ErrDialectRequired)
}
