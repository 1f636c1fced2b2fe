package references

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlmatch/pkg/analysis"
	"github.com/leapstack-labs/sqlmatch/pkg/lint"
	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

func init() {
	lint.Register(ReferencesFrom)
}

// ruleID and defaultSeverity are shared by the rule definition and the
// diagnostics it reports.
const (
	ruleID          = "RF01"
	defaultSeverity = lint.SeverityWarning
)

// Options accepted by RF01.
const (
	OptionForceEnable      = "force_enable"
	OptionDisabledDialects = "disabled_dialects"
)

// DefaultDisabledDialects are the dialects where a.b may be a struct field
// access rather than a table-qualified column, so RF01 is off unless
// force-enabled.
var DefaultDisabledDialects = []string{"bigquery", "databricks", "hive", "redshift", "soql", "sparksql"}

// ReferencesFrom reports qualified references whose qualifier is not a table
// or alias visible in the query or any enclosing query.
var ReferencesFrom = lint.RuleDef{
	ID:          ruleID,
	Name:        "references.from",
	Group:       "references",
	Description: "References cannot reference objects not present in FROM clause.",
	Severity:    defaultSeverity,
	Check:       checkReferencesFrom,
	ConfigKeys:  []string{OptionForceEnable, OptionDisabledDialects},

	Rationale:   "A qualifier that names no table in scope is either a typo or a leftover from a refactor, and the query fails at run time.",
	BadExample:  "SELECT vee.a FROM foo",
	GoodExample: "SELECT foo.a FROM foo",
}

func checkReferencesFrom(stmt *segment.Segment, d lint.DialectInfo, opts map[string]any) []lint.Diagnostic {
	if !enabledFor(d.GetName(), opts) {
		return nil
	}

	var diags []lint.Diagnostic
	for _, start := range analysis.Roots(stmt) {
		tree := analysis.BuildTree(start, d)
		var target analysis.Tuple
		if body := analysis.DMLBody(start); body != nil {
			target = analysis.FirstTableReference(body, d)
		}
		diags = append(diags, ResolveReferences(tree, target, d)...)
	}
	return diags
}

type fromOptions struct {
	ForceEnable      bool     `mapstructure:"force_enable"`
	DisabledDialects []string `mapstructure:"disabled_dialects"`
}

// enabledFor applies force_enable and disabled_dialects. Options that fail
// to decode keep their defaults.
func enabledFor(dialectName string, opts map[string]any) bool {
	o := fromOptions{DisabledDialects: DefaultDisabledDialects}
	if err := lint.DecodeOptions(opts, &o); err != nil {
		o = fromOptions{
			ForceEnable:      lint.GetOption(opts, OptionForceEnable, false),
			DisabledDialects: lint.GetOption(opts, OptionDisabledDialects, DefaultDisabledDialects),
		}
	}
	if o.ForceEnable {
		return true
	}
	return !slices.ContainsFunc(o.DisabledDialects, func(name string) bool {
		return strings.EqualFold(name, dialectName)
	})
}

// ResolveReferences checks every reference in tree against the names visible
// in its query, then in each enclosing query, then against dmlTarget (nil
// for reading statements). It returns one diagnostic per unresolved
// reference.
func ResolveReferences(tree *analysis.Tree, dmlTarget analysis.Tuple, d lint.DialectInfo) []lint.Diagnostic {
	r := &resolver{
		tree:    tree,
		target:  dmlTarget,
		nested:  d.NestedFieldAccess(),
		visible: make([][]analysis.Tuple, len(tree.Queries)),
	}
	r.walk(tree.Root())
	return r.diags
}

type resolver struct {
	tree   *analysis.Tree
	target analysis.Tuple
	nested bool
	// visible holds the names each query exposes, indexed by query ID.
	visible [][]analysis.Tuple
	diags   []lint.Diagnostic
}

func (r *resolver) walk(q *analysis.Query) {
	for _, sel := range q.Selectables {
		for _, a := range sel.Aliases {
			r.visible[q.ID] = append(r.visible[q.ID], a.Tuples()...)
		}
		for _, name := range sel.StandaloneAliases {
			r.visible[q.ID] = append(r.visible[q.ID], analysis.Tuple{name})
		}
		for _, ref := range sel.References {
			if inIntoClause(sel.Segment, ref.Segment) {
				continue
			}
			interps := tableInterpretations(ref, r.nested)
			if !r.resolve(q, interps) {
				r.report(ref, interps)
			}
		}
	}
	for _, id := range q.Children {
		r.walk(r.tree.Queries[id])
	}
}

func (r *resolver) resolve(q *analysis.Query, interps [][]analysis.Part) bool {
	possible := make([]analysis.Tuple, len(interps))
	for i, parts := range interps {
		possible[i] = analysis.PartsTuple(parts)
	}
	for cur, ok := q, true; ok; cur, ok = r.tree.Parent(cur) {
		if analysis.MatchesAny(possible, r.visible[cur.ID]) {
			return true
		}
	}
	return r.target != nil && analysis.MatchesAny(possible, []analysis.Tuple{r.target})
}

func (r *resolver) report(ref *analysis.ObjectReference, interps [][]analysis.Part) {
	// Anchor on the table part of the first reading, never its schema.
	first := interps[0]
	anchor := first[len(first)-1].Segment
	r.diags = append(r.diags, lint.Diagnostic{
		RuleID:   ruleID,
		Severity: defaultSeverity,
		Message: fmt.Sprintf("Reference '%s' refers to table/view not found in the FROM clause or found in ancestor statement.",
			ref.String()),
		Pos:    anchor.Pos(),
		EndPos: anchor.EndPos(),
	})
}

// nestedTableParts is how many leading parts may name a table when dotted
// names can also walk struct fields: table.col.field, dataset.table.col and
// project.dataset.table.col.field all fit in the first three.
const nestedTableParts = 3

// tableInterpretations lists the ways ref may name a table: the
// schema.table reading first, then single table names. A schema.table
// reading is specific, so single names are only tried without one, except
// in dialects with nested field access where the reading is ambiguous.
func tableInterpretations(ref *analysis.ObjectReference, nested bool) [][]analysis.Part {
	interps := ref.PossibleMultipartReferences(analysis.LevelSchema, analysis.LevelTable)
	if len(interps) > 0 && !nested {
		return interps
	}
	parts := ref.PossibleReferences(analysis.LevelTable)
	if nested && len(ref.Parts) > 1 {
		parts = ref.LeadingParts(nestedTableParts)
	}
	for _, p := range parts {
		interps = append(interps, []analysis.Part{p})
	}
	return interps
}

// inIntoClause reports whether ref is the write target of a SELECT INTO.
func inIntoClause(sel, ref *segment.Segment) bool {
	for _, s := range sel.PathTo(ref) {
		if s.IsType(token.IntoTableClause) {
			return true
		}
	}
	return false
}
