// Package analysis builds the query-scope tree of a parsed statement.
//
// Every SELECT, set expression, WITH statement and UPDATE/DELETE/MERGE
// becomes a Query. Queries live in a Tree arena and refer to each other by
// index: a query knows its parent for outward name lookup and its children
// for traversal.
//
//	res := parser.Parse(sql, d)
//	for _, stmt := range res.Statements() {
//	    for _, root := range analysis.Roots(stmt) {
//	        tree := analysis.BuildTree(root, d)
//	        // ...
//	    }
//	}
package analysis

import (
	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// Dialect is the identifier behaviour the analysis needs.
// Implemented by dialect.Dialect.
type Dialect interface {
	NormalizeIdentifier(raw string, quoted bool) string
	NestedFieldAccess() bool
}

// StartTypes are the segment types that open a query.
var StartTypes = []token.Type{
	token.SelectStatement,
	token.SetExpression,
	token.WithCompoundStatement,
	token.UpdateStatement,
	token.DeleteStatement,
	token.MergeStatement,
}

// dmlTypes are the statement types whose target table is implicitly visible.
var dmlTypes = []token.Type{token.UpdateStatement, token.DeleteStatement, token.MergeStatement}

// NoParent is the Parent of a root query.
const NoParent = -1

// AliasInfo is a name a selectable makes visible to references.
type AliasInfo struct {
	// RefStr is the normalized effective name: the alias when present,
	// otherwise the last part of the table name.
	RefStr string
	// Aliased is true when the name was given explicitly.
	Aliased bool
	// ObjectRef is the underlying table reference; nil for subqueries and
	// table functions.
	ObjectRef *ObjectReference
	// Segment is the from_expression_element (or DML target) that binds the
	// name.
	Segment *segment.Segment
}

// Tuples returns the names a reference may use to reach this alias.
func (a AliasInfo) Tuples() []Tuple {
	var out []Tuple
	if a.Aliased {
		out = append(out, Tuple{a.RefStr})
	}
	if a.ObjectRef != nil {
		out = append(out, a.ObjectRef.Tuple())
	}
	return out
}

// Selectable is one unit of a query: a SELECT, one branch of a set
// expression, or a DML statement.
type Selectable struct {
	Segment           *segment.Segment
	Aliases           []AliasInfo
	StandaloneAliases []string
	References        []*ObjectReference
}

// Query is a scope in the tree.
type Query struct {
	ID          int
	Segment     *segment.Segment
	Selectables []*Selectable
	// Parent is the index of the enclosing query or NoParent.
	Parent   int
	Children []int
}

// Aliases returns the aliases of every selectable in order.
func (q *Query) Aliases() []AliasInfo {
	var out []AliasInfo
	for _, s := range q.Selectables {
		out = append(out, s.Aliases...)
	}
	return out
}

// StandaloneAliases returns the standalone aliases of every selectable.
func (q *Query) StandaloneAliases() []string {
	var out []string
	for _, s := range q.Selectables {
		out = append(out, s.StandaloneAliases...)
	}
	return out
}

// Tree is an arena of queries. Queries[0] is the root.
type Tree struct {
	Queries []*Query
}

// Root returns the outermost query.
func (t *Tree) Root() *Query {
	return t.Queries[0]
}

// Parent returns the enclosing query of q.
func (t *Tree) Parent(q *Query) (*Query, bool) {
	if q.Parent == NoParent {
		return nil, false
	}
	return t.Queries[q.Parent], true
}

// Roots returns the outermost query segments under stmt.
func Roots(stmt *segment.Segment) []*segment.Segment {
	return stmt.Seek(StartTypes...)
}

// IsSelect reports whether the query opened by seg reads rather than writes.
func IsSelect(seg *segment.Segment) bool {
	if seg.IsType(token.WithCompoundStatement) {
		body := withBody(seg)
		return body == nil || !body.IsType(dmlTypes...)
	}
	return !seg.IsType(dmlTypes...)
}

// DMLBody returns the UPDATE, DELETE or MERGE segment seg writes through, or
// nil for reading queries.
func DMLBody(seg *segment.Segment) *segment.Segment {
	if seg.IsType(token.WithCompoundStatement) {
		seg = withBody(seg)
	}
	if seg != nil && seg.IsType(dmlTypes...) {
		return seg
	}
	return nil
}

// FirstTableReference returns the tuple of the first table reference under
// seg, or nil when there is none.
func FirstTableReference(seg *segment.Segment, d Dialect) Tuple {
	refs := seg.RecursiveCrawl([]token.Type{token.TableReference})
	if len(refs) == 0 {
		return nil
	}
	return NewObjectReference(refs[0], d).Tuple()
}

// BuildTree builds the query tree rooted at start, which must be one of
// StartTypes.
func BuildTree(start *segment.Segment, d Dialect) *Tree {
	b := &builder{d: d, tree: &Tree{}}
	b.add(start, NoParent)
	return b.tree
}

type builder struct {
	d    Dialect
	tree *Tree
}

// nestedNoRecurse stops reference and alias crawls at nested queries.
var nestedNoRecurse = StartTypes

func (b *builder) add(seg *segment.Segment, parent int) int {
	id := len(b.tree.Queries)
	q := &Query{ID: id, Segment: seg, Parent: parent}
	b.tree.Queries = append(b.tree.Queries, q)

	var nested []*segment.Segment
	body := seg
	if seg.IsType(token.WithCompoundStatement) {
		for _, cte := range seg.ChildrenOfType(token.CommonTableExpression) {
			nested = append(nested, cte.Seek(StartTypes...)...)
		}
		body = withBody(seg)
	}

	var sels []*segment.Segment
	switch {
	case body == nil:
	case body.IsType(StartTypes...):
		var more []*segment.Segment
		sels, more = branches(body)
		nested = append(nested, more...)
	default:
		// INSERT under WITH: only its inner queries are scopes.
		nested = append(nested, innerQueries(body)...)
	}

	for _, s := range sels {
		q.Selectables = append(q.Selectables, b.selectable(s))
		nested = append(nested, innerQueries(s)...)
	}
	for _, n := range nested {
		q.Children = append(q.Children, b.add(n, id))
	}
	return id
}

// withBody returns the statement a WITH compound statement introduces its
// CTEs into.
func withBody(seg *segment.Segment) *segment.Segment {
	for _, c := range seg.Children() {
		if c.IsType(token.CommonTableExpression) || !c.IsCode() || c.IsRaw() {
			continue
		}
		return c
	}
	return nil
}

// branches returns the selectables of seg and the queries nested in set
// expression branches that open their own scope.
func branches(seg *segment.Segment) (sels, nested []*segment.Segment) {
	if !seg.IsType(token.SetExpression) {
		return []*segment.Segment{seg}, nil
	}
	for _, c := range seg.Children() {
		for _, s := range c.Seek(token.SelectStatement, token.SetExpression, token.WithCompoundStatement) {
			switch s.Type() {
			case token.SelectStatement:
				sels = append(sels, s)
			case token.SetExpression:
				ss, nn := branches(s)
				sels = append(sels, ss...)
				nested = append(nested, nn...)
			default:
				nested = append(nested, s)
			}
		}
	}
	return sels, nested
}

// innerQueries returns the outermost query segments strictly below seg.
func innerQueries(seg *segment.Segment) []*segment.Segment {
	var out []*segment.Segment
	for _, c := range seg.Children() {
		out = append(out, c.Seek(StartTypes...)...)
	}
	return out
}

func (b *builder) selectable(seg *segment.Segment) *Selectable {
	s := &Selectable{Segment: seg}
	switch seg.Type() {
	case token.UpdateStatement:
		b.targetAlias(s, seg)
		if from := seg.Child(token.FromClause); from != nil {
			b.fromAliases(s, from)
			b.collect(s, joinConditions(from)...)
		}
		b.collect(s, seg.ChildrenOfType(token.SetClauseList, token.WhereClause)...)
	case token.DeleteStatement:
		b.targetAlias(s, seg)
		if using := seg.Child(token.UsingClause); using != nil {
			b.fromAliases(s, using)
			b.collect(s, joinConditions(using)...)
		}
		b.collect(s, seg.ChildrenOfType(token.WhereClause)...)
	case token.MergeStatement:
		b.targetAlias(s, seg)
		if src := seg.Child(token.FromExpressionElement); src != nil {
			s.Aliases = append(s.Aliases, b.aliasInfo(src))
		}
		b.collect(s, seg.ChildrenOfType(token.JoinOnCondition, token.MergeMatch)...)
	default:
		if from := seg.Child(token.FromClause); from != nil {
			b.fromAliases(s, from)
			b.lateralAliases(s, from)
			b.collect(s, joinConditions(from)...)
		}
		b.collect(s, seg.ChildrenOfType(
			token.SelectClause,
			token.WhereClause,
			token.GroupByClause,
			token.HavingClause,
			token.OrderByClause,
			token.QualifyClause,
		)...)
	}
	return s
}

// collect appends the object references under each clause, in document
// order.
func (b *builder) collect(s *Selectable, clauses ...*segment.Segment) {
	for _, c := range clauses {
		for _, r := range c.RecursiveCrawl([]token.Type{token.ObjectReference}, nestedNoRecurse...) {
			s.References = append(s.References, NewObjectReference(r, b.d))
		}
	}
}

func joinConditions(from *segment.Segment) []*segment.Segment {
	return from.RecursiveCrawl([]token.Type{token.JoinOnCondition}, nestedNoRecurse...)
}

func (b *builder) fromAliases(s *Selectable, from *segment.Segment) {
	for _, e := range from.RecursiveCrawl([]token.Type{token.FromExpressionElement}, nestedNoRecurse...) {
		s.Aliases = append(s.Aliases, b.aliasInfo(e))
	}
}

func (b *builder) lateralAliases(s *Selectable, from *segment.Segment) {
	for _, lv := range from.RecursiveCrawl([]token.Type{token.LateralViewClause}, nestedNoRecurse...) {
		for _, ae := range lv.ChildrenOfType(token.AliasExpression) {
			for _, leaf := range ae.RawSegments() {
				if name, ok := b.identifier(leaf); ok {
					s.StandaloneAliases = append(s.StandaloneAliases, name)
				}
			}
		}
	}
}

// targetAlias records an explicit alias of a DML target table.
func (b *builder) targetAlias(s *Selectable, stmt *segment.Segment) {
	ae := stmt.Child(token.AliasExpression)
	if ae == nil {
		return
	}
	name, ok := b.aliasName(ae)
	if !ok {
		return
	}
	info := AliasInfo{RefStr: name, Aliased: true, Segment: stmt}
	if tr := stmt.Child(token.TableReference); tr != nil {
		info.ObjectRef = NewObjectReference(tr, b.d)
	}
	s.Aliases = append(s.Aliases, info)
}

func (b *builder) aliasInfo(elem *segment.Segment) AliasInfo {
	info := AliasInfo{Segment: elem}
	if te := elem.Child(token.TableExpression); te != nil {
		if tr := te.Child(token.TableReference); tr != nil {
			info.ObjectRef = NewObjectReference(tr, b.d)
		}
	}
	if ae := elem.Child(token.AliasExpression); ae != nil {
		if name, ok := b.aliasName(ae); ok {
			info.RefStr = name
			info.Aliased = true
			return info
		}
	}
	if info.ObjectRef != nil && len(info.ObjectRef.Parts) > 0 {
		info.RefStr = info.ObjectRef.Parts[len(info.ObjectRef.Parts)-1].Name
	}
	return info
}

// aliasName returns the last identifier of an alias expression.
func (b *builder) aliasName(ae *segment.Segment) (string, bool) {
	var name string
	var found bool
	for _, leaf := range ae.RawSegments() {
		if n, ok := b.identifier(leaf); ok {
			name, found = n, true
		}
	}
	return name, found
}

func (b *builder) identifier(leaf *segment.Segment) (string, bool) {
	switch {
	case leaf.IsType(token.QuotedIdentifier):
		return b.d.NormalizeIdentifier(leaf.Raw(), true), true
	case leaf.IsType(token.NakedIdentifier):
		return b.d.NormalizeIdentifier(leaf.Raw(), false), true
	}
	return "", false
}
