// Package parser turns SQL text into a segment tree using a dialect's grammar
// library.
//
// # Usage
//
//	d, err := dialect.Resolve("postgres")
//	if err != nil {
//	    // handle error
//	}
//	res := parser.Parse("SELECT a FROM t; SELECT b FROM u", d)
//	for _, stmt := range res.Statements() {
//	    // ...
//	}
//
// Parsing never fails. Input is split into statements at top-level
// semicolons and every statement is matched against the dialect's
// StatementSegment grammar. Any part a statement grammar cannot consume is
// wrapped in an unparsable segment and reported in Result.Errors, so the raw
// text of Result.File always equals the input.
package parser

import (
	"log/slog"

	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/grammar"
	"github.com/leapstack-labs/sqlmatch/pkg/lexer"
	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// StatementGrammar is the library grammar every statement is matched against.
const StatementGrammar = "StatementSegment"

// Result is the outcome of a parse.
type Result struct {
	// File is the root segment; its raw text equals the parsed input.
	File *segment.Segment
	// Errors has one entry per unparsable region.
	Errors []*ParseError
	// Stats aggregates matcher counters over all statements.
	Stats grammar.Stats
}

// Statements returns the parsed statement segments in source order.
func (r *Result) Statements() []*segment.Segment {
	return r.File.ChildrenOfType(token.Statement)
}

// HasErrors reports whether any part of the input was unparsable.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

type options struct {
	logger   *slog.Logger
	maxDepth int
	noPrune  bool
}

// Option configures a parse.
type Option func(*options)

// WithLogger routes match tracing to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxDepth bounds grammar recursion.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithoutPruning disables simple-hint pruning in the combinators.
func WithoutPruning() Option {
	return func(o *options) { o.noPrune = true }
}

// Parse parses sql with dialect d.
func Parse(sql string, d *dialect.Dialect, opts ...Option) *Result {
	o := options{logger: slog.Default(), maxDepth: grammar.DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	ctxOpts := []grammar.ContextOption{grammar.WithLogger(o.logger), grammar.WithMaxDepth(o.maxDepth)}
	if o.noPrune {
		ctxOpts = append(ctxOpts, grammar.WithoutPruning())
	}

	segs := lexer.Lex(sql, d.LexerConfig())
	res := &Result{}
	var children []*segment.Segment
	for _, c := range splitStatements(segs) {
		ctx := grammar.NewContext(d.Library(), ctxOpts...)
		children = append(children, parseChunk(c, ctx, res)...)
		res.Stats = addStats(res.Stats, ctx.Stats())
	}
	res.File = segment.NewNode([]token.Type{token.File}, children)

	o.logger.Debug("parsed sql",
		"dialect", d.GetName(),
		"statements", len(res.Statements()),
		"errors", len(res.Errors),
		"attempts", res.Stats.Attempts,
		"pruned", res.Stats.Pruned,
	)
	return res
}

// chunk is one statement's segments plus its terminating semicolon, if any.
type chunk struct {
	body       []*segment.Segment
	terminator *segment.Segment
}

// splitStatements splits segs at semicolons outside brackets.
func splitStatements(segs []*segment.Segment) []chunk {
	var chunks []chunk
	depth, start := 0, 0
	for i, s := range segs {
		switch {
		case s.IsType(token.StartBracket):
			depth++
		case s.IsType(token.EndBracket):
			if depth > 0 {
				depth--
			}
		case s.IsType(token.Semicolon) && depth == 0:
			chunks = append(chunks, chunk{body: segs[start:i], terminator: s})
			start = i + 1
		}
	}
	if start < len(segs) {
		chunks = append(chunks, chunk{body: segs[start:]})
	}
	return chunks
}

// parseChunk matches one statement and returns the file-level children it
// contributes.
func parseChunk(c chunk, ctx *grammar.Context, res *Result) []*segment.Segment {
	pre, mid, post := grammar.Trim(c.body)
	out := append([]*segment.Segment(nil), pre...)
	if len(mid) > 0 {
		r := grammar.Ref(StatementGrammar).Match(mid, ctx)
		out = append(out, r.Matched...)
		if len(r.Unmatched) > 0 {
			gap, rest, tail := grammar.Trim(r.Unmatched)
			out = append(out, gap...)
			if len(rest) > 0 {
				bad := segment.NewNode([]token.Type{token.Unparsable}, rest)
				res.Errors = append(res.Errors, newUnparsableError(bad, r.HasMatch()))
				out = append(out, bad)
			}
			out = append(out, tail...)
		}
	}
	out = append(out, post...)
	if c.terminator != nil {
		out = append(out, c.terminator)
	}
	return out
}

func addStats(a, b grammar.Stats) grammar.Stats {
	a.Attempts += b.Attempts
	a.Pruned += b.Pruned
	a.CacheHits += b.CacheHits
	a.CacheMisses += b.CacheMisses
	a.DepthExceeded += b.DepthExceeded
	return a
}
