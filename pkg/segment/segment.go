// Package segment provides the immutable parse-tree node shared by the lexer,
// the grammar engine and the reference analysis.
//
// A Segment is either a raw leaf (carrying source text) or a composite node
// (carrying ordered children). Segments are created once and never mutated, so
// they can be shared freely between alternative match attempts.
package segment

import (
	"strings"

	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// Segment is a node of the parse tree.
type Segment struct {
	types    []token.Type
	raw      string
	children []*Segment
	pos      token.Position
	end      token.Position
	leaf     bool
	code     bool

	// descendants holds the types of every node strictly below this one.
	descendants map[token.Type]struct{}
}

// NewRaw creates a leaf segment.
func NewRaw(typ token.Type, raw string, pos token.Position) *Segment {
	s := &Segment{
		types: []token.Type{typ},
		raw:   raw,
		pos:   pos,
		end:   pos.Advance(raw),
		leaf:  true,
	}
	s.code = !token.IsNonCode(typ)
	return s
}

// NewNode creates a composite segment over children. The first type is the
// primary type reported by Type.
func NewNode(types []token.Type, children []*Segment) *Segment {
	s := &Segment{
		types:       append([]token.Type(nil), types...),
		children:    append([]*Segment(nil), children...),
		descendants: make(map[token.Type]struct{}),
	}
	var b strings.Builder
	for i, c := range children {
		if i == 0 {
			s.pos = c.pos
		}
		s.end = c.end
		b.WriteString(c.Raw())
		if c.code {
			s.code = true
		}
		for _, t := range c.types {
			s.descendants[t] = struct{}{}
		}
		for t := range c.descendants {
			s.descendants[t] = struct{}{}
		}
	}
	s.raw = b.String()
	return s
}

// Retype returns a copy of a leaf carrying the given types in front of its
// existing ones. Composite segments are returned unchanged.
func (s *Segment) Retype(types ...token.Type) *Segment {
	if !s.leaf || len(types) == 0 {
		return s
	}
	merged := make([]token.Type, 0, len(types)+len(s.types))
	seen := make(map[token.Type]struct{}, len(types)+len(s.types))
	for _, t := range append(append([]token.Type(nil), types...), s.types...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	c := *s
	c.types = merged
	return &c
}

// Type returns the primary type tag.
func (s *Segment) Type() token.Type {
	return s.types[0]
}

// Types returns every type tag of the segment, primary first.
func (s *Segment) Types() []token.Type {
	return s.types
}

// IsType reports whether the segment carries any of the given types.
func (s *Segment) IsType(types ...token.Type) bool {
	for _, want := range types {
		for _, t := range s.types {
			if t == want {
				return true
			}
		}
	}
	return false
}

// HasDescendantType reports whether any node below s carries one of the types.
func (s *Segment) HasDescendantType(types ...token.Type) bool {
	for _, t := range types {
		if _, ok := s.descendants[t]; ok {
			return true
		}
	}
	return false
}

// IsRaw reports whether the segment is a leaf.
func (s *Segment) IsRaw() bool { return s.leaf }

// Raw returns the source text covered by the segment.
func (s *Segment) Raw() string { return s.raw }

// RawUpper returns the upper-cased source text.
func (s *Segment) RawUpper() string { return strings.ToUpper(s.raw) }

// Children returns the ordered child segments of a composite.
func (s *Segment) Children() []*Segment { return s.children }

// Pos returns the start position.
func (s *Segment) Pos() token.Position { return s.pos }

// EndPos returns the position just after the segment.
func (s *Segment) EndPos() token.Position { return s.end }

// Span returns the source range of the segment.
func (s *Segment) Span() token.Span { return token.Span{Start: s.pos, End: s.end} }

// IsCode reports whether the segment contains anything other than whitespace
// and comments.
func (s *Segment) IsCode() bool { return s.code }

// IsWhitespace reports whether the segment is a whitespace or newline leaf.
func (s *Segment) IsWhitespace() bool {
	return s.leaf && token.IsWhitespace(s.types[len(s.types)-1])
}

// IsComment reports whether the segment is a comment leaf.
func (s *Segment) IsComment() bool {
	return s.leaf && s.IsType(token.Comment, token.InlineComment, token.BlockComment)
}

// RawSegments returns every leaf under s in document order.
func (s *Segment) RawSegments() []*Segment {
	if s.leaf {
		return []*Segment{s}
	}
	var out []*Segment
	for _, c := range s.children {
		out = append(out, c.RawSegments()...)
	}
	return out
}

// FirstCodeRawUpper returns the upper-cased text of the first code leaf under
// s, or "" when s holds only whitespace and comments.
func (s *Segment) FirstCodeRawUpper() string {
	if s.leaf {
		if s.code {
			return s.RawUpper()
		}
		return ""
	}
	for _, c := range s.children {
		if r := c.FirstCodeRawUpper(); r != "" {
			return r
		}
	}
	return ""
}

// Child returns the first direct child carrying one of the types.
func (s *Segment) Child(types ...token.Type) *Segment {
	for _, c := range s.children {
		if c.IsType(types...) {
			return c
		}
	}
	return nil
}

// ChildrenOfType returns the direct children carrying one of the types.
func (s *Segment) ChildrenOfType(types ...token.Type) []*Segment {
	var out []*Segment
	for _, c := range s.children {
		if c.IsType(types...) {
			out = append(out, c)
		}
	}
	return out
}

// CodeChildren returns the direct children that are code.
func (s *Segment) CodeChildren() []*Segment {
	var out []*Segment
	for _, c := range s.children {
		if c.code {
			out = append(out, c)
		}
	}
	return out
}

// String returns a short debugging description.
func (s *Segment) String() string {
	if s.leaf {
		return s.Type() + "(" + s.raw + ")@" + s.pos.String()
	}
	return s.Type() + "@" + s.pos.String()
}

// RecursiveCrawl returns s and every segment below it carrying one of types,
// in document order. Subtrees rooted at a child of a noRecurse type are
// skipped entirely. Branches whose descendants cannot contain a match are not
// visited.
func (s *Segment) RecursiveCrawl(types []token.Type, noRecurse ...token.Type) []*Segment {
	var out []*Segment
	s.crawl(types, noRecurse, &out)
	return out
}

func (s *Segment) crawl(types, noRecurse []token.Type, out *[]*Segment) {
	if s.IsType(types...) {
		*out = append(*out, s)
	}
	if !s.HasDescendantType(types...) {
		return
	}
	for _, c := range s.children {
		if len(noRecurse) > 0 && c.IsType(noRecurse...) {
			continue
		}
		c.crawl(types, noRecurse, out)
	}
}

// PathTo returns the chain of segments from s down to the parent of target,
// s first. It returns nil when target is s or is not below s. Segments are
// compared by identity.
func (s *Segment) PathTo(target *Segment) []*Segment {
	if s == target || s.leaf {
		return nil
	}
	for _, c := range s.children {
		if c == target {
			return []*Segment{s}
		}
		if sub := c.PathTo(target); sub != nil {
			return append([]*Segment{s}, sub...)
		}
	}
	return nil
}

// Seek returns the topmost segments of the given types at or below s: once a
// match is found its subtree is not searched further.
func (s *Segment) Seek(types ...token.Type) []*Segment {
	var out []*Segment
	s.seek(types, &out)
	return out
}

func (s *Segment) seek(types []token.Type, out *[]*Segment) {
	if s.IsType(types...) {
		*out = append(*out, s)
		return
	}
	if !s.HasDescendantType(types...) {
		return
	}
	for _, c := range s.children {
		c.seek(types, out)
	}
}
