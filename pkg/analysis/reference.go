package analysis

import (
	"strings"

	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// Level is the position of a reference part counted from the right: the
// final part of a.b.c is at LevelObject, b at LevelTable, a at LevelSchema.
type Level int

// Reference levels.
const (
	LevelObject Level = iota + 1
	LevelTable
	LevelSchema
	LevelCatalog
)

// Part is one dot-separated element of an object reference.
type Part struct {
	// Name is the normalized comparison key of the part.
	Name    string
	Segment *segment.Segment
}

// ObjectReference is a dotted name (column, table or wildcard reference)
// split into normalized parts.
type ObjectReference struct {
	Segment *segment.Segment
	Parts   []Part
}

// NewObjectReference splits ref into parts. Identifiers are normalized with
// the dialect rules; a trailing wildcard becomes a "*" part.
func NewObjectReference(ref *segment.Segment, d Dialect) *ObjectReference {
	o := &ObjectReference{Segment: ref}
	for _, leaf := range ref.RawSegments() {
		switch {
		case leaf.IsType(token.QuotedIdentifier):
			o.Parts = append(o.Parts, Part{Name: d.NormalizeIdentifier(leaf.Raw(), true), Segment: leaf})
		case leaf.IsType(token.NakedIdentifier):
			o.Parts = append(o.Parts, Part{Name: d.NormalizeIdentifier(leaf.Raw(), false), Segment: leaf})
		case leaf.IsType(token.Star):
			o.Parts = append(o.Parts, Part{Name: "*", Segment: leaf})
		}
	}
	return o
}

// Tuple returns the names of all parts.
func (o *ObjectReference) Tuple() Tuple {
	return PartsTuple(o.Parts)
}

// String returns the reference as written.
func (o *ObjectReference) String() string {
	return o.Segment.Raw()
}

// PossibleReferences returns the part at the given level, if the reference
// has one.
func (o *ObjectReference) PossibleReferences(level Level) []Part {
	idx := len(o.Parts) - int(level)
	if idx < 0 || idx >= len(o.Parts) {
		return nil
	}
	return []Part{o.Parts[idx]}
}

// LeadingParts returns up to n parts from the left.
func (o *ObjectReference) LeadingParts(n int) []Part {
	return o.Parts[:min(n, len(o.Parts))]
}

// PossibleMultipartReferences returns the contiguous run of parts spanning
// levels, or nothing when the reference is too short to contain a part
// below the lowest level.
func (o *ObjectReference) PossibleMultipartReferences(levels ...Level) [][]Part {
	if len(levels) == 0 {
		return nil
	}
	lo, hi := levels[0], levels[0]
	for _, l := range levels[1:] {
		lo = min(lo, l)
		hi = max(hi, l)
	}
	if len(o.Parts) < int(hi) {
		return nil
	}
	start := len(o.Parts) - int(hi)
	end := len(o.Parts) - int(lo) + 1
	return [][]Part{o.Parts[start:end]}
}

// Tuple is a normalized dotted name.
type Tuple []string

// String joins the tuple with dots.
func (t Tuple) String() string {
	return strings.Join(t, ".")
}

// Matches reports whether t and target name the same table: exactly, or
// with the shorter of the two a suffix of the longer. (foo) matches
// (schema, foo) either way round; (s) never matches (s, foo).
func (t Tuple) Matches(target Tuple) bool {
	short, long := t, target
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return len(long) == 0
	}
	off := len(long) - len(short)
	for i, name := range short {
		if long[off+i] != name {
			return false
		}
	}
	return true
}

// MatchesAny reports whether any of possible matches any of targets. An
// empty possible list always matches: the reference does not name a table.
func MatchesAny(possible, targets []Tuple) bool {
	if len(possible) == 0 {
		return true
	}
	for _, p := range possible {
		for _, t := range targets {
			if p.Matches(t) {
				return true
			}
		}
	}
	return false
}

// PartsTuple returns the names of parts.
func PartsTuple(parts []Part) Tuple {
	t := make(Tuple, len(parts))
	for i, p := range parts {
		t[i] = p.Name
	}
	return t
}
