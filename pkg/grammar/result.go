package grammar

import (
	"strings"

	"github.com/leapstack-labs/sqlmatch/pkg/segment"
)

// MatchResult partitions the input of a single Match call into the matched
// prefix and the unmatched remainder.
type MatchResult struct {
	Matched   []*segment.Segment
	Unmatched []*segment.Segment
}

// NoMatch returns the failed result for segs.
func NoMatch(segs []*segment.Segment) MatchResult {
	return MatchResult{Unmatched: segs}
}

// HasMatch reports whether anything was matched.
func (r MatchResult) HasMatch() bool {
	return len(r.Matched) > 0
}

// IsComplete reports whether the whole input was matched.
func (r MatchResult) IsComplete() bool {
	return len(r.Unmatched) == 0
}

// consumed returns how many input segments the match used.
func (r MatchResult) consumed(input []*segment.Segment) int {
	return len(input) - len(r.Unmatched)
}

// Raw returns the concatenated raw text of the matched segments.
func (r MatchResult) Raw() string {
	var b strings.Builder
	for _, seg := range r.Matched {
		b.WriteString(seg.Raw())
	}
	return b.String()
}

// splitNonCode splits segs into its leading non-code run and the rest.
func splitNonCode(segs []*segment.Segment) (gap, rest []*segment.Segment) {
	i := 0
	for i < len(segs) && !segs[i].IsCode() {
		i++
	}
	return segs[:i], segs[i:]
}

// Trim splits segs into leading non-code, the code core and trailing
// non-code.
func Trim(segs []*segment.Segment) (pre, mid, post []*segment.Segment) {
	start := 0
	for start < len(segs) && !segs[start].IsCode() {
		start++
	}
	end := len(segs)
	for end > start && !segs[end-1].IsCode() {
		end--
	}
	return segs[:start], segs[start:end], segs[end:]
}

// hasCode reports whether any segment is code.
func hasCode(segs []*segment.Segment) bool {
	for _, s := range segs {
		if s.IsCode() {
			return true
		}
	}
	return false
}

// concat returns a fresh slice holding a followed by b.
func concat(a, b []*segment.Segment) []*segment.Segment {
	out := make([]*segment.Segment, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
