package lint

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses a severity name as printed by String.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "hint":
		return SeverityHint, nil
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}

// DialectInfo is the view of a dialect rules receive.
// Implemented by dialect.Dialect.
type DialectInfo interface {
	GetName() string
	NormalizeName(name string) string
	NormalizeIdentifier(raw string, quoted bool) string
	NestedFieldAccess() bool
}

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string         `json:"rule_id"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Pos      token.Position `json:"pos"`
	EndPos   token.Position `json:"end_pos"` // Optional: end of the problematic range

	// DocumentationURL links to the rule documentation.
	DocumentationURL string `json:"documentation_url,omitempty"`
}

// String formats the diagnostic as line:col: [RULE] message.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: [%s] %s", d.Pos.Line, d.Pos.Column, d.RuleID, d.Message)
}
