package lint

import "github.com/leapstack-labs/sqlmatch/pkg/segment"

// Rule is the interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "RF01"
	ID() string

	// Name returns the human-readable name, e.g., "references.from"
	Name() string

	// Group returns the category, e.g., "references"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() Severity

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string

	// Dialects returns dialect restrictions; nil/empty means all dialects.
	Dialects() []string

	// Check analyzes a parsed statement. The opts parameter contains
	// rule-specific options from configuration.
	Check(stmt *segment.Segment, dialect DialectInfo, opts map[string]any) []Diagnostic
}

// CheckFunc analyzes a statement and returns diagnostics.
type CheckFunc func(stmt *segment.Segment, dialect DialectInfo, opts map[string]any) []Diagnostic

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameters.
type RuleDef struct {
	ID          string    // Unique identifier, e.g., "RF01"
	Name        string    // Human-readable name, e.g., "references.from"
	Group       string    // Category, e.g., "references"
	Description string    // Human-readable description
	Severity    Severity  // Default severity
	Check       CheckFunc // The check function
	ConfigKeys  []string  // Configuration keys this rule accepts
	Dialects    []string  // Restrict to specific dialects; nil/empty means all dialects

	// Documentation fields
	Rationale   string
	BadExample  string
	GoodExample string
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Group           string   `json:"group"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	ConfigKeys      []string `json:"config_keys,omitempty"`
	Dialects        []string `json:"dialects,omitempty"`
	Rationale       string   `json:"rationale,omitempty"`
	BadExample      string   `json:"bad_example,omitempty"`
	GoodExample     string   `json:"good_example,omitempty"`
	DocURL          string   `json:"doc_url"`
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) RuleInfo {
	info := RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		ConfigKeys:      r.ConfigKeys(),
		Dialects:        r.Dialects(),
		DocURL:          RuleDocURL(r.Group(), r.ID()),
	}
	if w, ok := r.(*wrappedRuleDef); ok {
		info.Rationale = w.def.Rationale
		info.BadExample = w.def.BadExample
		info.GoodExample = w.def.GoodExample
	}
	return info
}

// wrappedRuleDef wraps a RuleDef to implement Rule.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement the Rule interface.
func WrapRuleDef(def RuleDef) Rule {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                { return w.def.ID }
func (w *wrappedRuleDef) Name() string              { return w.def.Name }
func (w *wrappedRuleDef) Group() string             { return w.def.Group }
func (w *wrappedRuleDef) Description() string       { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() Severity { return w.def.Severity }
func (w *wrappedRuleDef) ConfigKeys() []string      { return w.def.ConfigKeys }
func (w *wrappedRuleDef) Dialects() []string        { return w.def.Dialects }

func (w *wrappedRuleDef) Check(stmt *segment.Segment, dialect DialectInfo, opts map[string]any) []Diagnostic {
	return w.def.Check(stmt, dialect, opts)
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return w.def
}
