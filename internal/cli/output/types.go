package output

// LintOutput is the JSON document written by `sqlmatch lint --output json`.
type LintOutput struct {
	Summary LintSummary      `json:"summary"`
	Files   []LintFileResult `json:"files"`
}

// LintSummary counts files and diagnostics by severity.
type LintSummary struct {
	FilesAnalyzed   int `json:"files_analyzed"`
	FilesWithIssues int `json:"files_with_issues"`
	FilesCached     int `json:"files_cached"`
	TotalIssues     int `json:"total_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
	Hints           int `json:"hints"`
}

// LintFileResult holds the diagnostics of one file.
type LintFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
}

// LintDiagnostic is one diagnostic in JSON output.
type LintDiagnostic struct {
	RuleID           string `json:"rule_id"`
	Severity         string `json:"severity"`
	Message          string `json:"message"`
	Line             int    `json:"line"`
	Column           int    `json:"column"`
	EndLine          int    `json:"end_line"`
	EndColumn        int    `json:"end_column"`
	DocumentationURL string `json:"documentation_url,omitempty"`
}

// DialectOutput describes one registered dialect.
type DialectOutput struct {
	Name     string `json:"name"`
	Parent   string `json:"parent,omitempty"`
	Keywords int    `json:"keywords"`
	Reserved int    `json:"reserved"`
	Grammars int    `json:"grammars"`
}
