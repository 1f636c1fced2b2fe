// Package config provides configuration management for the sqlmatch CLI.
//
// Values are layered, lowest precedence first: built-in defaults, the
// sqlmatch.yaml project file, SQLMATCH_ environment variables and finally
// command-line flags.
package config

// RuleOptions holds rule-specific options as read from YAML or env.
type RuleOptions = map[string]any

// LintConfig holds the lint section of sqlmatch.yaml.
type LintConfig struct {
	// Disabled lists rule IDs that never run.
	Disabled []string `koanf:"disabled"`
	// Severity is the minimum severity reported.
	Severity string `koanf:"severity"`
	// SeverityOverrides maps a rule ID to the severity it reports with.
	SeverityOverrides map[string]string `koanf:"severity_overrides"`
	// Rules maps a rule ID to its options.
	Rules map[string]RuleOptions `koanf:"rules"`
}

// Config holds all CLI configuration options.
type Config struct {
	Dialect      string     `koanf:"dialect"`
	Verbose      bool       `koanf:"verbose"`
	OutputFormat string     `koanf:"output"`
	Workers      int        `koanf:"workers"`
	CachePath    string     `koanf:"cache_path"`
	NoCache      bool       `koanf:"no_cache"`
	DocsURL      string     `koanf:"docs_url"`
	Lint         LintConfig `koanf:"lint"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultDialect   = "ansi"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultCacheFile = ".sqlmatch/cache.db"
	DefaultSeverity  = "warning"
	EnvPrefix        = "SQLMATCH_"
)

// ConfigFileNames are searched for, in order, in each candidate directory.
var ConfigFileNames = []string{"sqlmatch.yaml", "sqlmatch.yml", ".sqlmatch.yaml"}
