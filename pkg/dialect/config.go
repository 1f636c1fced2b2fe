package dialect

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Snowflake, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL, ClickHouse).
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison (BigQuery, Hive, DuckDB).
	NormCaseInsensitive
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// Config holds the static configuration for a SQL dialect.
// This is pure data. The Builder reads the feature flags and wires the
// matching standard grammars when Build is called.
type Config struct {
	// Name is the dialect identifier (e.g., "duckdb", "postgres")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// Lexing switches
	BackQuotes   bool // `name` is a quoted identifier
	HashComments bool // # starts an inline comment

	// Framework features (auto-wired by Builder)
	SupportsQualify       bool // QUALIFY clause after HAVING
	SupportsLateralView   bool // LATERAL VIEW [OUTER] fn(...) alias AS cols
	SupportsSemiAntiJoins bool // [LEFT] SEMI / ANTI JOIN

	// NestedFieldAccess marks dialects where a.b.c may be a struct field
	// path rather than a schema-qualified reference.
	NestedFieldAccess bool

	// Keywords are matched as keywords but may still be used as names.
	Keywords []string
	// ReservedWords can never be used as unquoted identifiers.
	ReservedWords []string
}
