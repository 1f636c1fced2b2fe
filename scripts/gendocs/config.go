package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sqlmatch/internal/cli/config"
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/all"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
}

// getConfigSchema mirrors the koanf keys of config.Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "dialect", Type: "string", Default: config.DefaultDialect, Description: "SQL dialect: " + strings.Join(dialect.List(), ", ")},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text, markdown or json"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Debug logging to stderr"},
		{Name: "workers", Type: "int", Default: "0", Description: "Files linted in parallel; 0 uses every CPU"},
		{Name: "cache_path", Type: "string", Default: config.DefaultCacheFile, Description: "Lint cache database, relative to the project root"},
		{Name: "no_cache", Type: "bool", Default: "false", Description: "Disable the lint cache"},
		{Name: "docs_url", Type: "string", Description: "Base URL for rule documentation links"},
		{Name: "lint.severity", Type: "string", Default: config.DefaultSeverity, Description: "Minimum severity reported"},
		{Name: "lint.disabled", Type: "[]string", Description: "Rule IDs that never run"},
		{Name: "lint.severity_overrides", Type: "map[string]string", Description: "Severity per rule ID"},
		{Name: "lint.rules", Type: "map[string]map[string]any", Description: "Options per rule ID"},
	}
}

// generateConfigDocs writes the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "sqlmatch configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("sqlmatch reads %s from the working directory or the nearest parent directory. Every key may also be set through a %s environment variable or a command-line flag.",
		InlineCode(config.ConfigFileNames[0]), InlineCode(config.EnvPrefix)))

	var rows [][]string
	for _, f := range getConfigSchema() {
		def := "-"
		if f.Default != "" {
			def = InlineCode(f.Default)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, def, f.Description})
	}
	w.Table([]string{"Key", "Type", "Default", "Description"}, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `dialect: postgres
workers: 4
lint:
  severity: warning
  rules:
    RF01:
      disabled_dialects: [bigquery]`)

	if err := os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
