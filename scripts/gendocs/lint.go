package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlmatch/pkg/lint"
	_ "github.com/leapstack-labs/sqlmatch/pkg/lint/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"references": "Rules about column and table references in queries.",
}

// generateLintDocs writes an index page and one page per rule group.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	grouped := groupRules(lint.AllRules())
	groups := make([]string, 0, len(grouped))
	for g := range grouped {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	if err := generateLintIndex(outDir, groups, grouped); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, g := range groups {
		if err := generateGroupPage(outDir, g, grouped[g]); err != nil {
			return err
		}
		log.Printf("  Generated %s.md", g)
	}
	return nil
}

func generateLintIndex(outDir string, groups []string, grouped map[string][]lint.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Lint Rules", "Lint rules for sqlmatch")
	w.GeneratedMarker()

	w.Header(1, "Lint Rules")
	w.Paragraph(fmt.Sprintf("sqlmatch ships %d lint rules. Input a dialect cannot parse is reported as rule %s.",
		lint.Count(), InlineCode(lint.ParseErrorRuleID)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules are configured in the " + InlineCode("lint") + " section of " + InlineCode("sqlmatch.yaml") + ":")
	w.CodeBlock("yaml", `lint:
  severity: warning        # minimum severity reported
  disabled: [RF01]         # rules that never run
  severity_overrides:
    RF01: error
  rules:
    RF01:
      force_enable: true   # rule-specific option`)

	w.Header(2, "Rules")
	var rows [][]string
	for _, g := range groups {
		for _, r := range grouped[g] {
			link := fmt.Sprintf("[%s](/rules/%s#%s)", r.ID, g, strings.ToLower(r.ID))
			rows = append(rows, []string{link, InlineCode(r.Name), r.DefaultSeverity.String(), cleanDescription(r.Description)})
		}
	}
	w.Table([]string{"ID", "Name", "Severity", "Description"}, rows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func generateGroupPage(outDir, group string, rules []lint.RuleInfo) error {
	w := NewMarkdownWriter()
	title := capitalizeFirst(group) + " Rules"

	w.Frontmatter(title, fmt.Sprintf("%s lint rules for sqlmatch", capitalizeFirst(group)))
	w.GeneratedMarker()

	w.Header(1, title)
	if desc, ok := groupDescriptions[group]; ok {
		w.Paragraph(desc)
	}
	for _, r := range rules {
		writeRuleDoc(w, r)
	}

	return os.WriteFile(filepath.Join(outDir, group+".md"), w.Bytes(), 0600)
}

// groupRules organizes rules by group, sorted by ID within each group.
func groupRules(rules []lint.RuleInfo) map[string][]lint.RuleInfo {
	grouped := make(map[string][]lint.RuleInfo)
	for _, r := range rules {
		grouped[r.Group] = append(grouped[r.Group], r)
	}
	for group := range grouped {
		sort.Slice(grouped[group], func(i, j int) bool {
			return grouped[group][i].ID < grouped[group][j].ID
		})
	}
	return grouped
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule lint.RuleInfo) {
	w.Line(fmt.Sprintf("## %s - %s {#%s}", rule.ID, rule.Name, strings.ToLower(rule.ID)))
	w.Newline()

	w.Line(fmt.Sprintf("**Severity:** %s", InlineCode(rule.DefaultSeverity.String())))
	w.Newline()

	w.Paragraph(cleanDescription(rule.Description))

	if rule.Rationale != "" {
		w.Header(3, "Why This Matters")
		w.Paragraph(strings.TrimSpace(rule.Rationale))
	}
	if rule.BadExample != "" {
		w.Header(3, "Bad")
		w.CodeBlock("sql", rule.BadExample)
	}
	if rule.GoodExample != "" {
		w.Header(3, "Good")
		w.CodeBlock("sql", rule.GoodExample)
	}
	if len(rule.ConfigKeys) > 0 {
		w.Header(3, "Configuration")
		keys := make([]string, len(rule.ConfigKeys))
		for i, k := range rule.ConfigKeys {
			keys[i] = InlineCode(k)
		}
		w.Paragraph("This rule accepts the following options: " + strings.Join(keys, ", "))
	}
	if len(rule.Dialects) > 0 {
		w.Line(fmt.Sprintf("**Dialects:** %s", strings.Join(rule.Dialects, ", ")))
		w.Newline()
	}

	w.Line("---")
	w.Newline()
}
