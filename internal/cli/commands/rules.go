package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/sqlmatch/internal/cli/output"
	"github.com/leapstack-labs/sqlmatch/pkg/lint"
	_ "github.com/leapstack-labs/sqlmatch/pkg/lint/rules" // register rules
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Dialect string // Filter by dialect
	Verbose bool   // Show descriptions
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Give a rule ID to see its full documentation, options and examples.`,
		Example: `  # List all rules
  sqlmatch rules

  # Show details for a specific rule
  sqlmatch rules RF01

  # List rules in the references group
  sqlmatch rules --group references

  # Output as JSON
  sqlmatch rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().StringVar(&opts.Dialect, "for-dialect", "", "Only rules that apply to this dialect")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show rule descriptions")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []lint.RuleInfo `json:"rules"`
	Total int             `json:"total"`
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.WithFormat(cmd, opts.Format); err != nil {
		return err
	}
	r := cmdCtx.Renderer

	rules := filterRules(lint.AllRules(), opts)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(RulesJSONOutput{Rules: rules, Total: len(rules)})
	}

	header := []string{"ID", "Name", "Group", "Severity"}
	if opts.Verbose {
		header = append(header, "Description")
	}
	rows := make([][]string, 0, len(rules))
	for _, rule := range rules {
		row := []string{rule.ID, rule.Name, groupTitle(rule.Group), rule.DefaultSeverity.String()}
		if opts.Verbose {
			row = append(row, truncateOneLine(rule.Description, 80))
		}
		rows = append(rows, row)
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Lint Rules"))
		r.Println("")
	}
	r.Table(header, rows)
	if r.EffectiveMode() == output.ModeText {
		r.Println(r.Styles().Muted.Render("Use 'sqlmatch rules <rule-id>' for detailed documentation"))
	}
	return nil
}

func filterRules(rules []lint.RuleInfo, opts *RulesOptions) []lint.RuleInfo {
	if opts.Group == "" && opts.Dialect == "" {
		return rules
	}

	var filtered []lint.RuleInfo
	for _, r := range rules {
		if opts.Group != "" && !strings.EqualFold(r.Group, opts.Group) {
			continue
		}
		if opts.Dialect != "" && len(r.Dialects) > 0 && !containsFold(r.Dialects, opts.Dialect) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.WithFormat(cmd, opts.Format); err != nil {
		return err
	}
	r := cmdCtx.Renderer

	rule, ok := lint.GetByID(ruleID)
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	info := lint.GetRuleInfo(rule)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		showRuleMarkdown(r, &info)
	default:
		showRuleText(r, &info)
	}
	return nil
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *lint.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), getSeverityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	if len(rule.Dialects) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Dialects"), strings.Join(rule.Dialects, ", "))
	}
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Error.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}

	r.Println(styles.Muted.Render("  " + rule.DocURL))
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *lint.RuleInfo) {
	r.Println(output.FormatHeader(1, fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")
	r.Printf("**Group:** %s | **Severity:** `%s`\n\n", rule.Group, rule.DefaultSeverity.String())
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(output.FormatHeader(2, "Why This Matters"))
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(output.FormatHeader(2, "Bad Example"))
		r.Println("")
		r.Println(output.FormatCodeBlock("sql", rule.BadExample))
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(output.FormatHeader(2, "Good Example"))
		r.Println("")
		r.Println(output.FormatCodeBlock("sql", rule.GoodExample))
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(output.FormatHeader(2, "Configuration"))
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}

	r.Printf("[Documentation](%s)\n", rule.DocURL)
}

// Helper functions

func getSeverityStyle(styles *output.Styles, sev lint.Severity) lipgloss.Style {
	switch sev {
	case lint.SeverityError:
		return styles.Error
	case lint.SeverityWarning:
		return styles.Warning
	case lint.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func groupTitle(s string) string {
	return cases.Title(language.English).String(s)
}
