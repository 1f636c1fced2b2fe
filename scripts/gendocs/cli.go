package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sqlmatch/internal/cli"
	"github.com/leapstack-labs/sqlmatch/internal/cli/config"
	"github.com/leapstack-labs/sqlmatch/internal/cli/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// generateCLIDocs writes docs/cli: an index plus one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string][]byte{"index.md": cliIndexPage(root)}
	for _, cmd := range documentedCommands(root) {
		pages[cmd.Name()+".md"] = commandPage(cmd)
	}

	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), content, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

// documentedCommands lists the user-facing top-level commands.
func documentedCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if !cmd.IsAvailableCommand() || cmd.Name() == "help" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func cliIndexPage(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for sqlmatch")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(cleanDescription(root.Long))
	w.CodeBlock("bash", "go install github.com/leapstack-labs/sqlmatch/cmd/sqlmatch@latest\nsqlmatch <command> [options]")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documentedCommands(root) {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name()),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Paragraph("Every command accepts these flags. Each one except " + InlineCode("--config") +
		" can also be set in " + InlineCode(config.ConfigFileNames[0]) + " or through its environment variable.")
	writeFlagsTable(w, root.PersistentFlags(), true)

	w.Header(2, "Configuration Precedence")
	w.BulletList([]string{
		"command-line flags",
		InlineCode(config.EnvPrefix+"*") + " environment variables; nested keys join with " + InlineCode("__"),
		InlineCode(config.ConfigFileNames[0]) + ", searched upward from the working directory",
		"built-in defaults",
	})
	w.Paragraph("Rule options only exist in the file and the environment, for example " +
		InlineCode(config.EnvVar("lint.rules.rf01.force_enable")+"=true") + ".")

	w.Header(2, "Output Modes")
	modes := make([]string, 0, len(output.Modes))
	for _, m := range output.Modes {
		modes = append(modes, InlineCode(string(m)))
	}
	w.Paragraph(strings.Join(modes, ", ") + ". " + InlineCode("auto") +
		" renders styled text on a terminal and markdown when piped.")

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Lint issues found, unparsable input or an error (check stderr)"},
	})
	return w.Bytes()
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", usageLine(cmd))

	if len(cmd.Aliases) > 0 {
		aliases := make([]string, 0, len(cmd.Aliases))
		for _, a := range cmd.Aliases {
			aliases = append(aliases, InlineCode(a))
		}
		w.Paragraph(Bold("Aliases:") + " " + strings.Join(aliases, ", "))
	}

	if len(cmd.ValidArgs) > 0 {
		w.Header(2, "Arguments")
		args := make([]string, 0, len(cmd.ValidArgs))
		for _, a := range cmd.ValidArgs {
			args = append(args, InlineCode(a))
		}
		w.BulletList(args)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalNonPersistentFlags(), false)
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Paragraph("Global options are listed in the [CLI reference](/cli/#global-options).")
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w.Bytes()
}

func usageLine(cmd *cobra.Command) string {
	line := cmd.UseLine()
	if !strings.HasPrefix(line, "sqlmatch") {
		line = "sqlmatch " + line
	}
	return line
}

// writeFlagsTable renders flags as a table. withEnv adds the environment
// variable that sets the same configuration key.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet, withEnv bool) {
	headers := []string{"Option", "Default", "Description"}
	if withEnv {
		headers = append(headers, "Environment")
	}

	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		option := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			option = InlineCode("-"+f.Shorthand) + ", " + option
		}
		row := []string{option, flagDefault(f), cleanDescription(f.Usage)}
		if withEnv {
			env := ""
			if key := config.FlagKey(f.Name); key != "" {
				env = InlineCode(config.EnvVar(key))
			}
			row = append(row, env)
		}
		rows = append(rows, row)
	})
	w.Table(headers, rows)
}

func flagDefault(f *pflag.Flag) string {
	switch {
	case f.DefValue == "", f.DefValue == "[]":
		return ""
	case f.Value.Type() == "bool":
		return f.DefValue
	default:
		return InlineCode(f.DefValue)
	}
}

// dedent strips the indentation shared by every non-blank line.
func dedent(text string) string {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first || len(indent) < len(prefix) {
			prefix = indent
			first = false
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
}
