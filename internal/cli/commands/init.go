package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sqlmatch/internal/cli/config"
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/lint"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a sqlmatch.yaml configuration file",
		Long: `Create a sqlmatch.yaml in the given directory (default: current directory).

The file selects the configured dialect and lists every rule option with its
default, commented out.`,
		Example: `  # Initialize in current directory
  sqlmatch init

  # Initialize a postgres project in a new directory
  sqlmatch init -d postgres my-queries

  # Force overwrite existing config
  sqlmatch init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cmdCtx := NewCommandContext(cmd)
			path, err := writeInitConfig(dir, cmdCtx.Cfg.Dialect, force)
			if err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Created " + path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func writeInitConfig(dir, dialectName string, force bool) (string, error) {
	if _, err := dialect.Resolve(dialectName); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists. Use --force to overwrite", path)
	}

	if err := os.WriteFile(path, []byte(initConfigContent(dialectName)), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func initConfigContent(dialectName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# sqlmatch configuration\n")
	fmt.Fprintf(&b, "# Dialects: %s\n", strings.Join(dialect.List(), ", "))
	fmt.Fprintf(&b, "dialect: %s\n\n", strings.ToLower(dialectName))
	fmt.Fprintf(&b, "# output: auto        # auto, text, markdown or json\n")
	fmt.Fprintf(&b, "# workers: 0          # 0 uses every CPU\n")
	fmt.Fprintf(&b, "# cache_path: %s\n\n", config.DefaultCacheFile)
	fmt.Fprintf(&b, "lint:\n")
	fmt.Fprintf(&b, "  severity: %s\n", config.DefaultSeverity)
	fmt.Fprintf(&b, "  disabled: []\n")

	var withOptions []lint.RuleInfo
	for _, info := range lint.AllRules() {
		if len(info.ConfigKeys) > 0 {
			withOptions = append(withOptions, info)
		}
	}
	if len(withOptions) > 0 {
		fmt.Fprintf(&b, "  # rules:\n")
		for _, info := range withOptions {
			fmt.Fprintf(&b, "  #   %s:   # %s\n", info.ID, info.Name)
			for _, key := range info.ConfigKeys {
				fmt.Fprintf(&b, "  #     %s: ...\n", key)
			}
		}
	}
	return b.String()
}
