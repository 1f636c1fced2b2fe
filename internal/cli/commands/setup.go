package commands

import (
	"log/slog"

	"github.com/leapstack-labs/sqlmatch/internal/cli/config"
	"github.com/leapstack-labs/sqlmatch/internal/cli/output"
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the loaded config, the context logger and a
// renderer for the configured output mode.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// WithFormat replaces the renderer when a command-local --format flag is set.
func (c *CommandContext) WithFormat(cmd *cobra.Command, format string) error {
	if format == "" {
		return nil
	}
	mode, err := output.ParseMode(format)
	if err != nil {
		return err
	}
	c.Renderer = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
	return nil
}

// Dialect resolves the configured dialect.
func (c *CommandContext) Dialect() (*dialect.Dialect, error) {
	return dialect.Resolve(c.Cfg.Dialect)
}

// getConfig returns the current configuration, or defaults when the root
// command did not load one (commands constructed directly in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Dialect:      config.DefaultDialect,
		OutputFormat: config.DefaultOutput,
		CachePath:    config.DefaultCacheFile,
		Lint:         config.LintConfig{Severity: config.DefaultSeverity},
	}
}
