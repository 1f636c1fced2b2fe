package commands

import (
	"fmt"

	"github.com/leapstack-labs/sqlmatch/internal/cli/config"
	"github.com/leapstack-labs/sqlmatch/internal/cli/output"
	"github.com/leapstack-labs/sqlmatch/internal/state"
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/lint"
	"github.com/leapstack-labs/sqlmatch/pkg/parser"
	"github.com/spf13/cobra"
)

// Health check statuses.
const (
	StatusPass = "pass"
	StatusWarn = "warn"
	StatusFail = "fail"
)

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Checks []HealthCheck `json:"checks"`
	Failed int           `json:"failed"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, dialect, rules and cache",
		Long: `Verify that sqlmatch can run in this directory: the configuration
loads, the dialect parses a probe statement, rules are registered and the
lint cache opens at its current schema version.`,
		Example: `  sqlmatch doctor
  sqlmatch doctor --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			if err := cmdCtx.WithFormat(cmd, format); err != nil {
				return err
			}
			checks := runHealthChecks(cmdCtx)
			return renderHealthChecks(cmdCtx.Renderer, checks)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, markdown")
	return cmd
}

func runHealthChecks(cmdCtx *CommandContext) []HealthCheck {
	cfg := cmdCtx.Cfg
	var checks []HealthCheck

	if path := config.GetConfigFileUsed(); path != "" {
		checks = append(checks, HealthCheck{Name: "config", Status: StatusPass, Detail: path})
	} else {
		checks = append(checks, HealthCheck{Name: "config", Status: StatusWarn, Detail: "no sqlmatch.yaml found, using defaults"})
	}

	checks = append(checks, checkDialect(cfg.Dialect, cmdCtx))

	if n := lint.Count(); n > 0 {
		checks = append(checks, HealthCheck{Name: "rules", Status: StatusPass, Detail: fmt.Sprintf("%d registered", n)})
	} else {
		checks = append(checks, HealthCheck{Name: "rules", Status: StatusFail, Detail: "no rules registered"})
	}

	checks = append(checks, checkCache(cfg, cmdCtx))
	return checks
}

func checkDialect(name string, cmdCtx *CommandContext) HealthCheck {
	d, err := dialect.Resolve(name)
	if err != nil {
		return HealthCheck{Name: "dialect", Status: StatusFail, Detail: err.Error()}
	}
	res := parser.Parse("SELECT a.b FROM a", d, parser.WithLogger(cmdCtx.Logger))
	if res.HasErrors() {
		return HealthCheck{Name: "dialect", Status: StatusFail, Detail: fmt.Sprintf("%s: probe failed: %v", name, res.Errors[0])}
	}
	return HealthCheck{Name: "dialect", Status: StatusPass, Detail: d.GetName()}
}

func checkCache(cfg *config.Config, cmdCtx *CommandContext) HealthCheck {
	if cfg.NoCache {
		return HealthCheck{Name: "cache", Status: StatusWarn, Detail: "disabled"}
	}
	store := state.NewSQLiteStore(cmdCtx.Logger)
	if err := store.OpenAndMigrate(cfg.CachePath); err != nil {
		return HealthCheck{Name: "cache", Status: StatusFail, Detail: err.Error()}
	}
	defer store.Close()

	version, err := store.GetMigrationVersion()
	if err != nil {
		return HealthCheck{Name: "cache", Status: StatusFail, Detail: err.Error()}
	}
	detail := fmt.Sprintf("%s (schema v%d)", cfg.CachePath, version)
	if run, err := store.LatestRun(); err == nil && run != nil {
		detail += fmt.Sprintf(", last run %s: %d files, %d issues", run.StartedAt.Format("2006-01-02 15:04"), run.Files, run.Issues)
	}
	return HealthCheck{Name: "cache", Status: StatusPass, Detail: detail}
}

func renderHealthChecks(r *output.Renderer, checks []HealthCheck) error {
	failed := 0
	for _, c := range checks {
		if c.Status == StatusFail {
			failed++
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(DoctorOutput{Checks: checks, Failed: failed}); err != nil {
			return err
		}
	} else {
		styles := r.Styles()
		rows := make([][]string, 0, len(checks))
		for _, c := range checks {
			status := c.Status
			if r.EffectiveMode() == output.ModeText {
				switch c.Status {
				case StatusPass:
					status = styles.Success.Render(status)
				case StatusWarn:
					status = styles.Warning.Render(status)
				default:
					status = styles.Error.Render(status)
				}
			}
			rows = append(rows, []string{c.Name, status, c.Detail})
		}
		r.Table([]string{"Check", "Status", "Detail"}, rows)
	}

	if failed > 0 {
		return fmt.Errorf("%d health check(s) failed", failed)
	}
	return nil
}
