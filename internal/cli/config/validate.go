package config

import (
	"fmt"

	"github.com/leapstack-labs/sqlmatch/internal/cli/output"
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/lint"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := dialect.Resolve(c.Dialect); err != nil {
		return err
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Lint.Severity != "" {
		if _, err := lint.ParseSeverity(c.Lint.Severity); err != nil {
			return fmt.Errorf("lint.severity: %w", err)
		}
	}
	for id, sev := range c.Lint.SeverityOverrides {
		if _, err := lint.ParseSeverity(sev); err != nil {
			return fmt.Errorf("lint.severity_overrides.%s: %w", id, err)
		}
	}
	return nil
}
