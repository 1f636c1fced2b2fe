package commands

import (
	"bytes"
	"io"
	"testing"

	"github.com/leapstack-labs/sqlmatch/internal/cli/config"
	"github.com/leapstack-labs/sqlmatch/internal/cli/testutil"
	_ "github.com/leapstack-labs/sqlmatch/pkg/dialects/all"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// setupProject writes the sample project to a temp dir, changes into it and
// loads configuration from there.
func setupProject(t *testing.T, files map[string]string) (string, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteSQLProject(t, dir, files)
	t.Chdir(dir)

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	return dir, cfg
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, stdin io.Reader, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
