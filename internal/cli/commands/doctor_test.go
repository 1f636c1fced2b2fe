package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/sqlmatch/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checksByName(checks []HealthCheck) map[string]HealthCheck {
	m := make(map[string]HealthCheck, len(checks))
	for _, c := range checks {
		m[c.Name] = c
	}
	return m
}

func TestRunHealthChecks(t *testing.T) {
	setupProject(t, map[string]string{"sqlmatch.yaml": "dialect: postgres\n"})

	cmd := NewDoctorCommand()
	checks := checksByName(runHealthChecks(NewCommandContext(cmd)))

	assert.Equal(t, StatusPass, checks["config"].Status)
	assert.Contains(t, checks["config"].Detail, "sqlmatch.yaml")
	assert.Equal(t, StatusPass, checks["dialect"].Status)
	assert.Equal(t, "postgres", checks["dialect"].Detail)
	assert.Equal(t, StatusPass, checks["rules"].Status)
	assert.Equal(t, StatusPass, checks["cache"].Status)
	assert.Contains(t, checks["cache"].Detail, "schema v1")
}

func TestRunHealthChecksDefaults(t *testing.T) {
	_, cfg := setupProject(t, nil)
	cfg.NoCache = true

	checks := checksByName(runHealthChecks(NewCommandContext(NewDoctorCommand())))
	assert.Equal(t, StatusWarn, checks["config"].Status)
	assert.Equal(t, StatusWarn, checks["cache"].Status)
}

func TestCheckDialectUnknown(t *testing.T) {
	setupProject(t, nil)

	c := checkDialect("oracle", NewCommandContext(NewDoctorCommand()))
	assert.Equal(t, StatusFail, c.Status)
	assert.Contains(t, c.Detail, "unknown dialect")
}

func TestRenderHealthChecks(t *testing.T) {
	checks := []HealthCheck{
		{Name: "config", Status: StatusWarn, Detail: "defaults"},
		{Name: "dialect", Status: StatusFail, Detail: "unknown dialect"},
	}

	tr := testutil.NewTestRendererJSON()
	err := renderHealthChecks(tr.Renderer, checks)
	assert.EqualError(t, err, "1 health check(s) failed")
	var out DoctorOutput
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &out))
	assert.Equal(t, 1, out.Failed)
	assert.Len(t, out.Checks, 2)

	tr = testutil.NewTestRendererMarkdown()
	require.NoError(t, renderHealthChecks(tr.Renderer, checks[:1]))
	assert.Contains(t, tr.Output(), "| config | warn | defaults |")
}
