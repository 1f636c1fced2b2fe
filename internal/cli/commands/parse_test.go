package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseCommand(t *testing.T) {
	setupProject(t, map[string]string{"q.sql": "SELECT a FROM t -- done\n"})

	t.Run("tree", func(t *testing.T) {
		out, _, err := execute(NewParseCommand(), nil, "q.sql")
		require.NoError(t, err)
		assert.Contains(t, out, "file:")
		assert.Contains(t, out, "select_statement:")
		assert.NotContains(t, out, "-- done", "comments are hidden without --non-code")
	})

	t.Run("non-code", func(t *testing.T) {
		out, _, err := execute(NewParseCommand(), nil, "--non-code", "q.sql")
		require.NoError(t, err)
		assert.Contains(t, out, `"-- done"`)
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(NewParseCommand(), nil, "--format", "json", "q.sql")
		require.NoError(t, err)
		var root treeNode
		require.NoError(t, json.Unmarshal([]byte(out), &root))
		assert.Equal(t, "file", root.Type)
		assert.NotEmpty(t, root.Children)
	})

	t.Run("yaml", func(t *testing.T) {
		out, _, err := execute(NewParseCommand(), nil, "-f", "yaml", "q.sql")
		require.NoError(t, err)
		var root treeNode
		require.NoError(t, yaml.Unmarshal([]byte(out), &root))
		assert.Equal(t, "file", root.Type)
		assert.True(t, strings.HasPrefix(out, "type: file"))
	})

	t.Run("stats", func(t *testing.T) {
		_, errOut, err := execute(NewParseCommand(), nil, "--stats", "q.sql")
		require.NoError(t, err)
		assert.Contains(t, errOut, "attempts=")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := execute(NewParseCommand(), nil, "-f", "xml", "q.sql")
		assert.ErrorContains(t, err, `unknown parse format "xml"`)
	})
}

func TestParseCommandUnparsable(t *testing.T) {
	setupProject(t, nil)

	out, errOut, err := execute(NewParseCommand(), strings.NewReader("SELECT 1; SELEC x"), "-")
	require.Error(t, err)
	assert.Equal(t, "1 unparsable region(s)", err.Error())
	assert.Contains(t, out, "unparsable")
	assert.Contains(t, errOut, "parse error at line 1")
}
