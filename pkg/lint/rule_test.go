package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlmatch/pkg/segment"
)

// mockRule implements Rule for testing
type mockRule struct {
	id       string
	group    string
	dialects []string
}

func (m *mockRule) ID() string                { return m.id }
func (m *mockRule) Name() string              { return "mock." + m.id }
func (m *mockRule) Group() string             { return m.group }
func (m *mockRule) Description() string       { return "mock rule" }
func (m *mockRule) DefaultSeverity() Severity { return SeverityInfo }
func (m *mockRule) ConfigKeys() []string      { return nil }
func (m *mockRule) Dialects() []string        { return m.dialects }

func (m *mockRule) Check(_ *segment.Segment, _ DialectInfo, _ map[string]any) []Diagnostic {
	return nil
}

// withCleanRegistry swaps in an empty registry for the duration of a test.
func withCleanRegistry(t *testing.T) {
	t.Helper()
	saved := globalRegistry
	globalRegistry = &Registry{rules: make(map[string]Rule)}
	t.Cleanup(func() { globalRegistry = saved })
}

func TestRegistry(t *testing.T) {
	withCleanRegistry(t)

	RegisterRule(&mockRule{id: "ZZ01", group: "z"})
	RegisterRule(&mockRule{id: "AA01", group: "a", dialects: []string{"postgres"}})
	Register(RuleDef{ID: "AA02", Name: "a.two", Group: "a", Severity: SeverityWarning})

	assert.Equal(t, 3, Count())

	var ids []string
	for _, r := range GetAll() {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []string{"AA01", "AA02", "ZZ01"}, ids)

	r, ok := GetByID("aa02")
	require.True(t, ok)
	assert.Equal(t, "a.two", r.Name())

	assert.Len(t, GetByGroup("a"), 2)
	assert.Len(t, GetByDialect("postgres"), 3)
	assert.Len(t, GetByDialect("ansi"), 2)

	Clear()
	assert.Zero(t, Count())
}

func TestGetRuleInfo(t *testing.T) {
	rule := WrapRuleDef(RuleDef{
		ID:          "XX01",
		Name:        "x.one",
		Group:       "x",
		Description: "desc",
		Severity:    SeverityError,
		ConfigKeys:  []string{"opt"},
		Rationale:   "because",
		BadExample:  "bad",
		GoodExample: "good",
	})

	info := GetRuleInfo(rule)
	assert.Equal(t, "XX01", info.ID)
	assert.Equal(t, SeverityError, info.DefaultSeverity)
	assert.Equal(t, []string{"opt"}, info.ConfigKeys)
	assert.Equal(t, "because", info.Rationale)
	assert.Equal(t, "bad", info.BadExample)
	assert.Equal(t, "good", info.GoodExample)
	assert.Equal(t, DefaultDocsBaseURL+"/x#xx01", info.DocURL)

	unwrapped := rule.(*wrappedRuleDef).Unwrap()
	assert.Equal(t, "x.one", unwrapped.Name)
}

func TestSeverity(t *testing.T) {
	for _, s := range []Severity{SeverityError, SeverityWarning, SeverityInfo, SeverityHint} {
		parsed, err := ParseSeverity(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseSeverity("fatal")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Severity(42).String())

	text, err := SeverityWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(text))

	var decoded Severity
	require.NoError(t, decoded.UnmarshalText([]byte("HINT")))
	assert.Equal(t, SeverityHint, decoded)
	assert.Error(t, decoded.UnmarshalText([]byte("loud")))
}

func TestConfig(t *testing.T) {
	c := NewConfig().
		Disable("rf01").
		SetSeverity("RF02", SeverityError).
		SetRuleOptions("rf03", map[string]any{"k": 1})

	assert.True(t, c.IsDisabled("RF01"))
	assert.False(t, c.IsDisabled("RF02"))
	assert.Equal(t, SeverityError, c.GetSeverity("rf02", SeverityWarning))
	assert.Equal(t, SeverityWarning, c.GetSeverity("RF04", SeverityWarning))
	assert.Equal(t, map[string]any{"k": 1}, c.GetRuleOptions("RF03"))

	assert.True(t, c.Reports(SeverityHint))
	c.MinSeverity = SeverityWarning
	assert.True(t, c.Reports(SeverityError))
	assert.False(t, c.Reports(SeverityInfo))

	var nilConfig *Config
	assert.False(t, nilConfig.IsDisabled("RF01"))
	assert.Nil(t, nilConfig.GetRuleOptions("RF01"))
	assert.True(t, nilConfig.Reports(SeverityHint))
}

func TestGetOption(t *testing.T) {
	opts := map[string]any{
		"flag":    true,
		"flagstr": "true",
		"list":    []any{"a", 1, "b"},
		"csv":     "x,y",
		"n":       3,
		"bad":     "maybe",
	}

	assert.True(t, GetOption(opts, "flag", false))
	assert.True(t, GetOption(opts, "flagstr", false))
	assert.False(t, GetOption(opts, "missing", false))
	assert.True(t, GetOption(opts, "bad", true))
	assert.Equal(t, []string{"a", "1", "b"}, GetOption[[]string](opts, "list", nil))
	assert.Equal(t, []string{"x", "y"}, GetOption[[]string](opts, "csv", nil))
	assert.Equal(t, []string{"d"}, GetOption(nil, "list", []string{"d"}))
	assert.Equal(t, 3, GetOption(opts, "n", 0))
	assert.Equal(t, "3", GetOption(opts, "n", "def"))
}

func TestDecodeOptions(t *testing.T) {
	type ruleOptions struct {
		Enabled bool     `mapstructure:"enabled"`
		Names   []string `mapstructure:"names"`
	}
	defaults := []string{"a", "b", "c"}

	tests := []struct {
		name    string
		opts    map[string]any
		want    ruleOptions
		wantErr bool
	}{
		{name: "nil keeps defaults", want: ruleOptions{Names: defaults}},
		{name: "yaml values", opts: map[string]any{"enabled": true, "names": []any{"z"}}, want: ruleOptions{Enabled: true, Names: []string{"z"}}},
		{name: "env strings", opts: map[string]any{"enabled": "1", "names": "p,q"}, want: ruleOptions{Enabled: true, Names: []string{"p", "q"}}},
		{name: "empty list", opts: map[string]any{"names": []any{}}, want: ruleOptions{Names: []string{}}},
		{name: "invalid bool", opts: map[string]any{"enabled": "maybe"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ruleOptions{Names: defaults}
			err := DecodeOptions(tt.opts, &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, []string{"a", "b", "c"}, defaults)
}

func TestDocsBaseURL(t *testing.T) {
	t.Cleanup(ResetDocsBaseURL)

	SetDocsBaseURL("http://localhost:8080/rules/")
	assert.Equal(t, "http://localhost:8080/rules/rf01", BuildDocURL("RF01"))
	ResetDocsBaseURL()
	assert.Equal(t, "https://sqlmatch.dev/docs/rules/rf01", BuildDocURL("RF01"))

	SetDocsBaseURL("")
	assert.Equal(t, DefaultDocsBaseURL, DocsBaseURL)
}

func TestRuleDocURL(t *testing.T) {
	withCleanRegistry(t)
	t.Cleanup(ResetDocsBaseURL)

	tests := []struct {
		name  string
		base  string
		group string
		id    string
		want  string
	}{
		{name: "group anchor", group: "references", id: "RF01", want: "https://sqlmatch.dev/docs/rules/references#rf01"},
		{name: "no group", id: "RF01", want: "https://sqlmatch.dev/docs/rules/rf01"},
		{name: "custom base", base: "http://localhost:3000/docs/", group: "Ambiguous", id: "AM01", want: "http://localhost:3000/docs/ambiguous#am01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDocsBaseURL(tt.base)
			assert.Equal(t, tt.want, RuleDocURL(tt.group, tt.id))
		})
	}

	ResetDocsBaseURL()
	Register(RuleDef{ID: "RG01", Name: "registered.one", Group: "registered"})
	assert.Equal(t, DefaultDocsBaseURL+"/registered#rg01", BuildDocURL("rg01"))
}
