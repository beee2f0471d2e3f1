package jq

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdcommon "github.com/legaldesk/casectl/internal/cmd/common"
)

type stubConfig struct {
	strings map[string]string
	bools   map[string]bool
}

func (s stubConfig) Save() error                                               { return nil }
func (s stubConfig) GetString(key string) string                               { return s.strings[key] }
func (s stubConfig) GetBool(key string) bool                                   { return s.bools[key] }
func (s stubConfig) GetInt(string) int                                         { return 0 }
func (s stubConfig) GetIntOrElse(_ string, orElse int) int                     { return orElse }
func (s stubConfig) GetStringSlice(string) []string                            { return nil }
func (s stubConfig) SetString(string, string)                                  {}
func (s stubConfig) Set(string, any)                                           {}
func (s stubConfig) Get(string) any                                            { return nil }
func (s stubConfig) BindFlag(string, *pflag.Flag) error                        { return nil }
func (s stubConfig) GetProfile() string                                        { return "default" }
func (s stubConfig) GetPath() string                                           { return "" }
func (s stubConfig) GetDurationOrElse(_ string, d time.Duration) time.Duration { return d }

func newCommand() *cobra.Command {
	c := &cobra.Command{Use: "rainbow"}
	AddFlags(c.Flags())
	return c
}

func TestResolveSettingsDefaults(t *testing.T) {
	s, err := ResolveSettings(newCommand(), nil)
	require.NoError(t, err)
	assert.False(t, s.Active())
	assert.Equal(t, cmdcommon.ColorModeAuto, s.ColorMode)
	assert.Equal(t, DefaultChromaTheme, s.Theme)
}

func TestResolveSettingsBareFlagIsIdentity(t *testing.T) {
	c := newCommand()
	require.NoError(t, c.Flags().Set(FlagName, ""))
	s, err := ResolveSettings(c, nil)
	require.NoError(t, err)
	assert.Equal(t, ".", s.Filter)
}

func TestResolveSettingsWithoutFlagIgnoresConfig(t *testing.T) {
	cfg := stubConfig{strings: map[string]string{ExpressionConfig: ".data"}}
	s, err := ResolveSettings(&cobra.Command{Use: "plain"}, cfg)
	require.NoError(t, err)
	assert.False(t, s.Active())
}

func TestResolveSettingsFromConfig(t *testing.T) {
	cfg := stubConfig{
		strings: map[string]string{
			ExpressionConfig: ".totalCases",
			ColorConfigPath:  "never",
			ThemeConfigPath:  "dracula",
		},
		bools: map[string]bool{RawConfigPath: true},
	}
	s, err := ResolveSettings(newCommand(), cfg)
	require.NoError(t, err)
	assert.Equal(t, ".totalCases", s.Filter)
	assert.Equal(t, cmdcommon.ColorModeNever, s.ColorMode)
	assert.Equal(t, "dracula", s.Theme)
	assert.True(t, s.Raw)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(cmdcommon.TEXT, Settings{}))
	assert.NoError(t, Validate(cmdcommon.YAML, Settings{Filter: "."}))
	assert.Error(t, Validate(cmdcommon.TEXT, Settings{Filter: "."}))
	assert.Error(t, Validate(cmdcommon.JSON, Settings{Raw: true}))
	assert.Error(t, Validate(cmdcommon.YAML, Settings{Filter: ".", Raw: true}))
}

func TestApplyReturnsFilteredValue(t *testing.T) {
	payload := map[string]any{"data": []int{1, 2, 3}, "totalCases": 6}
	var out bytes.Buffer
	got, handled, err := Apply(payload, cmdcommon.YAML, Settings{Filter: ".data[1:]"}, &out)
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, []any{float64(2), float64(3)}, got)
	assert.Empty(t, out.String())
}

func TestApplyMultipleResultsBecomeList(t *testing.T) {
	payload := map[string]any{"data": []string{"a", "b"}}
	got, _, err := Apply(payload, cmdcommon.JSON, Settings{Filter: ".data[]", ColorMode: cmdcommon.ColorModeNever}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)
}

func TestApplyRawWritesLines(t *testing.T) {
	payload := []map[string]any{{"caseCode": "A-1"}, {"caseCode": "A-2"}}
	var out bytes.Buffer
	_, handled, err := Apply(payload, cmdcommon.JSON, Settings{Filter: ".[].caseCode", Raw: true}, &out)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "A-1\nA-2\n", out.String())
}

func TestApplyColorAlwaysWritesHighlighted(t *testing.T) {
	var out bytes.Buffer
	_, handled, err := Apply(map[string]any{"a": 1}, cmdcommon.JSON,
		Settings{Filter: ".", ColorMode: cmdcommon.ColorModeAlways, Theme: "monokai"}, &out)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Contains(t, out.String(), "\x1b[")
}

func TestEvaluateErrors(t *testing.T) {
	_, err := Evaluate([]byte(`{}`), ".[")
	assert.ErrorContains(t, err, "invalid jq expression")

	_, err = Evaluate(nil, ".")
	assert.Error(t, err)

	_, err = Evaluate([]byte(`{"a":1}`), ".a | error")
	assert.ErrorContains(t, err, "jq filter failed")
}
