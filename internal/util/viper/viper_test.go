package viper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViperEnvKeyReplacer(t *testing.T) {
	t.Setenv("CASECTL_LOG_LEVEL", "debug")
	t.Setenv("CASECTL_API_BASE_URL", "http://reports.local:8000")

	v := NewViper("nonexistent.yaml")

	assert.Equal(t, "debug", v.GetString("log-level"))
	assert.Equal(t, "http://reports.local:8000", v.GetString("api.base-url"))
}

func TestConfigureEnvVarsProfilePrefix(t *testing.T) {
	t.Setenv("CASECTL_TEAM_A_CACHE_TTL", "5m")

	v := NewViper("nonexistent.yaml")
	v.Set("team-a", map[string]any{})

	profile := v.Sub("team-a")
	require.NotNil(t, profile)
	ConfigureEnvVars(profile, "CASECTL")

	assert.Equal(t, "5m", profile.GetString("cache.ttl"))
}

func TestInitializeDefaultViperWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	v, err := InitializeDefaultViper(map[string]any{
		"default": map[string]any{"output": "text"},
	}, path)
	require.NoError(t, err)
	assert.Equal(t, "text", v.GetString("default.output"))

	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := NewViperE(path)
	require.NoError(t, err)
	assert.Equal(t, "text", reloaded.GetString("default.output"))
}

func TestNewViperEMissingFile(t *testing.T) {
	_, err := NewViperE(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
