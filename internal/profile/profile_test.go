package profile

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() Manager {
	v := viper.New()
	v.Set("default", map[string]any{
		"output": "text",
		"api":    map[string]any{"base-url": "http://reports.local:8000", "timeout": "90s"},
	})
	v.Set("archive", map[string]any{
		"storage": map[string]any{"path": "/tmp/archive.db"},
	})
	return NewManager(v)
}

func TestGetProfilesSorted(t *testing.T) {
	assert.Equal(t, []string{"archive", "default"}, newManager().GetProfiles())
}

func TestDescribe(t *testing.T) {
	m := newManager()

	s, err := m.Describe("default")
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Name:    "default",
		BaseURL: "http://reports.local:8000",
		Timeout: "90s",
		Output:  "text",
	}, s)

	s, err = m.Describe("archive")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", s.BaseURL)
	assert.Equal(t, "60s", s.Timeout)
	assert.Equal(t, "/tmp/archive.db", s.StoragePath)

	_, err = m.Describe("missing")
	assert.Error(t, err)
}
