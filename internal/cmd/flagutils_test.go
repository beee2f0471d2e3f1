package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagEnum(t *testing.T) {
	e := NewEnum([]string{"json", "yaml", "text"}, "text")
	assert.Equal(t, "text", e.String())

	require.NoError(t, e.Set(" JSON "))
	assert.Equal(t, "json", e.String())

	err := e.Set("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json|yaml|text")
	assert.Equal(t, "json", e.String())
}
