package profile

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaldesk/casectl/internal/cmd/common"
	jqoutput "github.com/legaldesk/casectl/internal/cmd/output/jq"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs"
	"github.com/legaldesk/casectl/internal/profile"
	cmdtest "github.com/legaldesk/casectl/test/cmd"
)

func TestGetProfiles(t *testing.T) {
	env := cmdtest.NewEnv(t, "http://127.0.0.1:1", map[string]any{
		common.OutputConfigPath: "json",
	})
	v := viper.New()
	v.Set("default", map[string]any{"api": map[string]any{"base-url": "http://reports.local:8000"}})
	v.Set("archive", map[string]any{"output": "yaml"})

	ctx := context.WithValue(env.Ctx, profile.ProfileManagerKey, profile.NewManager(v))
	ctx = context.WithValue(ctx, verbs.Verb, verbs.Get)

	c := NewProfileCmd()
	jqoutput.AddFlags(c.PersistentFlags())
	c.SetArgs(nil)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	require.NoError(t, c.ExecuteContext(ctx))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(env.Out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "archive", got[0]["name"])
	assert.Equal(t, false, got[0]["active"])
	assert.Equal(t, "default", got[1]["name"])
	assert.Equal(t, true, got[1]["active"])
	assert.Equal(t, "http://reports.local:8000", got[1]["baseUrl"])
}

func TestProfileRequiresGetVerb(t *testing.T) {
	env := cmdtest.NewEnv(t, "http://127.0.0.1:1", nil)
	ctx := context.WithValue(env.Ctx, verbs.Verb, verbs.Delete)

	c := NewProfileCmd()
	jqoutput.AddFlags(c.PersistentFlags())
	c.SetArgs(nil)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	assert.Error(t, c.ExecuteContext(ctx))
}
