package version

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/common"
	jqoutput "github.com/legaldesk/casectl/internal/cmd/output/jq"
	cmdtest "github.com/legaldesk/casectl/test/cmd"
)

func execute(t *testing.T, env *cmdtest.Env, args ...string) error {
	t.Helper()
	c := NewVersionCmd()
	jqoutput.AddFlags(c.PersistentFlags())
	c.SetArgs(args)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	return c.ExecuteContext(env.Ctx)
}

func backend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"ok","message":"Сервер работает!"}`)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func Test_VersionCmd(t *testing.T) {
	env := cmdtest.NewEnv(t, "http://127.0.0.1:1", nil)

	require.NoError(t, execute(t, env))

	assert.Equal(t, "test\n", env.Out.String())
}

func Test_VersionCmdShowCommit(t *testing.T) {
	env := cmdtest.NewEnv(t, "http://127.0.0.1:1", nil)

	require.NoError(t, execute(t, env, "--show-commit"))

	assert.Equal(t, "test (none)\n", env.Out.String())
}

func Test_VersionCmdJSONOutput(t *testing.T) {
	env := cmdtest.NewEnv(t, "http://127.0.0.1:1", map[string]any{
		common.OutputConfigPath: "json",
	})

	require.NoError(t, execute(t, env, "--show-commit"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(env.Out.Bytes(), &got))
	assert.Equal(t, map[string]any{"version": "test", "commit": "none", "date": "unknown"}, got)
}

func Test_VersionCmdCheckBackend(t *testing.T) {
	url := backend(t)
	env := cmdtest.NewEnv(t, url, nil)

	require.NoError(t, execute(t, env, "--check-backend"))

	assert.Equal(t, "test\nСервер "+url+": доступен (Сервер работает!)\n", env.Out.String())
}

func Test_VersionCmdBackendDown(t *testing.T) {
	env := cmdtest.NewEnv(t, "http://127.0.0.1:1", map[string]any{
		common.OutputConfigPath: "json",
	})

	err := execute(t, env, "--check-backend")
	var execErr *cmdpkg.ExecutionError
	require.True(t, errors.As(err, &execErr))

	var got Result
	require.NoError(t, json.Unmarshal(env.Out.Bytes(), &got))
	require.NotNil(t, got.Backend)
	assert.False(t, got.Backend.Reachable)
	assert.NotEmpty(t, got.Backend.Message)
}
