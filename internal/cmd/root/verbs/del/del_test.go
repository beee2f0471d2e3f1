package del

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/common"
	jqoutput "github.com/legaldesk/casectl/internal/cmd/output/jq"
	"github.com/legaldesk/casectl/internal/store"
	cmdtest "github.com/legaldesk/casectl/test/cmd"
)

type backend struct {
	url     string
	removed []string
	resets  int
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/remove-file", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		ft := r.URL.Query().Get("file_type")
		b.removed = append(b.removed, ft)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"file_type": ft, "removed": true, "message": "ok"})
	})
	mux.HandleFunc("/reset-analysis", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		b.resets++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"cleared_data": []string{"rainbow", "tasks"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	b.url = srv.URL
	return b
}

func execute(t *testing.T, env *cmdtest.Env, args ...string) error {
	t.Helper()
	c, err := NewDeleteCmd()
	require.NoError(t, err)
	jqoutput.AddFlags(c.PersistentFlags())
	c.SetArgs(args)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	return c.ExecuteContext(env.Ctx)
}

func TestDeleteFile(t *testing.T) {
	b := newBackend(t)
	env := cmdtest.NewEnv(t, b.url, nil)

	require.NoError(t, execute(t, env, "file", "documents", "--yes"))

	assert.Equal(t, []string{"documents_report"}, b.removed)
	assert.Equal(t, "Removed documents_report\n", env.Out.String())
}

func TestDeleteFileUnknownType(t *testing.T) {
	b := newBackend(t)
	env := cmdtest.NewEnv(t, b.url, nil)

	err := execute(t, env, "file", "contracts", "--yes")

	var cfgErr *cmdpkg.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, b.removed)
}

func TestDeleteAnalysisConfirmation(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		b := newBackend(t)
		env := cmdtest.NewEnv(t, b.url, nil)
		env.In.WriteString("no\n")

		err := execute(t, env, "analysis")

		var execErr *cmdpkg.ExecutionError
		require.ErrorAs(t, err, &execErr)
		assert.Equal(t, "operation cancelled", execErr.Msg)
		assert.Zero(t, b.resets)
		assert.Contains(t, env.Out.String(), "reset the analysis results")
	})

	t.Run("accepted", func(t *testing.T) {
		b := newBackend(t)
		env := cmdtest.NewEnv(t, b.url, nil)
		env.In.WriteString("yes\n")

		require.NoError(t, execute(t, env, "analysis"))

		assert.Equal(t, 1, b.resets)
		assert.Contains(t, env.Out.String(), "Cleared: rainbow, tasks")
	})
}

func TestDeleteCache(t *testing.T) {
	env := cmdtest.NewEnv(t, newBackend(t).url, map[string]any{
		common.OutputConfigPath: "json",
	})
	path := env.Config.GetString(common.StoragePathConfigPath)

	st, err := store.Open(path)
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, st.SaveRun(ctx, store.Run{ID: "r1", StartedAt: now}))
	require.NoError(t, st.SaveStep(ctx, store.Step{RunID: "r1", Step: "rainbow", OK: true, Payload: []byte(`{}`), RecordedAt: now}))
	require.NoError(t, st.Close())

	require.NoError(t, execute(t, env, "cache", "-y"))

	var res CacheResult
	require.NoError(t, json.Unmarshal(env.Out.Bytes(), &res))
	assert.Equal(t, CacheResult{Store: path, Runs: 1, Steps: 1}, res)

	st, err = store.Open(path)
	require.NoError(t, err)
	defer st.Close()
	_, ok, err := st.LatestRun(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
