package anonymize

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/common"
	jqoutput "github.com/legaldesk/casectl/internal/cmd/output/jq"
	cmdtest "github.com/legaldesk/casectl/test/cmd"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func execute(t *testing.T, env *cmdtest.Env, args ...string) error {
	t.Helper()
	c, err := NewAnonymizeCmd()
	require.NoError(t, err)
	jqoutput.AddFlags(c.PersistentFlags())
	c.SetArgs(args)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	return c.ExecuteContext(env.Ctx)
}

func TestRunSendsYAMLRulesAsJSON(t *testing.T) {
	var form map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/additional_processing/anonymize", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"report_type":       r.PostForm.Get("report_type"),
			"config_json":       r.PostForm.Get("config_json"),
			"use_default_rules": r.PostForm.Get("use_default_rules"),
		}
		writeJSON(w, map[string]any{"message": "Готово", "rows": 10, "columns": 4, "total_rules_applied": 2})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	env := cmdtest.NewEnv(t, srv.URL, nil)

	rules := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("ФИО:\n  method: mask\n"), 0o600))

	require.NoError(t, execute(t, env, "run", "detailed", "--rules", rules, "--use-defaults=false"))

	assert.Equal(t, "detailed_report", form["report_type"])
	assert.Equal(t, "false", form["use_default_rules"])
	assert.JSONEq(t, `{"ФИО":{"method":"mask"}}`, form["config_json"])
	assert.Equal(t, "Готово\nПравил применено: 2 (10 строк, 4 столбцов)\n", env.Out.String())
}

func TestRunNeedsRulesWithoutDefaults(t *testing.T) {
	env := cmdtest.NewEnv(t, "http://127.0.0.1:0", nil)

	err := execute(t, env, "run", "documents", "--use-defaults=false")

	var cfgErr *cmdpkg.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestReadRules(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(" {\"a\": 1}\n"), 0o600))
	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{"), 0o600))

	got, err := readRules(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, string(got))

	_, err = readRules(badPath)
	assert.Error(t, err)

	got, err = readRules("")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDownloadSavesLocally(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/additional_processing/download_anonymized", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "documents_report", r.URL.Query().Get("report_type"))
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.WriteString(w, "xlsx")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	env := cmdtest.NewEnv(t, srv.URL, map[string]any{
		common.ExportFilenameTemplatePath: `{{ .Report }}`,
	})

	require.NoError(t, execute(t, env, "download", "documents"))

	path := filepath.Join(env.Config.GetString(common.ExportDirConfigPath), "anonymized-documents-report.xlsx")
	assert.FileExists(t, path)
}

func TestRulesText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/additional_processing/get_default_rules", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"rules": map[string]any{"ИНН": "hash"}, "total_rules": 1})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	env := cmdtest.NewEnv(t, srv.URL, nil)

	require.NoError(t, execute(t, env, "rules"))

	assert.Equal(t, "{\n  \"ИНН\": \"hash\"\n}\nПравил: 1\n", env.Out.String())
}

func TestClearConfirms(t *testing.T) {
	cleared := ""
	mux := http.NewServeMux()
	mux.HandleFunc("/api/additional_processing/clear_temp_data", func(w http.ResponseWriter, r *http.Request) {
		cleared = r.URL.Query().Get("report_type")
		writeJSON(w, map[string]any{"cleared_count": 1})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	env := cmdtest.NewEnv(t, srv.URL, nil)

	require.NoError(t, execute(t, env, "clear", "detailed", "--yes"))

	assert.Equal(t, "detailed_report", cleared)
	assert.Equal(t, "Очищено: 1\n", env.Out.String())
}
