package upload

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	jqoutput "github.com/legaldesk/casectl/internal/cmd/output/jq"
	cmdtest "github.com/legaldesk/casectl/test/cmd"
)

func workbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "detailed.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Код дела"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func newBackend(t *testing.T, calls *int) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/upload-file", func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, "current_detailed_report", r.URL.Query().Get("file_type"))
		file, header, err := r.FormFile("file")
		if assert.NoError(t, err) {
			defer file.Close()
			assert.Equal(t, "detailed.xlsx", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":   "Файл загружен",
			"filename":  header.Filename,
			"file_type": "current_detailed_report",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func execute(t *testing.T, env *cmdtest.Env, args ...string) error {
	t.Helper()
	c, err := NewUploadCmd()
	require.NoError(t, err)
	jqoutput.AddFlags(c.PersistentFlags())
	c.SetArgs(args)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	return c.ExecuteContext(env.Ctx)
}

func TestUpload(t *testing.T) {
	calls := 0
	env := cmdtest.NewEnv(t, newBackend(t, &calls), nil)

	require.NoError(t, execute(t, env, "detailed", workbook(t)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "Файл загружен: detailed.xlsx (current_detailed_report)\n", env.Out.String())
}

func TestUploadRejectsBeforeSending(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "report.csv")
	require.NoError(t, os.WriteFile(csv, []byte("a,b"), 0o600))
	broken := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(broken, []byte("not a zip"), 0o600))

	tests := []struct {
		name      string
		args      []string
		configErr bool
	}{
		{name: "unknown type", args: []string{"contracts", csv}, configErr: true},
		{name: "not excel", args: []string{"detailed", csv}, configErr: true},
		{name: "missing file", args: []string{"detailed", filepath.Join(dir, "nope.xlsx")}, configErr: true},
		{name: "corrupt workbook", args: []string{"detailed", broken}},
		{name: "missing path", args: []string{"detailed"}, configErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			env := cmdtest.NewEnv(t, newBackend(t, &calls), nil)

			err := execute(t, env, tt.args...)

			require.Error(t, err)
			var cfgErr *cmdpkg.ConfigurationError
			assert.Equal(t, tt.configErr, errors.As(err, &cfgErr))
			assert.Zero(t, calls)
		})
	}
}
