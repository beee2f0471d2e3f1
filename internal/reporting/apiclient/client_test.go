package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/legaldesk/casectl/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)
	return c
}

func TestNewValidatesBaseURL(t *testing.T) {
	_, err := New("", 0)
	require.Error(t, err)

	_, err = New("ftp://example.com", 0)
	require.Error(t, err)

	c, err := New("http://localhost:8000/", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/", c.BaseURL())
}

func TestGetJSONEncodesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/rainbow/cases-by-color", r.URL.Path)
		assert.Equal(t, "Синий", r.URL.Query().Get("color"))
		assert.False(t, r.URL.Query().Has("unused"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, `{"success":true,"count":2}`)
	})

	query := struct {
		Color  string `form:"color"`
		Unused string `form:"unused,omitempty"`
	}{Color: "Синий"}

	var out struct {
		Count int `json:"count"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "/api/rainbow/cases-by-color", query, &out))
	assert.Equal(t, 2, out.Count)
}

func TestPathSegmentsStayEscaped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/case/A%2F17", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{}`)
	})
	require.NoError(t, c.GetJSON(context.Background(), "/api/case/"+PathEscape("A/17"), nil, nil))
}

func TestHTTPErrorCarriesDetail(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{
			name:    "string detail",
			status:  http.StatusNotFound,
			body:    `{"detail":"Текущий детальный отчет не загружен"}`,
			message: "Текущий детальный отчет не загружен",
		},
		{
			name:    "validation detail",
			status:  http.StatusUnprocessableEntity,
			body:    `{"detail":[{"loc":["query","color"],"msg":"field required"}]}`,
			message: "color: field required",
		},
		{
			name:    "no body",
			status:  http.StatusBadGateway,
			message: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			err := c.GetJSON(context.Background(), "/x", nil, nil)
			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}
}

func TestDomainError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"data":[],"message":"Данные не загружены"}`)
	})
	err := c.PostJSON(context.Background(), "/api/filter/apply", nil, map[string]string{"gosb": "1"}, nil)
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Данные не загружены", domainErr.Message)
}

func TestPostJSONAndForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Иванов", body["responsibleExecutor"])
		case "/form":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "detailed_report", r.PostForm.Get("report_type"))
			assert.Equal(t, "true", r.PostForm.Get("use_default_rules"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	ctx := context.Background()
	require.NoError(t, c.PostJSON(ctx, "/json", nil, map[string]string{"responsibleExecutor": "Иванов"}, nil))

	fields := struct {
		ReportType      string `form:"report_type"`
		UseDefaultRules bool   `form:"use_default_rules"`
	}{ReportType: "detailed_report", UseDefaultRules: true}
	require.NoError(t, c.PostForm(ctx, "/form", fields, nil))
}

func TestUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detailed.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("xlsx-bytes"), 0o600))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "current_detailed_report", r.URL.Query().Get("file_type"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "detailed.xlsx", hdr.Filename)
		assert.Equal(t, "xlsx-bytes", string(data))
		assert.Equal(t, "x", r.FormValue("extra"))
		_, _ = io.WriteString(w, `{"message":"ok","filename":"detailed.xlsx"}`)
	})

	var out struct {
		Filename string `json:"filename"`
	}
	err := c.Upload(context.Background(), "/upload-file",
		map[string]string{"file_type": "current_detailed_report"},
		map[string]string{"extra": "x"}, "file", path, &out)
	require.NoError(t, err)
	assert.Equal(t, "detailed.xlsx", out.Filename)
}

func TestDownload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="server.xlsx"`)
		_, _ = w.Write([]byte{0x50, 0x4b, 0x03, 0x04})
	})
	blob, err := c.Download(context.Background(), "/api/save/tasks", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x50, 0x4b, 0x03, 0x04}, blob.Data)
	assert.Equal(t, "server.xlsx", blob.Filename)
}

func TestRawMessageOutput(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":[1,2]}`)
	})
	var raw json.RawMessage
	require.NoError(t, c.GetJSON(context.Background(), "/x", nil, &raw))
	assert.JSONEq(t, `{"success":true,"data":[1,2]}`, string(raw))
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, 50*time.Millisecond)
	require.NoError(t, err)
	err = c.GetJSON(context.Background(), "/slow", nil, nil)
	require.Error(t, err)
	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
}

func TestLoggingDoer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: log.LevelTrace}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Set-Cookie", "session=abc")
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, time.Second, WithLogger(logger))
	require.NoError(t, err)

	ctx := log.WithHTTPLogContext(context.Background(), log.HTTPLogContext{AnalysisStep: "rainbow"})
	var out map[string]any
	require.NoError(t, c.GetJSON(ctx, "/api/rainbow/analyze", map[string]string{"token": "s3cret"}, &out))
	assert.Equal(t, true, out["success"])

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	require.Len(t, records, 2)

	req, resp := records[0], records[1]
	assert.Equal(t, logTypeRequest, req["log_type"])
	assert.Equal(t, "/api/rainbow/analyze", req["route"])
	assert.Equal(t, "rainbow", req["analysis_step"])
	assert.Equal(t, redactedValue, req["query_params"].(map[string]any)["token"])

	assert.Equal(t, logTypeResponse, resp["log_type"])
	assert.Equal(t, req["request_id"], resp["request_id"])
	assert.Equal(t, `{"success":true}`, resp["response_body"])
	assert.Equal(t, redactedValue, resp["headers"].(map[string]any)["Set-Cookie"])
}
