package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDualHandlerMirrorsErrorsToSecondary(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	EnableErrorMirroring()

	var primaryBuf, secondaryBuf bytes.Buffer
	primary := slog.NewTextHandler(&primaryBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(NewDualHandler(primary, NewFriendlyErrorHandler(&secondaryBuf)))

	logger.Error("boom", slog.String("foo", "bar"))
	logger.Info("still going")

	assert.Contains(t, primaryBuf.String(), "boom")
	assert.Contains(t, primaryBuf.String(), "still going")
	assert.Equal(t, "Error: boom\n  foo: bar\n", secondaryBuf.String())
}

func TestDualHandlerCanDisableMirroring(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	DisableErrorMirroring()

	var primaryBuf, secondaryBuf bytes.Buffer
	primary := slog.NewTextHandler(&primaryBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(NewDualHandler(primary, NewFriendlyErrorHandler(&secondaryBuf)))

	logger.Error("boom")

	assert.Contains(t, primaryBuf.String(), "boom")
	assert.Empty(t, secondaryBuf.String())
}

func TestDualHandlerWithoutPrimary(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	EnableErrorMirroring()

	var buf bytes.Buffer
	logger := slog.New(NewDualHandler(nil, NewFriendlyErrorHandler(&buf))).With("step", "rainbow")

	logger.Info("ignored")
	logger.Error("", "error", errors.New("backend unavailable"))

	assert.Equal(t, "Error: backend unavailable\n  step: rainbow\n", buf.String())
}

func TestFriendlyHandlerOrdersLeadingKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewFriendlyErrorHandler(&buf))

	logger.Error("upload failed",
		"zeta", "last",
		"status", 400,
		"suggestion", "use an .xlsx file",
		"alpha", "first\nsecond line")

	want := "Error: upload failed\n" +
		"  suggestion: use an .xlsx file\n" +
		"  status: 400\n" +
		"  alpha: first\n" +
		"    second line\n" +
		"  zeta: last\n"
	assert.Equal(t, want, buf.String())
}

func TestNewWritesJSONFile(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	path := filepath.Join(t.TempDir(), "logs", "casectl.log")
	var console bytes.Buffer

	logger, closer, err := New(Options{Level: "trace", FilePath: path, Console: &console})
	require.NoError(t, err)

	logger.Log(context.Background(), LevelTrace, "request", "method", "GET")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	assert.Equal(t, "TRACE", rec["level"])
	assert.Equal(t, "GET", rec["method"])
	assert.Empty(t, console.String())
}

func TestConfigLevelStringToSlogLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ConfigLevelStringToSlogLevel("TRACE"))
	assert.Equal(t, slog.LevelWarn, ConfigLevelStringToSlogLevel(" warn "))
	assert.Equal(t, slog.LevelError, ConfigLevelStringToSlogLevel("bogus"))
}

func TestHTTPLogContextMerge(t *testing.T) {
	ctx := WithHTTPLogContext(context.Background(), HTTPLogContext{CommandPath: "casectl analyze"})
	ctx = WithHTTPLogContext(ctx, HTTPLogContext{AnalysisStep: "rainbow", CommandPath: " "})

	attrs := HTTPLogContextAttrs(ctx)
	require.Len(t, attrs, 2)
	assert.Equal(t, "command_path", attrs[0].Key)
	assert.Equal(t, "casectl analyze", attrs[0].Value.String())
	assert.Equal(t, "analysis_step", attrs[1].Key)
}
