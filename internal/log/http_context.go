package log

import (
	"context"
	"log/slog"
	"strings"
)

type httpLogContextKey struct{}

// HTTPLogContext carries command and analysis metadata emitted with HTTP logs.
type HTTPLogContext struct {
	CommandPath string
	CommandVerb string

	Operation    string
	AnalysisRun  string
	AnalysisStep string
}

var HTTPLogContextKey = httpLogContextKey{}

// WithHTTPLogContext merges non-empty fields from update into ctx.
func WithHTTPLogContext(ctx context.Context, update HTTPLogContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	current := HTTPLogContextFromContext(ctx)
	merge(&current.CommandPath, update.CommandPath)
	merge(&current.CommandVerb, update.CommandVerb)
	merge(&current.Operation, update.Operation)
	merge(&current.AnalysisRun, update.AnalysisRun)
	merge(&current.AnalysisStep, update.AnalysisStep)

	return context.WithValue(ctx, HTTPLogContextKey, current)
}

// HTTPLogContextFromContext extracts HTTP logging metadata from ctx.
func HTTPLogContextFromContext(ctx context.Context) HTTPLogContext {
	if ctx == nil {
		return HTTPLogContext{}
	}
	if value, ok := ctx.Value(HTTPLogContextKey).(HTTPLogContext); ok {
		return value
	}
	return HTTPLogContext{}
}

// HTTPLogContextAttrs converts context metadata to slog attributes.
func HTTPLogContextAttrs(ctx context.Context) []slog.Attr {
	meta := HTTPLogContextFromContext(ctx)
	attrs := make([]slog.Attr, 0, 5)
	for _, kv := range [][2]string{
		{"command_path", meta.CommandPath},
		{"command_verb", meta.CommandVerb},
		{"operation", meta.Operation},
		{"analysis_run", meta.AnalysisRun},
		{"analysis_step", meta.AnalysisStep},
	} {
		if v := strings.TrimSpace(kv[1]); v != "" {
			attrs = append(attrs, slog.String(kv[0], v))
		}
	}
	return attrs
}

func merge(target *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*target = trimmed
	}
}
