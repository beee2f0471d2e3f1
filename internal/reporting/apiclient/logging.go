package apiclient

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legaldesk/casectl/internal/log"
)

const (
	redactedValue = "[REDACTED]"
	maxLoggedBody = 1000

	logTypeRequest  = "http_request"
	logTypeResponse = "http_response"
	logTypeFailure  = "http_failure"
)

// LoggingDoer wraps an HTTP client with debug and trace logging. Debug logs
// carry request metadata; trace logs add bodies.
type LoggingDoer struct {
	wrapped *http.Client
	logger  *slog.Logger
}

// NewLoggingDoer creates a logging client with the given timeout.
func NewLoggingDoer(timeout time.Duration, logger *slog.Logger) *LoggingDoer {
	return NewLoggingDoerWithClient(&http.Client{Timeout: timeout}, logger)
}

// NewLoggingDoerWithClient wraps an existing HTTP client.
func NewLoggingDoerWithClient(client *http.Client, logger *slog.Logger) *LoggingDoer {
	if logger == nil {
		logger = log.Discard()
	}
	return &LoggingDoer{wrapped: client, logger: logger}
}

// Do implements Doer.
func (c *LoggingDoer) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if !c.logger.Enabled(ctx, slog.LevelDebug) {
		return c.wrapped.Do(req)
	}
	trace := c.logger.Enabled(ctx, log.LevelTrace)

	requestID := uuid.NewString()
	attrs := []slog.Attr{
		slog.String("log_type", logTypeRequest),
		slog.String("request_id", requestID),
		slog.String("method", req.Method),
		slog.String("route", req.URL.Path),
		slog.Any("query_params", redactQuery(req.URL.Query())),
		slog.Any("headers", redactHeaders(req.Header)),
	}
	attrs = append(attrs, log.HTTPLogContextAttrs(ctx)...)
	if trace && req.GetBody != nil {
		if body := readRequestBody(req); body != "" {
			attrs = append(attrs, slog.String("request_body", body))
		}
	}
	c.log(ctx, trace, "HTTP request", attrs)

	start := time.Now()
	resp, err := c.wrapped.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.log(ctx, trace, "HTTP request failed", []slog.Attr{
			slog.String("log_type", logTypeFailure),
			slog.String("request_id", requestID),
			slog.String("method", req.Method),
			slog.String("route", req.URL.Path),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		})
		return nil, err
	}

	attrs = []slog.Attr{
		slog.String("log_type", logTypeResponse),
		slog.String("request_id", requestID),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("duration", duration),
		slog.Any("headers", redactHeaders(resp.Header)),
	}
	if resp.ContentLength > 0 {
		attrs = append(attrs, slog.Int64("content_length", resp.ContentLength))
	}
	if trace && isTextual(resp.Header.Get("Content-Type")) {
		if body := peekResponseBody(resp); body != "" {
			attrs = append(attrs, slog.String("response_body", body))
		}
	}
	c.log(ctx, trace, "HTTP response", attrs)

	return resp, nil
}

func (c *LoggingDoer) log(ctx context.Context, trace bool, msg string, attrs []slog.Attr) {
	level := slog.LevelDebug
	if trace {
		level = log.LevelTrace
	}
	c.logger.LogAttrs(ctx, level, msg, attrs...)
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	return key == "authorization" ||
		key == "cookie" ||
		key == "set-cookie" ||
		strings.Contains(key, "token") ||
		strings.Contains(key, "secret") ||
		strings.Contains(key, "password") ||
		strings.Contains(key, "api-key") ||
		strings.Contains(key, "api_key")
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if isSensitive(k) {
			out[k] = redactedValue
			continue
		}
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func redactQuery(q url.Values) map[string]string {
	out := make(map[string]string, len(q))
	for k, v := range q {
		if isSensitive(k) {
			out[k] = redactedValue
			continue
		}
		out[k] = strings.Join(v, ",")
	}
	return out
}

func isTextual(contentType string) bool {
	return contentType == "" ||
		strings.Contains(contentType, "json") ||
		strings.HasPrefix(contentType, "text/")
}

func truncate(body []byte) string {
	if len(body) <= maxLoggedBody {
		return string(body)
	}
	return string(body[:maxLoggedBody]) + "... [truncated]"
}

func readRequestBody(req *http.Request) string {
	if !isTextual(req.Header.Get("Content-Type")) {
		return ""
	}
	rc, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return ""
	}
	return truncate(body)
}

// peekResponseBody reads the body and restores it for the caller.
func peekResponseBody(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return truncate(body)
}
