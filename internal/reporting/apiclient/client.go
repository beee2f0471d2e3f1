// Package apiclient is the HTTP layer under the reporting services: it
// resolves endpoints against the configured base URL, encodes queries and
// bodies, and turns backend failures into typed errors.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ajg/form"
	"github.com/legaldesk/casectl/internal/log"
)

// DefaultTimeout bounds every request. A hung backend surfaces as an error.
const DefaultTimeout = 60 * time.Second

// Doer abstracts the ability to execute HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the reporting backend.
type Client struct {
	baseURL *url.URL
	doer    Doer
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithDoer replaces the default logging HTTP client.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New builds a client for baseURL. A zero timeout means DefaultTimeout.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{baseURL: u, logger: log.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = NewLoggingDoer(timeout, c.logger)
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// GetJSON issues a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query any, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, "", out)
}

// PostJSON sends body as JSON and decodes the response into out. A nil body
// sends an empty request.
func (c *Client) PostJSON(ctx context.Context, path string, query any, body any, out any) error {
	if body == nil {
		return c.doJSON(ctx, http.MethodPost, path, query, nil, "", out)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, path, query, data, "application/json", out)
}

// PostForm sends fields url-encoded. fields is a struct with form tags or
// url.Values.
func (c *Client) PostForm(ctx context.Context, path string, fields any, out any) error {
	values, err := encodeValues(fields)
	if err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, path, nil,
		[]byte(values.Encode()), "application/x-www-form-urlencoded", out)
}

// Delete issues a DELETE and decodes the JSON response into out.
func (c *Client) Delete(ctx context.Context, path string, query any, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, query, nil, "", out)
}

// Upload posts the file at filePath as multipart field fileField, along with
// extra form fields.
func (c *Client) Upload(
	ctx context.Context,
	path string,
	query any,
	fields map[string]string,
	fileField string,
	filePath string,
	out any,
) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	part, err := mw.CreateFormFile(fileField, filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	return c.doJSON(ctx, http.MethodPost, path, query, buf.Bytes(), mw.FormDataContentType(), out)
}

// Blob is a binary download.
type Blob struct {
	Data        []byte
	ContentType string
	// Filename is what the server suggested. Exports are saved under a
	// locally generated name; this is informational only.
	Filename string
}

// Download issues a GET and returns the raw body.
func (c *Client) Download(ctx context.Context, path string, query any) (*Blob, error) {
	resp, body, err := c.do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "json") {
		if err := checkEnvelope(body); err != nil {
			return nil, err
		}
	}
	blob := &Blob{
		Data:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			blob.Filename = params["filename"]
		}
	}
	return blob, nil
}

func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	query any,
	body []byte,
	contentType string,
	out any,
) error {
	_, data, err := c.do(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	if err := checkEnvelope(data); err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query any,
	body []byte,
	contentType string,
) (*http.Response, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint, err := c.resolve(path, query)
	if err != nil {
		return nil, nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, newHTTPError(resp, data)
	}
	return resp, data, nil
}

func (c *Client) resolve(path string, query any) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("endpoint path cannot be empty")
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint path %q: %w", path, err)
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.TrimLeft(ref.EscapedPath(), "/")

	values, err := encodeValues(query)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// encodeValues accepts nil, url.Values or a struct with form tags.
func encodeValues(v any) (url.Values, error) {
	switch t := v.(type) {
	case nil:
		return url.Values{}, nil
	case url.Values:
		return t, nil
	case map[string]string:
		out := url.Values{}
		for k, s := range t {
			out.Set(k, s)
		}
		return out, nil
	default:
		return form.EncodeToValues(v)
	}
}

// PathEscape escapes a single path segment such as a case code.
func PathEscape(segment string) string {
	return url.PathEscape(segment)
}
