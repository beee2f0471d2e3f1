package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is returned for responses outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Status     string
	// Message is the backend "detail" field, or the status text when the
	// body carried none.
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %s", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// NotFound reports whether the backend answered 404, which it uses for
// "report not uploaded yet" as well as unknown records.
func (e *HTTPError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// DomainError is returned for 2xx responses whose envelope says
// success=false.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return "backend reported failure"
	}
	return e.Message
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func newHTTPError(resp *http.Response, body []byte) *HTTPError {
	e := &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
	e.Message = detailMessage(body)
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

// detail is either a plain string or a list of validation issues.
func detailMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var issues []validationIssue
	if err := json.Unmarshal(eb.Detail, &issues); err == nil {
		parts := make([]string, 0, len(issues))
		for _, is := range issues {
			if len(is.Loc) > 0 {
				parts = append(parts, fmt.Sprintf("%v: %s", is.Loc[len(is.Loc)-1], is.Msg))
			} else {
				parts = append(parts, is.Msg)
			}
		}
		return strings.Join(parts, "; ")
	}

	return strings.TrimSpace(string(eb.Detail))
}

type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func checkEnvelope(body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// not an object; nothing to check
		return nil
	}
	if env.Success != nil && !*env.Success {
		return &DomainError{Message: env.Message}
	}
	return nil
}
