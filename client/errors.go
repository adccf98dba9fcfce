package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const maxErrorBody = 512

// APIError is a non-2xx response that the pipeline did not recover from.
// Detail and Fields are parsed from the server's error payload.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
	Fields     map[string][]string
	Body       string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "; %s: %s", k, strings.Join(e.Fields[k], " "))
		}
	}
	if e.Detail == "" && len(e.Fields) == 0 && e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	return b.String()
}

// StatusOf returns the HTTP status of an *APIError in err's chain, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// IsValidation reports whether the server rejected the payload.
func IsValidation(err error) bool { return StatusOf(err) == http.StatusBadRequest }

func newAPIError(method, path string, resp *Response) *APIError {
	if method == "" {
		method = http.MethodGet
	}
	apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
	parseErrorBody(resp.Body, apiErr)
	return apiErr
}

// parseErrorBody understands the usual REST framework shapes:
// {"detail": "..."}, {"error": "..."} and {"field": ["msg", ...]}.
func parseErrorBody(body []byte, apiErr *APIError) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Body = truncate(strings.TrimSpace(string(body)), maxErrorBody)
		return
	}
	for key, raw := range payload {
		msgs := messages(raw)
		if len(msgs) == 0 {
			continue
		}
		switch key {
		case "detail", "error", "message":
			if apiErr.Detail == "" {
				apiErr.Detail = strings.Join(msgs, " ")
			}
		default:
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = msgs
		}
	}
	if apiErr.Detail == "" && len(apiErr.Fields) == 0 {
		apiErr.Body = truncate(string(body), maxErrorBody)
	}
}

func messages(raw json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, v := range list {
			out = append(out, fmt.Sprint(v))
		}
		return out
	}
	var nested map[string]any
	if err := json.Unmarshal(raw, &nested); err == nil {
		return []string{strings.TrimSpace(string(raw))}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
