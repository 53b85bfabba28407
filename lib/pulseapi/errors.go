// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// NetworkError means no HTTP response was received.
type NetworkError struct {
	Method string
	Path   string

	// Timeout is true when the failure was the request deadline.
	Timeout bool

	Err error
}

func (err *NetworkError) Error() string {
	if err.Timeout {
		return fmt.Sprintf("pulseapi: %s %s: timed out: %v", err.Method, err.Path, err.Err)
	}
	return fmt.Sprintf("pulseapi: %s %s: %v", err.Method, err.Path, err.Err)
}

func (err *NetworkError) Unwrap() error { return err.Err }

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	StatusCode int

	// Message is the server's top-level error description: the
	// "error" or "detail" field, or the raw body when neither is
	// present.
	Message string

	// Fields holds per-field validation messages from 400 responses,
	// for example {"content": ["This field may not be blank."]}.
	Fields map[string][]string
}

func (err *HTTPError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "pulseapi: HTTP %d", err.StatusCode)
	if err.Message != "" {
		fmt.Fprintf(&builder, ": %s", err.Message)
	} else if text := http.StatusText(err.StatusCode); text != "" {
		fmt.Fprintf(&builder, ": %s", text)
	}
	names := make([]string, 0, len(err.Fields))
	for name := range err.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&builder, "; %s: %s", name, strings.Join(err.Fields[name], " "))
	}
	return builder.String()
}

// parseHTTPError builds an HTTPError from a status code and body. The
// body is whatever the server sent: a {"error": ...} or {"detail": ...}
// object, a field-error object, or plain text (HTML error pages from a
// proxy included).
func parseHTTPError(statusCode int, body []byte) *HTTPError {
	httpError := &HTTPError{StatusCode: statusCode}

	var wire map[string]json.RawMessage
	if json.Unmarshal(body, &wire) != nil {
		httpError.Message = strings.TrimSpace(string(body))
		return httpError
	}

	for _, name := range []string{"error", "detail"} {
		raw, ok := wire[name]
		if !ok {
			continue
		}
		var message string
		if json.Unmarshal(raw, &message) == nil {
			httpError.Message = message
			delete(wire, name)
			break
		}
	}

	for name, raw := range wire {
		var messages []string
		if json.Unmarshal(raw, &messages) == nil {
			if httpError.Fields == nil {
				httpError.Fields = make(map[string][]string)
			}
			httpError.Fields[name] = messages
		}
	}
	return httpError
}

func hasStatus(err error, statusCode int) bool {
	var httpError *HTTPError
	return errors.As(err, &httpError) && httpError.StatusCode == statusCode
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsUnauthorized reports whether err is a 401 or 403 response: the
// credentials are missing, wrong, or insufficient.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

// IsServerError reports whether err is a 5xx response.
func IsServerError(err error) bool {
	var httpError *HTTPError
	return errors.As(err, &httpError) && httpError.StatusCode >= 500
}

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool {
	var networkError *NetworkError
	return errors.As(err, &networkError)
}
