// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil holds HTTP I/O helpers for the pulse API client.
//
// Response reads are bounded by MaxResponseSize so a misbehaving server
// cannot exhaust memory. Transport failures are classified by
// IsTimeout so callers can report "the server is slow" separately from
// "the server is unreachable".
package netutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// MaxResponseSize bounds JSON API response reads. A feed page or a
// post with its full comment tree is a few hundred kilobytes at most.
const MaxResponseSize int64 = 32 << 20

// ErrResponseTooLarge is returned by ReadResponse when the body
// exceeds MaxResponseSize.
var ErrResponseTooLarge = errors.New("response too large")

// ReadResponse reads a whole response body. A body longer than
// MaxResponseSize is an error rather than a truncated read, since a
// cut-off JSON document would otherwise surface as a confusing decode
// failure.
func ReadResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}
	return data, nil
}

// IsTimeout reports whether err is a deadline or timeout failure from
// the transport, the context, or the http.Client timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netError net.Error
	if errors.As(err, &netError) && netError.Timeout() {
		return true
	}
	// http.Client wraps its own timeout without a typed error on some
	// paths; the message is stable across Go releases.
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}

// JoinPath appends a relative API path to a base URL, keeping exactly
// one slash between them. The base may or may not end in "/" and the
// path may or may not start with one.
func JoinPath(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
