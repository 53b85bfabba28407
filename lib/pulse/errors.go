// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulse

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyContent rejects posts, comments, and replies that are
	// empty after trimming whitespace. No request is sent.
	ErrEmptyContent = errors.New("content must not be empty")

	// ErrPending rejects actions on an optimistic item the server has
	// not acknowledged yet (it has no server ID to address).
	ErrPending = errors.New("still being created")
)

// ValidationError is a request rejected before reaching the network.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}
