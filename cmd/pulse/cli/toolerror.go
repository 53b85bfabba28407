// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/pulse/lib/pulse"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
)

// ErrorCategory classifies command failures so scripts can tell bad
// input from a flaky network without parsing messages.
type ErrorCategory string

const (
	// CategoryValidation: the input was rejected before any request.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: the post or comment does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden: the command needs a login, or the login failed.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryTransient: network failure, timeout, or 5xx. Retrying may
	// succeed.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: anything else.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized command error. It wraps the underlying
// error so errors.Is and errors.As still see the full chain.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode maps the category to the process exit status.
func (e *ToolError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryNotFound:
		return 3
	case CategoryForbidden:
		return 4
	case CategoryTransient:
		return 5
	default:
		return 1
	}
}

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// FromAPIError categorizes an error from a Store or API call, prefixing
// it with action ("liking post 7"). Errors that are already ToolErrors
// pass through unchanged.
func FromAPIError(action string, err error) error {
	if err == nil {
		return nil
	}
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return err
	}
	category := CategoryInternal
	switch {
	case pulse.IsValidation(err):
		category = CategoryValidation
	case pulseapi.IsNotFound(err):
		category = CategoryNotFound
	case pulseapi.IsUnauthorized(err):
		category = CategoryForbidden
	case pulseapi.IsNetwork(err), pulseapi.IsServerError(err):
		category = CategoryTransient
	}
	return &ToolError{Category: category, Err: fmt.Errorf("%s: %w", action, err)}
}
