// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the pulse binaries:
// reporting the error that ended run() and choosing the exit status.
//
// This is the one place outside CLI output code that writes to stderr
// directly, since the structured logger may not exist yet.
package process
