// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads pulse client configuration.
//
// Configuration comes from a single file named by the PULSE_CONFIG
// environment variable (via [Load]) or a --config flag (via
// [LoadFile]). Files ending in .json or .jsonc are parsed as JSON with
// comments and trailing commas allowed; anything else is YAML. There is
// no automatic discovery: without a file, callers start from
// [ForEnvironment].
//
// The file may contain development and production sections that
// override base values when the selected environment matches. The
// production environment points at the hosted API unless its section
// says otherwise.
//
// String fields support ${VAR} and ${VAR:-default} expansion after
// loading, so a file can defer the API URL to the shell:
//
//	api:
//	  base_url: ${PULSE_API_URL:-http://localhost:8000/api/}
//
// No other environment variables override config values.
package config
