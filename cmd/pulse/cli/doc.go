// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the pulse CLI.
//
// The central type is [Command]: a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. Commands are assembled into a tree in cmd/pulse/commands
// and dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and help output with examples. Unknown commands
// and flags get an edit-distance suggestion.
//
// Parameter structs declare their flags with struct tags and are bound
// by [FlagsFromParams]. [ConnectionParams] is the shared set of flags
// that locate the backend and log in; [ConnectionParams.Connect] turns
// them into a ready [pulse.Store].
//
// Errors returned from commands should be [ToolError] values so main
// can map them to exit codes. [FromAPIError] categorizes errors coming
// back from the Pulse API.
package cli
