// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package query

import "time"

// Status is the fetch status of an entry.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (status Status) String() string {
	switch status {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of an entry, safe to read without
// holding any lock. Value is nil until the first successful fetch or
// local write.
type State struct {
	Key       Key
	Value     any
	HasValue  bool
	Status    Status
	Err       error
	Stale     bool
	Fetching  bool
	Version   uint64
	UpdatedAt time.Time
}

// Loading reports whether there is nothing to show yet and a fetch is
// running or about to run.
func (state State) Loading() bool {
	return !state.HasValue && (state.Status == StatusLoading || state.Status == StatusIdle)
}
