// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	original := [3]string{Version, GitCommit, BuildTime}
	t.Cleanup(func() { Version, GitCommit, BuildTime = original[0], original[1], original[2] })

	Version, GitCommit, BuildTime = "1.2.3", "abc1234", "2026-01-01T00:00:00Z"
	if got, want := Info(), "1.2.3 (abc1234, 2026-01-01T00:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
	if full := Full(); !strings.HasPrefix(full, Info()) || !strings.Contains(full, runtime.Version()) {
		t.Errorf("Full() = %q", full)
	}
	if got := UserAgent(); !strings.HasPrefix(got, "pulse/1.2.3 (") {
		t.Errorf("UserAgent() = %q", got)
	}
}
