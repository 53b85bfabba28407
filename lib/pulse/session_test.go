// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulse

import (
	"context"
	"strings"
	"testing"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/pulsetest"
	"github.com/bureau-foundation/pulse/lib/query"
)

func TestLogin(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	store := newTestStore(t, server, "")
	if _, err := store.Feed(context.Background()); err != nil {
		t.Fatalf("Feed: %v", err)
	}

	if _, err := store.Login(context.Background(), pulseapi.Credentials{Username: "", Password: "x"}); !IsValidation(err) {
		t.Errorf("empty username err = %v, want validation", err)
	}

	_, err := store.Login(context.Background(), pulseapi.Credentials{Username: "user1", Password: "wrong"})
	if !pulseapi.IsUnauthorized(err) {
		t.Fatalf("wrong password err = %v, want 401", err)
	}
	if strings.Contains(err.Error(), "wrong") {
		t.Errorf("error leaks the password: %v", err)
	}
	if store.Username() != "" {
		t.Error("failed login changed the client")
	}

	session, err := store.Login(context.Background(), pulseapi.Credentials{Username: "user1", Password: pulsetest.DefaultPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Username != "user1" || store.Username() != "user1" || !store.Client().Authenticated() {
		t.Errorf("session = %+v, store user %q", session, store.Username())
	}
	if !store.Cache().Peek(query.PostsKey).Stale {
		t.Error("cache not invalidated after login")
	}

	requests := server.Requests()
	check := requests[len(requests)-1]
	if check.Route != pulsetest.RouteListPosts || check.Username != "user1" {
		t.Errorf("login check = %+v", check)
	}
}
