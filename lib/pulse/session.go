// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulse

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
)

// Session is a verified login.
type Session struct {
	Username string
	Client   *pulseapi.Client
}

// Login verifies credentials against the server by listing the first
// feed page with them. On success the returned session's client sends
// the credentials on every request. There is no token, expiry, or
// logout: credentials are held for the life of the process.
func Login(ctx context.Context, base *pulseapi.Client, credentials pulseapi.Credentials) (Session, error) {
	if err := credentials.Validate(); err != nil {
		return Session{}, &ValidationError{Field: "credentials", Err: err}
	}
	client, err := base.WithCredentials(credentials)
	if err != nil {
		return Session{}, err
	}
	if _, err := client.ListPosts(ctx, 1); err != nil {
		return Session{}, fmt.Errorf("logging in as %s: %w", credentials.Username, err)
	}
	return Session{Username: credentials.Username, Client: client}, nil
}

// Login verifies credentials and switches the store to the new client.
// Cached values carry viewer-relative like flags, so everything is
// invalidated.
func (store *Store) Login(ctx context.Context, credentials pulseapi.Credentials) (Session, error) {
	session, err := Login(ctx, store.Client(), credentials)
	if err != nil {
		return Session{}, err
	}
	store.setClient(session.Client)
	store.cache.InvalidatePrefix("")
	store.logger.Info("logged in", "username", session.Username)
	return session, nil
}
