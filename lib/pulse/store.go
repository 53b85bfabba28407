// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulse

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bureau-foundation/pulse/lib/clock"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/query"
)

// AnonymousAuthor is the author name on optimistic items created
// without a logged-in username.
const AnonymousAuthor = "You"

// Config holds Store construction parameters.
type Config struct {
	// Client is the initial API client, anonymous or credentialed.
	// Required.
	Client *pulseapi.Client

	// Cache defaults to a new cache using Clock and Logger.
	Cache *query.Cache

	// Clock stamps optimistic items and drives the leaderboard poller.
	// Defaults to the real clock.
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Store is the feed's state and operations. Safe for concurrent use.
type Store struct {
	cache  *query.Cache
	clock  clock.Clock
	logger *slog.Logger

	mu     sync.RWMutex
	client *pulseapi.Client

	// localIDs numbers optimistic items. Their IDs are negative so they
	// never collide with server IDs.
	localIDs atomic.Int64
}

// NewStore creates a Store.
func NewStore(config Config) (*Store, error) {
	if config.Client == nil {
		return nil, errors.New("pulse: Client is required")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Cache == nil {
		config.Cache = query.New(query.Config{Clock: config.Clock, Logger: config.Logger})
	}
	return &Store{
		cache:  config.Cache,
		clock:  config.Clock,
		logger: config.Logger,
		client: config.Client,
	}, nil
}

// Cache returns the store's cache, for subscriptions and rendering.
func (store *Store) Cache() *query.Cache { return store.cache }

// Clock returns the clock that stamps optimistic items.
func (store *Store) Clock() clock.Clock { return store.clock }

// Client returns the current API client.
func (store *Store) Client() *pulseapi.Client {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.client
}

// Username returns the logged-in username, or "" when anonymous.
func (store *Store) Username() string {
	return store.Client().Username()
}

func (store *Store) setClient(client *pulseapi.Client) {
	store.mu.Lock()
	store.client = client
	store.mu.Unlock()
}

func (store *Store) authorName() string {
	if username := store.Username(); username != "" {
		return username
	}
	return AnonymousAuthor
}

func (store *Store) nextLocalID() int64 {
	return -store.localIDs.Add(1)
}

// IsLocalID reports whether id belongs to an optimistic item.
func IsLocalID(id int64) bool { return id < 0 }

func validateContent(field, content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: field, Err: ErrEmptyContent}
	}
	return nil
}
