// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bureau-foundation/pulse/lib/clock"
)

// Fetcher loads the current server value for a key.
type Fetcher func(ctx context.Context) (any, error)

// Config holds cache construction parameters.
type Config struct {
	// Clock stamps UpdatedAt and ages entries. Defaults to the real
	// clock.
	Clock clock.Clock

	// StaleTime marks successfully fetched values stale after this long,
	// so the next Get revalidates them. Zero means values only become
	// stale through Invalidate.
	StaleTime time.Duration

	// Logger receives fetch diagnostics at debug level. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Cache is the store of server-mirrored state. All methods are safe for
// concurrent use.
type Cache struct {
	clock     clock.Clock
	staleTime time.Duration
	logger    *slog.Logger

	// Background refetches run under this context so that Close stops
	// them regardless of which caller triggered them.
	ctx    context.Context
	cancel context.CancelFunc

	group singleflight.Group

	mu      sync.Mutex
	entries map[Key]*entry
}

type entry struct {
	value     any
	hasValue  bool
	status    Status
	err       error
	stale     bool
	updatedAt time.Time

	version    uint64
	generation uint64

	fetcher Fetcher

	// fetching and cancelFetch describe the fetch of the current
	// generation, if any.
	fetching    bool
	cancelFetch context.CancelFunc

	subscribers map[*Subscription]struct{}
}

// New creates an empty cache.
func New(config Config) *Cache {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		clock:     config.Clock,
		staleTime: config.StaleTime,
		logger:    config.Logger,
		ctx:       ctx,
		cancel:    cancel,
		entries:   make(map[Key]*entry),
	}
}

// Close cancels every in-flight fetch. The cache remains readable but
// no further background refetches run.
func (cache *Cache) Close() {
	cache.cancel()
}

// entryLocked returns the entry for key, creating it if needed. Caller
// must hold cache.mu.
func (cache *Cache) entryLocked(key Key) *entry {
	existing, ok := cache.entries[key]
	if !ok {
		existing = &entry{}
		cache.entries[key] = existing
	}
	return existing
}

// Get returns the value for key, fetching it with fetch when nothing is
// cached. A cached value is returned immediately; if it is stale, a
// refetch starts in the background. The fetcher is remembered so that
// later invalidations can refetch without a caller.
func Get[T any](ctx context.Context, cache *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	value, err := cache.get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return typed[T](key, value)
}

// Refresh fetches key from the server and waits for the result even
// when a fresh value is cached, registering fetch as the key's fetcher.
// Pollers use it to revalidate on a schedule.
func Refresh[T any](ctx context.Context, cache *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	cache.mu.Lock()
	cache.entryLocked(key).fetcher = func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}
	cache.mu.Unlock()

	value, err := cache.fetch(ctx, key, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return typed[T](key, value)
}

func typed[T any](key Key, value any) (T, error) {
	result, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("query: entry %q holds %T, not %T", key, value, zero)
	}
	return result, nil
}

func (cache *Cache) get(ctx context.Context, key Key, fetcher Fetcher) (any, error) {
	cache.mu.Lock()
	current := cache.entryLocked(key)
	current.fetcher = fetcher
	if current.hasValue {
		value := current.value
		stale := current.stale || cache.expiredLocked(current)
		cache.mu.Unlock()
		if stale {
			cache.refetch(key)
		}
		return value, nil
	}
	cache.mu.Unlock()
	return cache.fetch(ctx, key, false)
}

func (cache *Cache) expiredLocked(current *entry) bool {
	if cache.staleTime <= 0 || current.status != StatusSuccess {
		return false
	}
	return cache.clock.Now().Sub(current.updatedAt) >= cache.staleTime
}

// fetch runs the fetcher for the current generation of key. Unless
// force is set, a value that appears while waiting for the flight
// satisfies the call without another request.
func (cache *Cache) fetch(ctx context.Context, key Key, force bool) (any, error) {
	for {
		cache.mu.Lock()
		current := cache.entryLocked(key)
		if current.fetcher == nil {
			cache.mu.Unlock()
			return nil, fmt.Errorf("query: no fetcher registered for %q", key)
		}
		generation := current.generation
		fetcher := current.fetcher
		cache.mu.Unlock()

		flight := cache.group.DoChan(flightKey(key, generation), func() (any, error) {
			return cache.run(key, generation, fetcher, force)
		})

		var result singleflight.Result
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result = <-flight:
		}

		cache.mu.Lock()
		superseded := current.generation != generation
		value, hasValue := current.value, current.hasValue
		cache.mu.Unlock()

		if !superseded {
			return result.Val, result.Err
		}
		// A local write or invalidation replaced this fetch. Prefer the
		// newer local value; with nothing cached, fetch again.
		if hasValue {
			return value, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

func flightKey(key Key, generation uint64) string {
	return string(key) + "#" + strconv.FormatUint(generation, 10)
}

// run performs one fetch for a generation and stores its result if the
// generation is still current.
func (cache *Cache) run(key Key, generation uint64, fetcher Fetcher, force bool) (any, error) {
	fetchCtx, cancel := context.WithCancel(cache.ctx)
	defer cancel()

	cache.mu.Lock()
	current := cache.entryLocked(key)
	if current.generation != generation {
		cache.mu.Unlock()
		return nil, context.Canceled
	}
	if !force && current.hasValue {
		value := current.value
		cache.mu.Unlock()
		return value, nil
	}
	current.fetching = true
	current.cancelFetch = cancel
	if !current.hasValue {
		current.status = StatusLoading
	}
	cache.notifyLocked(current)
	cache.mu.Unlock()

	started := cache.clock.Now()
	value, err := fetcher(fetchCtx)

	cache.mu.Lock()
	defer cache.mu.Unlock()
	if current.generation != generation {
		cache.logger.Debug("discarding superseded fetch",
			"key", key,
			"generation", generation,
			"current_generation", current.generation,
		)
		return value, err
	}
	current.fetching = false
	current.cancelFetch = nil
	if err != nil {
		current.status = StatusError
		current.err = err
		cache.logger.Debug("fetch failed", "key", key, "error", err)
	} else {
		current.value = value
		current.hasValue = true
		current.version++
		current.status = StatusSuccess
		current.err = nil
		current.stale = false
		current.updatedAt = cache.clock.Now()
		cache.logger.Debug("fetch complete",
			"key", key,
			"duration", cache.clock.Now().Sub(started),
		)
	}
	cache.notifyLocked(current)
	return value, err
}

// refetch starts a background fetch of key. Concurrent refetches of the
// same generation collapse into one request.
func (cache *Cache) refetch(key Key) {
	go func() {
		if _, err := cache.fetch(cache.ctx, key, true); err != nil && cache.ctx.Err() == nil {
			cache.logger.Debug("background refetch failed", "key", key, "error", err)
		}
	}()
}

// supersedeLocked discards the in-flight fetch for an entry, if any.
func supersedeLocked(current *entry) {
	current.generation++
	if current.cancelFetch != nil {
		current.cancelFetch()
		current.cancelFetch = nil
	}
	current.fetching = false
}

// Invalidate marks key stale. If the entry has subscribers and a
// registered fetcher it is refetched in the background; otherwise the
// next Get revalidates it.
func (cache *Cache) Invalidate(key Key) {
	cache.mu.Lock()
	current, ok := cache.entries[key]
	if !ok {
		cache.mu.Unlock()
		return
	}
	active := cache.invalidateLocked(current)
	cache.mu.Unlock()
	if active {
		cache.refetch(key)
	}
}

// InvalidatePrefix invalidates every key starting with prefix.
func (cache *Cache) InvalidatePrefix(prefix string) {
	var active []Key
	cache.mu.Lock()
	for key, current := range cache.entries {
		if !strings.HasPrefix(string(key), prefix) {
			continue
		}
		if cache.invalidateLocked(current) {
			active = append(active, key)
		}
	}
	cache.mu.Unlock()
	for _, key := range active {
		cache.refetch(key)
	}
}

func (cache *Cache) invalidateLocked(current *entry) bool {
	current.stale = true
	current.version++
	supersedeLocked(current)
	cache.notifyLocked(current)
	return len(current.subscribers) > 0 && current.fetcher != nil
}

// Peek returns the state of key without fetching.
func (cache *Cache) Peek(key Key) State {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	current, ok := cache.entries[key]
	if !ok {
		return State{Key: key}
	}
	return State{
		Key:       key,
		Value:     current.value,
		HasValue:  current.hasValue,
		Status:    current.status,
		Err:       current.err,
		Stale:     current.stale || cache.expiredLocked(current),
		Fetching:  current.fetching,
		Version:   current.version,
		UpdatedAt: current.updatedAt,
	}
}

// PeekValue returns the cached value of key if present and of type T.
func PeekValue[T any](cache *Cache, key Key) (T, bool) {
	state := cache.Peek(key)
	if !state.HasValue {
		var zero T
		return zero, false
	}
	value, ok := state.Value.(T)
	return value, ok
}
