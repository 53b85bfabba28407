// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package query

// Snapshot records the value an optimistic write replaced, and the
// version that write produced. The zero Snapshot rolls back nothing.
type Snapshot struct {
	Key Key

	previous    any
	hadPrevious bool
	version     uint64
	valid       bool
}

// Version is the entry version produced by the write this snapshot
// belongs to.
func (snapshot Snapshot) Version() uint64 { return snapshot.version }

// SetLocal synchronously replaces the cached value of key with
// update(previous). It applies only when a value of type T is cached;
// otherwise nothing changes and ok is false. The write increments the
// entry version and discards any in-flight fetch, since the server
// response it would deliver predates the write.
func SetLocal[T any](cache *Cache, key Key, update func(T) T) (snapshot Snapshot, ok bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	current, exists := cache.entries[key]
	if !exists || !current.hasValue {
		return Snapshot{}, false
	}
	previous, isT := current.value.(T)
	if !isT {
		return Snapshot{}, false
	}

	snapshot = Snapshot{
		Key:         key,
		previous:    current.value,
		hadPrevious: true,
		valid:       true,
	}
	current.value = update(previous)
	current.version++
	current.updatedAt = cache.clock.Now()
	if current.status != StatusSuccess {
		current.status = StatusSuccess
		current.err = nil
	}
	supersedeLocked(current)
	cache.notifyLocked(current)

	snapshot.version = current.version
	return snapshot, true
}

// Set stores value under key as if it had been fetched, without a
// request. It is used to seed an entry from data already in hand.
func Set[T any](cache *Cache, key Key, value T) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	current := cache.entryLocked(key)
	current.value = value
	current.hasValue = true
	current.status = StatusSuccess
	current.err = nil
	current.stale = false
	current.version++
	current.updatedAt = cache.clock.Now()
	supersedeLocked(current)
	cache.notifyLocked(current)
}

// Rollback undoes the write that produced snapshot. If the entry is
// still at that write's version the previous value is restored.
// Otherwise another write happened in between and restoring would
// discard it, so the entry is invalidated and the server decides.
// Reports whether the previous value was restored.
func (cache *Cache) Rollback(snapshot Snapshot) bool {
	if !snapshot.valid {
		return false
	}

	cache.mu.Lock()
	current, ok := cache.entries[snapshot.Key]
	if !ok {
		cache.mu.Unlock()
		return false
	}
	if current.version == snapshot.version {
		current.value = snapshot.previous
		current.hasValue = snapshot.hadPrevious
		current.version++
		cache.notifyLocked(current)
		cache.mu.Unlock()
		return true
	}

	cache.logger.Debug("rollback superseded by later write, invalidating",
		"key", snapshot.Key,
		"snapshot_version", snapshot.version,
		"current_version", current.version,
	)
	active := cache.invalidateLocked(current)
	cache.mu.Unlock()
	if active {
		cache.refetch(snapshot.Key)
	}
	return false
}
