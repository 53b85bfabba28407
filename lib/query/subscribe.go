// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package query

import "sync"

// Subscription delivers change notifications for one key. The channel
// has capacity 1 and sends never block: several changes between reads
// collapse into one notification, after which the reader calls Peek for
// the current state.
type Subscription struct {
	Key Key

	cache   *Cache
	changes chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Subscribe registers interest in key. While at least one subscription
// is open, invalidating key refetches it in the background.
func (cache *Cache) Subscribe(key Key) *Subscription {
	subscription := &Subscription{
		Key:     key,
		cache:   cache,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	cache.mu.Lock()
	current := cache.entryLocked(key)
	if current.subscribers == nil {
		current.subscribers = make(map[*Subscription]struct{})
	}
	current.subscribers[subscription] = struct{}{}
	cache.mu.Unlock()
	return subscription
}

// Changes returns the notification channel.
func (subscription *Subscription) Changes() <-chan struct{} {
	return subscription.changes
}

// Done is closed when the subscription is closed, releasing readers
// blocked on Changes.
func (subscription *Subscription) Done() <-chan struct{} {
	return subscription.done
}

// Close unregisters the subscription. Safe to call more than once.
func (subscription *Subscription) Close() {
	subscription.once.Do(func() {
		close(subscription.done)
		cache := subscription.cache
		cache.mu.Lock()
		if current, ok := cache.entries[subscription.Key]; ok {
			delete(current.subscribers, subscription)
		}
		cache.mu.Unlock()
	})
}

func (cache *Cache) notifyLocked(current *entry) {
	for subscription := range current.subscribers {
		select {
		case subscription.changes <- struct{}{}:
		default:
		}
	}
}
