// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package query

import "context"

// Mutation describes one server write with optimistic local effects.
// Only Send is required.
type Mutation[T any] struct {
	// OnBeforeSend applies optimistic changes with SetLocal and returns
	// their snapshots. It runs synchronously before the request.
	OnBeforeSend func() []Snapshot

	// Send performs the request.
	Send func(ctx context.Context) (T, error)

	// OnSuccess reconciles the cache with the server result, typically
	// by writing the returned values and invalidating derived keys.
	OnSuccess func(result T)

	// OnFailure runs after every snapshot has been rolled back.
	OnFailure func(err error)
}

// Mutate runs a mutation: optimistic changes, the request, then
// reconciliation on success or rollback on failure. Failed mutations
// are not retried.
func Mutate[T any](ctx context.Context, cache *Cache, mutation Mutation[T]) (T, error) {
	var snapshots []Snapshot
	if mutation.OnBeforeSend != nil {
		snapshots = mutation.OnBeforeSend()
	}

	result, err := mutation.Send(ctx)
	if err != nil {
		// Newest first, so that snapshots of the same key unwind in
		// order.
		for index := len(snapshots) - 1; index >= 0; index-- {
			cache.Rollback(snapshots[index])
		}
		if mutation.OnFailure != nil {
			mutation.OnFailure(err)
		}
		var zero T
		return zero, err
	}

	if mutation.OnSuccess != nil {
		mutation.OnSuccess(result)
	}
	return result, nil
}
