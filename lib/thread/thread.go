// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package thread implements copy-on-write updates over ID-addressed
// trees: the post feed (a flat forest) and comment threads (arbitrarily
// deep).
//
// Cached values are shared with the views rendering them, so they are
// never modified in place. Update and Insert return a new root slice in
// which only the nodes on the path from the root to the changed node
// are copied; every untouched subtree is the same backing array as
// before. Views can compare subtrees by identity to skip re-rendering.
package thread

import "slices"

// Shape tells the tree functions how to read and rebuild a node type.
// Children and WithChildren may be nil for leaf-only types such as
// posts in the feed.
type Shape[N any] struct {
	ID           func(N) int64
	Children     func(N) []N
	WithChildren func(N, []N) N
}

func (shape Shape[N]) children(node N) []N {
	if shape.Children == nil {
		return nil
	}
	return shape.Children(node)
}

// Update returns a tree in which the node identified by id is replaced
// by update(node). The returned bool is false when no node has that
// ID, in which case nodes is returned as is.
func Update[N any](nodes []N, shape Shape[N], id int64, update func(N) N) ([]N, bool) {
	for index, node := range nodes {
		if shape.ID(node) == id {
			updated := slices.Clone(nodes)
			updated[index] = update(node)
			return updated, true
		}
		children := shape.children(node)
		if len(children) == 0 {
			continue
		}
		replaced, found := Update(children, shape, id, update)
		if found {
			updated := slices.Clone(nodes)
			updated[index] = shape.WithChildren(node, replaced)
			return updated, true
		}
	}
	return nodes, false
}

// Insert appends child to the children of the node identified by
// parent, or to the top level when parent is nil. Returns false when
// parent does not exist.
func Insert[N any](nodes []N, shape Shape[N], parent *int64, child N) ([]N, bool) {
	if parent == nil {
		updated := make([]N, len(nodes), len(nodes)+1)
		copy(updated, nodes)
		return append(updated, child), true
	}
	return Update(nodes, shape, *parent, func(node N) N {
		existing := shape.children(node)
		children := make([]N, len(existing), len(existing)+1)
		copy(children, existing)
		return shape.WithChildren(node, append(children, child))
	})
}

// Prepend places node first at the top level.
func Prepend[N any](nodes []N, node N) []N {
	updated := make([]N, 0, len(nodes)+1)
	updated = append(updated, node)
	return append(updated, nodes...)
}

// Find returns the node identified by id, searching depth-first.
func Find[N any](nodes []N, shape Shape[N], id int64) (N, bool) {
	var result N
	found := false
	Walk(nodes, shape, func(node N, _ int) bool {
		if shape.ID(node) == id {
			result, found = node, true
			return false
		}
		return true
	})
	return result, found
}

// Count returns the total number of nodes in the tree.
func Count[N any](nodes []N, shape Shape[N]) int {
	total := 0
	Walk(nodes, shape, func(N, int) bool {
		total++
		return true
	})
	return total
}

// Walk visits every node depth-first, pre-order, with its depth (0 for
// the top level). Returning false from visit stops the walk.
func Walk[N any](nodes []N, shape Shape[N], visit func(node N, depth int) bool) {
	walk(nodes, shape, 0, visit)
}

func walk[N any](nodes []N, shape Shape[N], depth int, visit func(N, int) bool) bool {
	for _, node := range nodes {
		if !visit(node, depth) {
			return false
		}
		if !walk(shape.children(node), shape, depth+1, visit) {
			return false
		}
	}
	return true
}
