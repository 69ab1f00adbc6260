// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

// TreeIter yields every logical value in a tree, in ascending index order,
// via an explicit stack-based depth-first walk (no recursion, so depth is
// bounded by MaxTreeDepth regardless of Go's goroutine stack growth).
type TreeIter[T Value] struct {
	frames []iterFrame[T]
	s      shape
	length uint64
	idx    uint64
}

type iterFrame[T Value] struct {
	node  *Tree[T]
	depth int
}

// NewTreeIter constructs an iterator over [from, length) of t.
func NewTreeIter[T Value](t *Tree[T], s shape, length uint64, from uint64) (*TreeIter[T], error) {
	if from > length {
		return nil, ErrOutOfBoundsIterFrom
	}
	it := &TreeIter[T]{s: s, length: length, idx: from}
	it.descendTo(t, s.depth, from)
	return it, nil
}

// descendTo replaces the stack with the path from node down to the subtree
// containing idx, narrowest (closest to idx) last, where Next reads it.
func (it *TreeIter[T]) descendTo(node *Tree[T], depth int, idx uint64) {
	path := make([]iterFrame[T], 0, depth+1)
	for depth > 0 {
		path = append(path, iterFrame[T]{node: node, depth: depth})
		left, right := node.children(it.s)
		bit := it.s.bitAt(idx, depth)
		if bit == 0 {
			node = left
		} else {
			node = right
		}
		depth--
	}
	path = append(path, iterFrame[T]{node: node, depth: 0})
	it.frames = path
}

// Next returns the next (index, value) pair, or ok=false at the end.
func (it *TreeIter[T]) Next() (uint64, T, bool) {
	var zero T
	if it.idx >= it.length {
		return 0, zero, false
	}
	leafFrame := it.frames[len(it.frames)-1]

	var v T
	var ok bool
	switch leafFrame.node.k {
	case kindLeaf:
		v, ok = leafFrame.node.leaf.value, true
	case kindPacked:
		v, ok = leafFrame.node.packed.Get(it.s.slotIndex(it.idx))
	case kindZero:
		v, ok = zero, true
	default:
		ok = false
	}
	if !ok {
		return 0, zero, false
	}

	idx := it.idx
	it.idx++

	if it.idx < it.length {
		// Advance to the next leaf only when we've exhausted the current
		// packed leaf's k-sized window; otherwise stay put and just bump idx.
		if leafFrame.node.k != kindPacked || it.s.slotIndex(it.idx) == 0 {
			it.descendTo(it.frames[0].node, it.s.depth, it.idx)
		}
	}

	return idx, v, true
}
