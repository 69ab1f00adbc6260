// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import (
	"github.com/google/btree"
)

// UpdateMap is the sparse index->value pending-write buffer consumed by the
// Interface layer and by Tree.WithUpdatedLeaves (spec §3, §6). Two concrete
// implementations are provided: OrderedUpdateMap (always exact MaxIndex in
// O(log n)) and DenseUpdateMap (O(1) amortized MaxIndex via a tracked
// high-water mark).
type UpdateMap[T Value] interface {
	// Get returns the pending value at index, if any.
	Get(index uint64) (T, bool)

	// GetMutWith materializes the value at index (inserting materialize()'s
	// result first if absent) and returns it alongside a commit function
	// the caller invokes with the mutated value to write it back.
	GetMutWith(index uint64, materialize func() T) (T, func(T))

	// GetCowWith returns a copy-on-write value at index: the pending value
	// if present, else materialize()'s result (not inserted automatically).
	GetCowWith(index uint64, materialize func() T) T

	// Insert installs v as the pending value at index, overwriting any
	// existing entry.
	Insert(index uint64, v T)

	// ForEachRange calls fn(index, value) for every pending entry with
	// index in [lo, hi), in ascending index order, stopping early if fn
	// returns false.
	ForEachRange(lo, hi uint64, fn func(index uint64, v T) bool)

	// HasRange reports whether any pending entry falls in [lo, hi).
	HasRange(lo, hi uint64) bool

	// MaxIndex returns the highest pending index and true, or (0, false) if empty.
	MaxIndex() (uint64, bool)

	// Len returns the number of pending entries.
	Len() int

	// IsEmpty reports Len() == 0.
	IsEmpty() bool

	// Clear removes every pending entry.
	Clear()
}

// --- OrderedUpdateMap -------------------------------------------------

// orderedEntry is the btree item type: ordered purely by Index.
type orderedEntry[T Value] struct {
	Index uint64
	Value T
}

func orderedLess[T Value](a, b orderedEntry[T]) bool {
	return a.Index < b.Index
}

// OrderedUpdateMap is a B-tree-backed UpdateMap that always has its maximum
// index available in O(log n), via google/btree's generic ordered tree.
type OrderedUpdateMap[T Value] struct {
	tree *btree.BTreeG[orderedEntry[T]]
}

// GetCowWith returns a copy-on-write value at index: the existing pending
// value if present, else materialize()'s result (not yet inserted — callers
// that mutate it must re-Insert to make the change visible).
func (m *OrderedUpdateMap[T]) GetCowWith(index uint64, materialize func() T) T {
	if v, ok := m.Get(index); ok {
		return v
	}
	return materialize()
}

// NewOrderedUpdateMap constructs an empty OrderedUpdateMap.
func NewOrderedUpdateMap[T Value]() *OrderedUpdateMap[T] {
	return &OrderedUpdateMap[T]{tree: btree.NewG(32, orderedLess[T])}
}

func (m *OrderedUpdateMap[T]) Get(index uint64) (T, bool) {
	e, ok := m.tree.Get(orderedEntry[T]{Index: index})
	return e.Value, ok
}

// GetMutWith materializes (inserting if absent) the value at index and
// returns it by value together with a commit function the caller must
// invoke with the mutated result to write it back. Go has no stable
// pointer into a btree node, so mutation is modeled as get-then-put rather
// than as a literal *T into shared storage.
func (m *OrderedUpdateMap[T]) GetMutWith(index uint64, materialize func() T) (T, func(T)) {
	e, ok := m.tree.Get(orderedEntry[T]{Index: index})
	if !ok {
		e = orderedEntry[T]{Index: index, Value: materialize()}
		m.tree.ReplaceOrInsert(e)
	}
	return e.Value, func(v T) { m.Insert(index, v) }
}

func (m *OrderedUpdateMap[T]) Insert(index uint64, v T) {
	m.tree.ReplaceOrInsert(orderedEntry[T]{Index: index, Value: v})
}

func (m *OrderedUpdateMap[T]) ForEachRange(lo, hi uint64, fn func(index uint64, v T) bool) {
	m.tree.AscendRange(
		orderedEntry[T]{Index: lo},
		orderedEntry[T]{Index: hi},
		func(e orderedEntry[T]) bool {
			return fn(e.Index, e.Value)
		},
	)
}

func (m *OrderedUpdateMap[T]) HasRange(lo, hi uint64) bool {
	found := false
	m.ForEachRange(lo, hi, func(uint64, T) bool {
		found = true
		return false
	})
	return found
}

func (m *OrderedUpdateMap[T]) MaxIndex() (uint64, bool) {
	e, ok := m.tree.Max()
	return e.Index, ok
}

func (m *OrderedUpdateMap[T]) Len() int { return m.tree.Len() }

func (m *OrderedUpdateMap[T]) IsEmpty() bool { return m.tree.Len() == 0 }

func (m *OrderedUpdateMap[T]) Clear() {
	m.tree.Clear(false)
}

// --- DenseUpdateMap -----------------------------------------------------

// DenseUpdateMap is a plain map[uint64]T wrapped with a tracked maximum
// inserted key, giving O(1) MaxIndex at the cost of ForEachRange scanning
// every entry and sorting the in-range keys (no ordered iteration structure).
type DenseUpdateMap[T Value] struct {
	values map[uint64]T
	maxIdx uint64
	hasMax bool
}

// NewDenseUpdateMap constructs an empty DenseUpdateMap.
func NewDenseUpdateMap[T Value]() *DenseUpdateMap[T] {
	return &DenseUpdateMap[T]{values: make(map[uint64]T)}
}

func (m *DenseUpdateMap[T]) Get(index uint64) (T, bool) {
	v, ok := m.values[index]
	return v, ok
}

func (m *DenseUpdateMap[T]) GetMutWith(index uint64, materialize func() T) (T, func(T)) {
	v, ok := m.values[index]
	if !ok {
		v = materialize()
		m.Insert(index, v)
	}
	return v, func(nv T) { m.Insert(index, nv) }
}

func (m *DenseUpdateMap[T]) GetCowWith(index uint64, materialize func() T) T {
	if v, ok := m.values[index]; ok {
		return v
	}
	return materialize()
}

func (m *DenseUpdateMap[T]) Insert(index uint64, v T) {
	m.values[index] = v
	if !m.hasMax || index > m.maxIdx {
		m.maxIdx = index
		m.hasMax = true
	}
}

func (m *DenseUpdateMap[T]) ForEachRange(lo, hi uint64, fn func(index uint64, v T) bool) {
	// Dense maps have no ordering structure; scan every key, collect those
	// in range and insertion-sort them. This is the price paid for O(1)
	// MaxIndex.
	indices := make([]uint64, 0, len(m.values))
	for idx := range m.values {
		if idx >= lo && idx < hi {
			indices = append(indices, idx)
		}
	}
	sortUint64s(indices)
	for _, idx := range indices {
		if !fn(idx, m.values[idx]) {
			return
		}
	}
}

func (m *DenseUpdateMap[T]) HasRange(lo, hi uint64) bool {
	if len(m.values) == 0 {
		return false
	}
	for idx := range m.values {
		if idx >= lo && idx < hi {
			return true
		}
	}
	return false
}

func (m *DenseUpdateMap[T]) MaxIndex() (uint64, bool) { return m.maxIdx, m.hasMax }

func (m *DenseUpdateMap[T]) Len() int { return len(m.values) }

func (m *DenseUpdateMap[T]) IsEmpty() bool { return len(m.values) == 0 }

func (m *DenseUpdateMap[T]) Clear() {
	m.values = make(map[uint64]T)
	m.hasMax = false
}

func sortUint64s(s []uint64) {
	// insertion sort is fine: update batches are small (k distinct writes
	// between flushes), and avoids pulling in sort just for this.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
