// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import "github.com/milhouse-go/milhouse/internal/mtree/hasher"

// backingKind distinguishes List (bounded, growable) from Vector (fixed) backing
// semantics for push-validation purposes.
type backingKind uint8

const (
	backingList backingKind = iota
	backingVector
)

// Interface is the staged-update façade shared by List and Vector: an
// immutable backing Tree plus a buffer of not-yet-flushed writes, giving
// O(1) point writes and O(k log N) batched flushes (spec §4.4).
type Interface[T Value] struct {
	backing *Tree[T]
	shape   shape
	length  uint64
	maxLen  uint64 // List's N; 0 means unbounded-by-N (Vectors pass 0; their fixed length is length)
	kind    backingKind

	updates UpdateMap[T]
}

// newInterface constructs an Interface over an already-built tree.
func newInterface[T Value](backing *Tree[T], s shape, length, maxLen uint64, kind backingKind) *Interface[T] {
	return &Interface[T]{
		backing: backing,
		shape:   s,
		length:  length,
		maxLen:  maxLen,
		kind:    kind,
		updates: NewOrderedUpdateMap[T](),
	}
}

// Len returns max(backing length, highest pending index + 1), saturated at
// maxLen for List backings.
func (in *Interface[T]) Len() uint64 {
	l := in.length
	if maxIdx, ok := in.updates.MaxIndex(); ok && maxIdx+1 > l {
		l = maxIdx + 1
	}
	if in.kind == backingList && in.maxLen > 0 && l > in.maxLen {
		l = in.maxLen
	}
	return l
}

// Get returns the value at i, preferring a pending write over the backing tree.
func (in *Interface[T]) Get(i uint64) (T, bool) {
	if v, ok := in.updates.Get(i); ok {
		return v, true
	}
	if i >= in.Len() {
		var zero T
		return zero, false
	}
	return in.backing.Get(i, in.shape)
}

// GetMut materializes i into the pending-update buffer (copying the
// backing value there first if absent) and returns it with a commit
// function the caller must invoke with the mutated value.
func (in *Interface[T]) GetMut(i uint64) (T, func(T), error) {
	if i >= in.Len() {
		var zero T
		return zero, nil, ErrOutOfBoundsUpdate
	}
	v, commit := in.updates.GetMutWith(i, func() T {
		bv, _ := in.backing.Get(i, in.shape)
		return bv
	})
	return v, commit, nil
}

// GetCow returns a copy-on-write value at i: the buffered copy if present,
// else the backing value plus a commit function that installs it into the
// buffer only if invoked.
func (in *Interface[T]) GetCow(i uint64) (T, func(T), error) {
	if i >= in.Len() {
		var zero T
		return zero, nil, ErrOutOfBoundsUpdate
	}
	v := in.updates.GetCowWith(i, func() T {
		bv, _ := in.backing.Get(i, in.shape)
		return bv
	})
	return v, func(nv T) { in.updates.Insert(i, nv) }, nil
}

// Replace writes v directly into the pending-update buffer at index i.
func (in *Interface[T]) Replace(i uint64, v T) error {
	if i >= in.Len() {
		return ErrOutOfBoundsUpdate
	}
	in.updates.Insert(i, v)
	return nil
}

// Push validates and appends v at the current logical length (List only;
// Vector rejects with ErrPushNotSupported).
func (in *Interface[T]) Push(v T) error {
	if in.kind == backingVector {
		return ErrPushNotSupported
	}
	l := in.Len()
	if in.maxLen > 0 && l >= in.maxLen {
		return ErrListFull
	}
	in.updates.Insert(l, v)
	return nil
}

// ApplyUpdates flushes the pending-write buffer into a single batched tree
// rewrite via Tree.WithUpdatedLeaves, replacing the backing tree and
// clearing the buffer.
func (in *Interface[T]) ApplyUpdates() error {
	if in.updates.IsEmpty() {
		return nil
	}
	newLength := in.Len()

	switch in.kind {
	case backingList:
		// Len() saturates at maxLen, so check the highest pending index instead.
		if maxIdx, ok := in.updates.MaxIndex(); ok && in.maxLen > 0 && maxIdx >= in.maxLen {
			return ErrInvalidListUpdate
		}
	case backingVector:
		if newLength != in.length {
			return ErrInvalidVectorUpdate
		}
	}

	newBacking, err := in.backing.WithUpdatedLeaves(in.updates, in.shape)
	if err != nil {
		return err
	}

	in.backing = newBacking
	in.length = newLength
	in.updates.Clear()
	return nil
}

// requireClean returns an error if there are unflushed pending writes;
// several operations (TreeHash, RebaseOn, PopFront's level iteration)
// require a clean buffer.
func (in *Interface[T]) requireClean(sentinel error) error {
	if !in.updates.IsEmpty() {
		return sentinel
	}
	return nil
}

// TreeHash computes the Merkle root of the current (flushed) backing tree.
func (in *Interface[T]) TreeHash() ([32]byte, error) {
	if err := in.requireClean(ErrBulkUpdateUnclean); err != nil {
		return [32]byte{}, err
	}
	return in.backing.TreeHash(hasher.DefaultPool)
}

// Iter returns a value iterator fusing pending writes over the backing tree.
func (in *Interface[T]) Iter() (*fusedIter[T], error) {
	return in.IterFrom(0)
}

// IterFrom returns a value iterator starting at index from.
func (in *Interface[T]) IterFrom(from uint64) (*fusedIter[T], error) {
	treeIt, err := NewTreeIter[T](in.backing, in.shape, in.length, from)
	if err != nil {
		return nil, err
	}
	return &fusedIter[T]{treeIt: treeIt, updates: in.updates, idx: from, length: in.Len()}, nil
}

// fusedIter walks the backing tree but yields a pending-update value in
// place of the tree's own value whenever one exists at that index.
type fusedIter[T Value] struct {
	treeIt  *TreeIter[T]
	updates UpdateMap[T]
	idx     uint64
	length  uint64
}

// Next returns the next (index, value), preferring a pending write.
func (it *fusedIter[T]) Next() (uint64, T, bool) {
	var zero T
	if it.idx >= it.length {
		return 0, zero, false
	}
	idx := it.idx
	it.idx++

	if v, ok := it.updates.Get(idx); ok {
		// Keep the underlying tree iterator in lock-step so a later index
		// not present in updates still reads the right tree position.
		if it.treeIt != nil {
			_, _, _ = it.treeIt.Next()
		}
		return idx, v, true
	}
	if it.treeIt == nil {
		return 0, zero, false
	}
	_, v, ok := it.treeIt.Next()
	return idx, v, ok
}
