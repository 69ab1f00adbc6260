// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import "github.com/milhouse-go/milhouse/internal/mtree/hasher"

// List is a variable-length SSZ collection bounded by a maximum capacity N
// (spec §4.6), backed by an Interface staged-update façade.
type List[T Value] struct {
	inner *Interface[T]
	n     uint64
}

// NewList constructs an empty List with maximum length n.
func NewList[T Value](n uint64) *List[T] {
	s := shapeFor[T](n)
	return &List[T]{
		inner: newInterface[T](ZeroTree[T](s.depth), s, 0, n, backingList),
		n:     n,
	}
}

// ListFromValues builds a List in O(len(values)) via Builder (spec §4.3).
func ListFromValues[T Value](values []T, n uint64) (*List[T], error) {
	if uint64(len(values)) > n {
		return nil, ErrListFull
	}
	s := shapeFor[T](n)
	b, err := NewBuilder[T](s.depth)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if err := b.Push(v); err != nil {
			return nil, err
		}
	}
	root, _, length, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return &List[T]{
		inner: newInterface[T](root, s, length, n, backingList),
		n:     n,
	}, nil
}

// ListRepeat builds a List of count copies of v, with maximum length n, in
// O(log n) (spec §4.7).
func ListRepeat[T Value](v T, count, n uint64) (*List[T], error) {
	if count > n {
		return nil, ErrListFull
	}
	s := shapeFor[T](n)
	root, err := repeatTree[T](v, count, s)
	if err != nil {
		return nil, err
	}
	return &List[T]{
		inner: newInterface[T](root, s, count, n, backingList),
		n:     n,
	}, nil
}

func (l *List[T]) Len() uint64 { return l.inner.Len() }

func (l *List[T]) Get(i uint64) (T, bool) { return l.inner.Get(i) }

func (l *List[T]) GetMut(i uint64) (T, func(T), error) { return l.inner.GetMut(i) }

func (l *List[T]) GetCow(i uint64) (T, func(T), error) { return l.inner.GetCow(i) }

func (l *List[T]) Replace(i uint64, v T) error { return l.inner.Replace(i, v) }

func (l *List[T]) Push(v T) error { return l.inner.Push(v) }

func (l *List[T]) ApplyUpdates() error { return l.inner.ApplyUpdates() }

func (l *List[T]) TreeHashRoot() ([32]byte, error) {
	h, err := l.inner.TreeHash()
	if err != nil {
		return h, err
	}
	return mixInLength(hasher.DefaultPool, h, l.Len())
}

// PopFront removes the first n elements in O(log n) (spec §4.8).
func (l *List[T]) PopFront(n uint64) error {
	if err := l.inner.requireClean(ErrLevelIterPendingUpdates); err != nil {
		return err
	}
	newRoot, newLength, err := popFront[T](l.inner.backing, l.inner.shape, l.inner.length, n)
	if err != nil {
		return err
	}
	l.inner.backing = newRoot
	l.inner.length = newLength
	return nil
}

// RebaseOn re-shares structure with base (spec §4.5). Both l and base must
// have no unflushed pending writes: base's backing tree is read directly,
// so any update sitting in base's own buffer would otherwise make the
// rebase silently target a stale version of base.
func (l *List[T]) RebaseOn(base *List[T]) error {
	if err := l.inner.requireClean(ErrBulkUpdateUnclean); err != nil {
		return err
	}
	if err := base.inner.requireClean(ErrBulkUpdateUnclean); err != nil {
		return err
	}
	newRoot, err := RebaseOn[T](l.inner.backing, base.inner.backing, l.inner.shape.depth, l.Len(), base.Len())
	if err != nil {
		return err
	}
	l.inner.backing = newRoot
	return nil
}

// Iter returns a value iterator over the whole list.
func (l *List[T]) Iter() (*fusedIter[T], error) { return l.inner.Iter() }

// IterFrom returns a value iterator starting at index from.
func (l *List[T]) IterFrom(from uint64) (*fusedIter[T], error) { return l.inner.IterFrom(from) }
