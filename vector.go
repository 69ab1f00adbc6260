// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

// Vector is a fixed-length SSZ collection of exactly N elements (spec
// §4.6), backed by an Interface staged-update façade with pushes rejected.
type Vector[T Value] struct {
	inner *Interface[T]
	n     uint64
}

// VectorFromValues builds a Vector of exactly n elements; fails with
// ErrWrongVectorLength if len(values) != n.
func VectorFromValues[T Value](values []T, n uint64) (*Vector[T], error) {
	if uint64(len(values)) != n {
		return nil, ErrWrongVectorLength
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
	return &Vector[T]{
		inner: newInterface[T](root, s, length, 0, backingVector),
		n:     n,
	}, nil
}

// VectorRepeat builds a Vector of n copies of v in O(log n) (spec §4.7).
func VectorRepeat[T Value](v T, n uint64) (*Vector[T], error) {
	s := shapeFor[T](n)
	root, err := repeatTree[T](v, n, s)
	if err != nil {
		return nil, err
	}
	return &Vector[T]{
		inner: newInterface[T](root, s, n, 0, backingVector),
		n:     n,
	}, nil
}

func (v *Vector[T]) Len() uint64 { return v.n }

func (v *Vector[T]) Get(i uint64) (T, bool) { return v.inner.Get(i) }

func (v *Vector[T]) GetMut(i uint64) (T, func(T), error) { return v.inner.GetMut(i) }

func (v *Vector[T]) GetCow(i uint64) (T, func(T), error) { return v.inner.GetCow(i) }

func (v *Vector[T]) Replace(i uint64, val T) error { return v.inner.Replace(i, val) }

func (v *Vector[T]) ApplyUpdates() error { return v.inner.ApplyUpdates() }

// TreeHashRoot returns the vector's Merkle root, unmixed with length
// (vectors have a statically known length, so no length-mixing is needed).
func (v *Vector[T]) TreeHashRoot() ([32]byte, error) {
	return v.inner.TreeHash()
}

// RebaseOn re-shares structure with base (spec §4.5). Vectors have a
// statically known, equal length on both sides, so the hash short-circuit's
// length check is always satisfied here; the lengths are still threaded
// through for uniformity with List.RebaseOn.
func (v *Vector[T]) RebaseOn(base *Vector[T]) error {
	if err := v.inner.requireClean(ErrBulkUpdateUnclean); err != nil {
		return err
	}
	if err := base.inner.requireClean(ErrBulkUpdateUnclean); err != nil {
		return err
	}
	newRoot, err := RebaseOn[T](v.inner.backing, base.inner.backing, v.inner.shape.depth, v.n, base.n)
	if err != nil {
		return err
	}
	v.inner.backing = newRoot
	return nil
}

// Iter returns a value iterator over the whole vector.
func (v *Vector[T]) Iter() (*fusedIter[T], error) { return v.inner.Iter() }

// IterFrom returns a value iterator starting at index from.
func (v *Vector[T]) IterFrom(from uint64) (*fusedIter[T], error) { return v.inner.IterFrom(from) }
