// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/milhouse-go/milhouse/internal/mtree/hasher"
)

// kind tags which variant of the Tree sum type a node holds.
type kind uint8

const (
	kindZero kind = iota
	kindLeaf
	kindPacked
	kindNode
)

// Tree is a persistent, copy-on-write binary Merkle tree node (spec §3).
// It is a closed four-variant sum type realized as one tagged struct rather
// than an interface; fields that do not apply to a node's kind are left
// nil or zero.
//
// A Tree value is always used behind a *Tree[T]; every "mutating" method
// returns a new *Tree[T] and never modifies the receiver, so a *Tree[T] may
// be safely shared across goroutines and across historical versions.
type Tree[T Value] struct {
	k kind

	depth int // Zero: depth of the all-zero subtree. Node: depth of this subtree.

	leaf   *Leaf[T]
	packed *PackedLeaf[T]

	left, right *Tree[T]

	hashMu sync.RWMutex
	hash   [32]byte // zero = uncomputed (Node only; Leaf/PackedLeaf cache their own)
}

// ZeroTree returns the canonical all-zero subtree of the given depth.
func ZeroTree[T Value](depth int) *Tree[T] {
	return &Tree[T]{k: kindZero, depth: depth}
}

// LeafTree wraps a single value as a leaf node.
func LeafTree[T Value](v T) *Tree[T] {
	return &Tree[T]{k: kindLeaf, leaf: newLeaf(v)}
}

// PackedTree wraps an existing PackedLeaf.
func PackedTree[T Value](p *PackedLeaf[T]) *Tree[T] {
	return &Tree[T]{k: kindPacked, packed: p}
}

// NodeTree builds an internal node from two already-constructed children.
func NodeTree[T Value](depth int, left, right *Tree[T]) *Tree[T] {
	return &Tree[T]{k: kindNode, depth: depth, left: left, right: right}
}

// children lazily splits a Zero(d) node into two Zero(d-1) children (or two
// nils if this is a Leaf/PackedLeaf position with d == 0), so that
// WithUpdatedLeaf/WithUpdatedLeaves never need a special case for Zero.
func (t *Tree[T]) children(s shape) (*Tree[T], *Tree[T]) {
	switch t.k {
	case kindNode:
		return t.left, t.right
	case kindZero:
		if t.depth <= 0 {
			return nil, nil
		}
		return ZeroTree[T](t.depth - 1), ZeroTree[T](t.depth - 1)
	default:
		return nil, nil
	}
}

// Get returns the value at logical index idx (idx < s.capacity()).
func (t *Tree[T]) Get(idx uint64, s shape) (T, bool) {
	var zero T
	node := t
	depth := s.depth
	for depth > 0 {
		switch node.k {
		case kindZero:
			return zero, false
		case kindNode:
			bit := s.bitAt(idx, depth)
			if bit == 0 {
				node = node.left
			} else {
				node = node.right
			}
			depth--
		default:
			return zero, false
		}
	}

	switch node.k {
	case kindLeaf:
		return node.leaf.value, true
	case kindPacked:
		return node.packed.Get(s.slotIndex(idx))
	default:
		return zero, false
	}
}

// WithUpdatedLeaf returns a new tree with the value at idx replaced by v,
// sharing every subtree untouched by the update (spec §4.2).
func (t *Tree[T]) WithUpdatedLeaf(idx uint64, v T, s shape) (*Tree[T], error) {
	return t.withUpdatedLeaf(idx, v, s.depth, s)
}

func (t *Tree[T]) withUpdatedLeaf(idx uint64, v T, depth int, s shape) (*Tree[T], error) {
	if depth == 0 {
		switch t.k {
		case kindZero, kindLeaf:
			return LeafTree[T](v), nil
		case kindPacked:
			k := int(s.packingFactor())
			prefix := idx &^ (uint64(k) - 1)
			um := NewOrderedUpdateMap[T]()
			um.Insert(idx, v)
			p, err := t.packed.Update(prefix, k, um)
			if err != nil {
				return nil, err
			}
			return PackedTree[T](p), nil
		default:
			return nil, ErrLeafUpdateMissing
		}
	}

	left, right := t.children(s)
	bit := s.bitAt(idx, depth)
	var err error
	if bit == 0 {
		left, err = left.withUpdatedLeaf(idx, v, depth-1, s)
	} else {
		right, err = right.withUpdatedLeaf(idx, v, depth-1, s)
	}
	if err != nil {
		return nil, err
	}
	return NodeTree[T](depth, left, right), nil
}

// WithUpdatedLeaves applies a full batch of pending updates in one pass,
// recursing only into subtrees that actually contain a pending index
// (spec §4.3's "apply_updates" bulk rewrite).
func (t *Tree[T]) WithUpdatedLeaves(updates UpdateMap[T], s shape) (*Tree[T], error) {
	if updates.IsEmpty() {
		return t, nil
	}
	return t.withUpdatedLeaves(updates, 0, s.depth, s)
}

func (t *Tree[T]) withUpdatedLeaves(updates UpdateMap[T], prefix uint64, depth int, s shape) (*Tree[T], error) {
	if depth == 0 {
		switch t.k {
		case kindZero, kindLeaf:
			v, ok := updates.Get(prefix)
			if !ok {
				return nil, ErrLeafUpdateMissing
			}
			return LeafTree[T](v), nil
		case kindPacked:
			k := int(s.packingFactor())
			p, err := t.packed.Update(prefix, k, updates)
			if err != nil {
				return nil, err
			}
			return PackedTree[T](p), nil
		default:
			return nil, ErrLeafUpdateMissing
		}
	}

	total := uint64(1) << uint(s.packingDepth+depth)
	if !updates.HasRange(prefix, prefix+total) {
		return nil, ErrNodeUpdatesMissing
	}

	half := uint64(1) << uint(s.packingDepth+depth-1)
	leftLo, leftHi := prefix, prefix+half
	rightLo, rightHi := leftHi, leftHi+half

	left, right := t.children(s)
	var err error

	if updates.HasRange(leftLo, leftHi) {
		left, err = left.withUpdatedLeaves(updates, leftLo, depth-1, s)
		if err != nil {
			return nil, err
		}
	}
	if updates.HasRange(rightLo, rightHi) {
		right, err = right.withUpdatedLeaves(updates, rightLo, depth-1, s)
		if err != nil {
			return nil, err
		}
	}
	return NodeTree[T](depth, left, right), nil
}

// parallelHashMinDepth is the subtree depth at or above which TreeHash hashes
// the two children in separate goroutines instead of serially: below it, the
// errgroup/goroutine overhead outweighs the work being parallelized.
const parallelHashMinDepth = 6

// TreeHash returns this subtree's 32-byte Merkle root, computing and
// caching internal node hashes on demand (spec §3's hash-cache invariant).
func (t *Tree[T]) TreeHash(pool *hasher.Pool) ([32]byte, error) {
	switch t.k {
	case kindZero:
		return hasher.ZeroHash(t.depth), nil
	case kindLeaf:
		return t.leaf.TreeHash(), nil
	case kindPacked:
		return t.packed.TreeHash(chunkSizeOf[T]()), nil
	}

	if h, ok := t.cachedHash(); ok {
		return h, nil
	}

	var leftHash, rightHash [32]byte
	var err error
	if t.depth >= parallelHashMinDepth {
		g := new(errgroup.Group)
		g.Go(func() error {
			var e error
			leftHash, e = t.left.TreeHash(pool)
			return e
		})
		g.Go(func() error {
			var e error
			rightHash, e = t.right.TreeHash(pool)
			return e
		})
		err = g.Wait()
	} else {
		leftHash, err = t.left.TreeHash(pool)
		if err == nil {
			rightHash, err = t.right.TreeHash(pool)
		}
	}
	if err != nil {
		return [32]byte{}, err
	}

	h, err := pool.HashPair(leftHash, rightHash)
	if err != nil {
		return [32]byte{}, err
	}

	t.hashMu.Lock()
	t.hash = h
	t.hashMu.Unlock()
	return h, nil
}

func (t *Tree[T]) cachedHash() ([32]byte, bool) {
	t.hashMu.RLock()
	defer t.hashMu.RUnlock()
	var zero [32]byte
	if t.hash == zero {
		return zero, false
	}
	return t.hash, true
}

// Equal reports whether t and o represent the same logical content. Internal
// nodes use their cached hashes as a fast path when both are computed and
// otherwise compare children; Leaf/PackedLeaf nodes are compared by value.
func (t *Tree[T]) Equal(o *Tree[T]) bool {
	if t == o {
		return true
	}
	if t.k != o.k {
		return false
	}
	switch t.k {
	case kindZero:
		return t.depth == o.depth
	case kindLeaf:
		return t.leaf.value == o.leaf.value
	case kindPacked:
		return t.packed.Equal(o.packed)
	case kindNode:
		if th, ok := t.cachedHash(); ok {
			if oh, ok2 := o.cachedHash(); ok2 {
				return th == oh
			}
		}
		return t.left.Equal(o.left) && t.right.Equal(o.right)
	}
	return false
}
