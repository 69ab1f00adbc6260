// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

// computeLevel returns the exponent of the largest power of two dividing n,
// minus packingDepth (a level in Node-depth units), or 0 when that exponent
// is below packingDepth: for basic T, an n not divisible by the packing
// factor forces level 0 (per-element copying of the first partial leaf),
// per spec §4.8 step 2.
func computeLevel(n uint64, packingDepth int) int {
	if n == 0 {
		return 0
	}
	tz := trailingZeros64(n)
	if tz < packingDepth {
		return 0
	}
	return tz - packingDepth
}

// popFront removes the first n logical elements of t in O(log n) node
// allocations by reusing whole suffix subtrees wholesale (spec §4.8).
func popFront[T Value](t *Tree[T], s shape, length, n uint64) (*Tree[T], uint64, error) {
	if n == 0 {
		return t, length, nil
	}
	if n > length {
		return nil, 0, ErrOutOfBoundsUpdate
	}

	level := computeLevel(n, s.packingDepth)

	it, err := NewLevelIter[T](t, s, length, level, n, true)
	if err != nil {
		return nil, 0, err
	}

	b, err := NewBuilder[T](s.depth, WithLevel[T](level))
	if err != nil {
		return nil, 0, err
	}

	for {
		node, ok := it.Next()
		if !ok {
			break
		}
		if node.IsPacked {
			if err := b.Push(node.Value); err != nil {
				return nil, 0, err
			}
			continue
		}
		nodeLength := node.Length
		if err := b.PushNode(node.Internal, nodeLength); err != nil {
			return nil, 0, err
		}
	}

	root, _, newLength, err := b.Finish()
	if err != nil {
		return nil, 0, err
	}
	return root, newLength, nil
}
