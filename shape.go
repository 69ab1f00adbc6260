// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import "math/bits"

// MaxTreeDepth is the hard ceiling on a tree's Node-level depth (spec §3).
const MaxTreeDepth = 63

// shape bundles the two numbers every tree-shaped operation needs: how many
// Node levels sit above the leaf level, and how many of those levels are
// "absorbed" by packing several basic values into one chunk.
type shape struct {
	depth        int // number of Node levels above the leaf level
	packingDepth int // log2(packing factor); 0 for non-basic T
}

func (s shape) packingFactor() uint64 {
	return uint64(1) << uint(s.packingDepth)
}

// capacity is the number of logical elements this shape can hold: N rounded
// up to the next power of two (and to a multiple of the packing factor).
func (s shape) capacity() uint64 {
	return uint64(1) << uint(s.depth+s.packingDepth)
}

// shapeFor computes the (depth, packingDepth) pair for a list/vector of
// element type T with maximum length n, per spec §3:
//
//	packing_depth = log2(packing_factor)           (0 for non-basic T)
//	depth         = ceil(log2(n)) - packing_depth
func shapeFor[T Value](n uint64) shape {
	pf := packingFactorOf[T]()
	packingDepth := log2Floor(uint64(pf))

	total := ceilLog2(n)
	depth := total - packingDepth
	if depth < 0 {
		depth = 0
	}
	return shape{depth: depth, packingDepth: packingDepth}
}

// ceilLog2 returns the smallest d such that 1<<d >= n (0 for n <= 1).
func ceilLog2(n uint64) int {
	if n <= 1 {
		return 0
	}
	return bits.Len64(n - 1)
}

// log2Floor returns the largest d such that 1<<d <= n (n must be a power of two, or 0).
func log2Floor(n uint64) int {
	if n <= 1 {
		return 0
	}
	return bits.Len64(n) - 1
}

// trailingZeros64 is re-exported for builder.go's merge-stack arithmetic.
func trailingZeros64(n uint64) int {
	return bits.TrailingZeros64(n)
}

// bitAt returns the left(0)/right(1) branch bit for idx at a Node position
// with `remaining` Node-levels still to descend before reaching the
// PackedLeaf/Leaf slot. The low s.packingDepth bits of idx select a value
// *within* that slot, not a tree branch, so they must be skipped here.
func (s shape) bitAt(idx uint64, remaining int) uint64 {
	return (idx >> uint(s.packingDepth+remaining-1)) & 1
}

// slotIndex returns the index within a PackedLeaf that idx maps to.
func (s shape) slotIndex(idx uint64) uint64 {
	return idx & (s.packingFactor() - 1)
}
