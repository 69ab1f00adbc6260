// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

// repeatLayerEntry is one (subtree, multiplicity) pair in the current
// level's working set — at most two distinct subtree classes exist at any
// level during the repeat construction (spec §4.7).
type repeatLayerEntry[T Value] struct {
	tree  *Tree[T]
	count uint64
}

// repeatTree builds a tree of n copies of v in O(log n) node allocations,
// by folding a small working layer of at-most-two subtree classes upward
// one level at a time (spec §4.7, grounded on original_source/src/repeat.rs's
// repeat_list).
func repeatTree[T Value](v T, n uint64, s shape) (*Tree[T], error) {
	if n == 0 {
		return ZeroTree[T](s.depth), nil
	}

	var layer []repeatLayerEntry[T]

	if pf := packingFactorOf[T](); pf > 1 {
		pfU := uint64(pf)
		repeatCount := n / pfU
		lonelyCount := n % pfU

		var repeatLeaf, lonelyLeaf *Tree[T]
		if repeatCount > 0 {
			p, err := RepeatPackedLeaf[T](v, pf, pf)
			if err != nil {
				return nil, err
			}
			repeatLeaf = PackedTree[T](p)
		}
		if lonelyCount > 0 {
			p, err := RepeatPackedLeaf[T](v, int(lonelyCount), pf)
			if err != nil {
				return nil, err
			}
			lonelyLeaf = PackedTree[T](p)
		}

		switch {
		case repeatCount > 0 && lonelyCount == 0:
			layer = []repeatLayerEntry[T]{{tree: repeatLeaf, count: repeatCount}}
		case repeatCount == 0 && lonelyCount > 0:
			layer = []repeatLayerEntry[T]{{tree: lonelyLeaf, count: 1}}
		default:
			layer = []repeatLayerEntry[T]{
				{tree: repeatLeaf, count: repeatCount},
				{tree: lonelyLeaf, count: 1},
			}
		}
	} else {
		layer = []repeatLayerEntry[T]{{tree: LeafTree[T](v), count: n}}
	}

	for depth := 0; depth < s.depth; depth++ {
		layer = repeatStep(layer, depth)
	}

	if len(layer) != 1 || layer[0].count != 1 {
		return nil, ErrBuilderStackLeftover
	}
	return layer[0].tree, nil
}

// repeatStep applies one of the six level-local rewrite rules from spec
// §4.7 to fold `layer` one level higher.
func repeatStep[T Value](layer []repeatLayerEntry[T], depth int) []repeatLayerEntry[T] {
	switch len(layer) {
	case 1:
		r := layer[0]
		if r.count == 1 {
			// [(R, 1)] -> [(node(R, zero_d), 1)]
			return []repeatLayerEntry[T]{
				{tree: NodeTree[T](depth+1, r.tree, ZeroTree[T](depth)), count: 1},
			}
		}
		if r.count%2 == 0 {
			// [(R, 2m)] -> [(node(R, R), m)]
			return []repeatLayerEntry[T]{
				{tree: NodeTree[T](depth+1, r.tree, r.tree), count: r.count / 2},
			}
		}
		// [(R, 2m+1)] -> [(node(R, R), m), (node(R, zero_d), 1)]
		return []repeatLayerEntry[T]{
			{tree: NodeTree[T](depth+1, r.tree, r.tree), count: r.count / 2},
			{tree: NodeTree[T](depth+1, r.tree, ZeroTree[T](depth)), count: 1},
		}

	case 2:
		r, l := layer[0], layer[1]
		if r.count == 1 && l.count == 1 {
			// [(R,1),(L,1)] -> [(node(R,L), 1)]
			return []repeatLayerEntry[T]{
				{tree: NodeTree[T](depth+1, r.tree, l.tree), count: 1},
			}
		}
		if r.count%2 == 0 {
			// [(R,2m),(L,1)] -> [(node(R,R), m), (node(L,zero_d), 1)]
			return []repeatLayerEntry[T]{
				{tree: NodeTree[T](depth+1, r.tree, r.tree), count: r.count / 2},
				{tree: NodeTree[T](depth+1, l.tree, ZeroTree[T](depth)), count: 1},
			}
		}
		// [(R,2m+1),(L,1)] -> [(node(R,R), m), (node(R,L), 1)]
		return []repeatLayerEntry[T]{
			{tree: NodeTree[T](depth+1, r.tree, r.tree), count: r.count / 2},
			{tree: NodeTree[T](depth+1, r.tree, l.tree), count: 1},
		}

	default:
		return layer
	}
}
