// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import "fmt"

// RebaseOn rewrites t so that every subtree it shares in common with base
// (by value, not by current pointer identity) is replaced with base's own
// pointer to that subtree (spec §4.5). This recovers structural sharing
// lost when t and base were built independently from a common ancestor —
// e.g. after decoding both from bytes, or after an operation that
// reconstructs new Tree nodes along a path base already has cached.
//
// t and base must have the same logical depth; when both roots are internal
// nodes of different depths, RebaseOn returns ErrInvalidRebaseLength.
//
// tLen and baseLen are the represented lengths (spec §4.6) of the logical
// collections t and base back — for a Vector this is always its fixed N for
// both sides; for a List it is each side's current element count. They are
// threaded down through rebaseDecision's node-level hash short-circuit so
// that two subtrees whose content hashes collide (e.g. an unwritten Zero
// subtree and a List's all-zero-valued tail) are only treated as
// interchangeable when they also represent the same length (spec §4.5).
func RebaseOn[T Value](t, base *Tree[T], depth int, tLen, baseLen uint64) (*Tree[T], error) {
	if t.k == kindNode && base.k == kindNode && t.depth != base.depth {
		return nil, ErrInvalidRebaseLength
	}
	result, _ := rebaseDecision(t, base, depth, tLen, baseLen)
	return result, nil
}

// rebaseOutcome classifies how a rebase decision resolved, so that a parent
// node can tell whether it must rebuild itself (a child actually changed
// identity) or may keep its own original pointer (neither child did).
type rebaseOutcome uint8

const (
	outcomeEqualNoop     rebaseOutcome = iota // t == base by value; kept base's pointer, no parent rebuild needed
	outcomeEqualReplace                       // t == base by value; pointer was swapped to base's
	outcomeNotEqualReplace                    // t != base; returned a rebuilt node adopting some of base's children, caller must treat as "changed" going up
	outcomeNotEqualNoop                       // t != base; returned t unchanged, no identity change at this node
)

// rebaseDecision implements the four-way decision from spec §4.5: pointer
// identity is checked first as a short-circuit, then value equality (via
// cached hash or, failing that, structural Equal), and the combine step
// decides whether this node can adopt base's pointer outright or must be
// rebuilt from (possibly rebased) children.
//
// tLen/baseLen are the represented lengths of the logical collection this
// subtree belongs to (see RebaseOn); they are required, not just advisory,
// at the kindNode cached-hash short-circuit, since a hash collision alone
// does not guarantee the two subtrees represent the same List length.
func rebaseDecision[T Value](t, base *Tree[T], depth int, tLen, baseLen uint64) (*Tree[T], rebaseOutcome) {
	if t == base {
		return t, outcomeEqualNoop
	}

	if t.k != base.k {
		return t, outcomeNotEqualNoop
	}

	switch t.k {
	case kindZero:
		if t.depth == base.depth {
			return base, outcomeEqualReplace
		}
		return t, outcomeNotEqualNoop

	case kindLeaf:
		if t.leaf.value == base.leaf.value {
			return base, outcomeEqualReplace
		}
		return t, outcomeNotEqualNoop

	case kindPacked:
		if t.packed.Equal(base.packed) {
			return base, outcomeEqualReplace
		}
		return t, outcomeNotEqualNoop

	case kindNode:
		if depth <= 0 {
			return t, outcomeNotEqualNoop
		}
		if tLen == baseLen {
			if th, ok := t.cachedHash(); ok {
				if bh, ok2 := base.cachedHash(); ok2 && th == bh {
					return base, outcomeEqualReplace
				}
			}
		}

		// Split the represented lengths proportionally between the two
		// children: the left subtree's raw-element capacity at this depth
		// is 2^(depth-1) Node-levels times T's packing factor (spec §4.5).
		leftCap := (uint64(1) << uint(depth-1)) * uint64(packingFactorOf[T]())
		tLeftLen, tRightLen := splitLength(tLen, leftCap)
		baseLeftLen, baseRightLen := splitLength(baseLen, leftCap)

		newLeft, leftOutcome := rebaseDecision(t.left, base.left, depth-1, tLeftLen, baseLeftLen)
		newRight, rightOutcome := rebaseDecision(t.right, base.right, depth-1, tRightLen, baseRightLen)

		leftChanged := leftOutcome == outcomeEqualReplace || leftOutcome == outcomeNotEqualReplace
		rightChanged := rightOutcome == outcomeEqualReplace || rightOutcome == outcomeNotEqualReplace
		bothEqual := (leftOutcome == outcomeEqualNoop || leftOutcome == outcomeEqualReplace) &&
			(rightOutcome == outcomeEqualNoop || rightOutcome == outcomeEqualReplace)

		switch {
		case bothEqual:
			return base, outcomeEqualReplace
		case leftChanged || rightChanged:
			return NodeTree[T](depth, newLeft, newRight), outcomeNotEqualReplace
		default:
			return t, outcomeNotEqualNoop
		}

	default:
		return t, outcomeNotEqualNoop
	}
}

// splitLength divides a represented length of length raw elements between a
// left child of capacity leftCap and whatever remains on the right.
func splitLength(length, leftCap uint64) (left, right uint64) {
	if length <= leftCap {
		return length, 0
	}
	return leftCap, length - leftCap
}

// dedupKey identifies a subtree by its content for the intra-rebase table:
// depth distinguishes otherwise-identical hashes at different tree levels
// (Zero(0) and a degenerate all-zero Leaf could not collide in practice,
// but depth is included for defense-in-depth since hashes are attacker- or
// adversarial-input-influenced at the protocol boundary).
type dedupKey struct {
	depth int
	hash  [32]byte
}

// IntraRebase walks t once, depth-first, and replaces every subtree with an
// earlier-seen subtree of identical (depth, hash), maximizing structural
// sharing within a single tree that may have been built without it (e.g.
// freshly decoded from bytes where repeated values were encoded
// independently). Every node under t must already have a computed hash;
// call TreeHash first, or IntraRebase returns ErrIntraRebaseZeroHash.
func IntraRebase[T Value](t *Tree[T], depth int) (*Tree[T], error) {
	seen := make(map[dedupKey]*Tree[T])
	return intraRebase(t, depth, seen)
}

func intraRebase[T Value](t *Tree[T], depth int, seen map[dedupKey]*Tree[T]) (*Tree[T], error) {
	switch t.k {
	case kindZero:
		return t, nil
	case kindLeaf, kindPacked:
		h := leafHash(t)
		var zero [32]byte
		if h == zero {
			return nil, ErrIntraRebaseZeroHash
		}
		key := dedupKey{depth: 0, hash: h}
		if existing, ok := seen[key]; ok {
			return existing, nil
		}
		seen[key] = t
		return t, nil
	case kindNode:
		h, ok := t.cachedHash()
		if !ok {
			return nil, ErrIntraRebaseZeroHash
		}
		key := dedupKey{depth: depth, hash: h}
		if existing, ok := seen[key]; ok {
			return existing, nil
		}

		left, err := intraRebase(t.left, depth-1, seen)
		if err != nil {
			return nil, fmt.Errorf("intra-rebase left child at depth %d: %w", depth, err)
		}
		right, err := intraRebase(t.right, depth-1, seen)
		if err != nil {
			return nil, fmt.Errorf("intra-rebase right child at depth %d: %w", depth, err)
		}

		var result *Tree[T]
		if left == t.left && right == t.right {
			result = t
		} else {
			result = NodeTree[T](depth, left, right)
			result.hashMu.Lock()
			result.hash = h
			result.hashMu.Unlock()
		}
		seen[key] = result
		return result, nil
	default:
		return t, nil
	}
}

func leafHash[T Value](t *Tree[T]) [32]byte {
	switch t.k {
	case kindLeaf:
		return t.leaf.TreeHash()
	case kindPacked:
		return t.packed.TreeHash(chunkSizeOf[T]())
	default:
		return [32]byte{}
	}
}
