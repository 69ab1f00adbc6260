// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milhouse-go/milhouse/internal/mtree/hasher"
	"github.com/milhouse-go/milhouse/internal/mtree/testutil"
)

func TestRebaseOnSharesEqualSubtrees(t *testing.T) {
	s := shapeFor[testutil.Uint64](16)

	base := ZeroTree[testutil.Uint64](s.depth)
	base, err := base.WithUpdatedLeaf(3, testutil.Uint64(7), s)
	require.NoError(t, err)
	_, err = base.TreeHash(hasher.DefaultPool)
	require.NoError(t, err)

	other := ZeroTree[testutil.Uint64](s.depth)
	other, err = other.WithUpdatedLeaf(3, testutil.Uint64(7), s)
	require.NoError(t, err)

	result, err := RebaseOn[testutil.Uint64](other, base, s.depth, s.capacity(), s.capacity())
	require.NoError(t, err)
	require.True(t, result.Equal(base))

	v, ok := result.Get(3, s)
	require.True(t, ok)
	require.Equal(t, testutil.Uint64(7), v)
}

// TestRebaseOnSharesPointerIdentity asserts the actual observable contract
// behind "re-shares structure": an untouched subtree of other must become
// the *same* *Tree pointer as base's corresponding subtree after rebase, not
// merely an equal one. other and base are built independently with the same
// write at index 3, which lives under the left child of the root (index 3 <
// capacity/2); the right child is identical content, so before rebase
// other.right and base.right are distinct allocations, and after rebase
// they must collapse to the same pointer.
func TestRebaseOnSharesPointerIdentity(t *testing.T) {
	s := shapeFor[testutil.Uint64](16)

	base := ZeroTree[testutil.Uint64](s.depth)
	base, err := base.WithUpdatedLeaf(3, testutil.Uint64(7), s)
	require.NoError(t, err)
	_, err = base.TreeHash(hasher.DefaultPool)
	require.NoError(t, err)

	other := ZeroTree[testutil.Uint64](s.depth)
	other, err = other.WithUpdatedLeaf(3, testutil.Uint64(7), s)
	require.NoError(t, err)

	require.NotSame(t, base.right, other.right, "right subtrees must start as distinct allocations")

	result, err := RebaseOn[testutil.Uint64](other, base, s.depth, s.capacity(), s.capacity())
	require.NoError(t, err)
	require.True(t, result.Equal(base))

	require.Same(t, base.right, result.right, "rebase must adopt base's pointer for the untouched right subtree")
}

func TestRebaseOnPreservesDivergentValues(t *testing.T) {
	s := shapeFor[testutil.Uint64](16)

	base := ZeroTree[testutil.Uint64](s.depth)
	base, err := base.WithUpdatedLeaf(3, testutil.Uint64(7), s)
	require.NoError(t, err)

	t2 := ZeroTree[testutil.Uint64](s.depth)
	t2, err = t2.WithUpdatedLeaf(3, testutil.Uint64(8), s)
	require.NoError(t, err)

	result, err := RebaseOn[testutil.Uint64](t2, base, s.depth, s.capacity(), s.capacity())
	require.NoError(t, err)

	v, ok := result.Get(3, s)
	require.True(t, ok)
	require.Equal(t, testutil.Uint64(8), v)
}

// TestRebaseDecisionNodeShortCircuitRequiresEqualLengths exercises the
// kindNode cached-hash short-circuit directly: t and base are forced to
// share a cached hash (standing in for the real-world case where a List's
// zero-valued payload hashes identically to an unwritten Zero subtree) even
// though their children actually differ. With mismatched lengths the
// short-circuit must not fire, so rebaseDecision falls through to comparing
// children and correctly reports the subtrees as unequal; with matching
// lengths the short-circuit fires and (wrongly, in this adversarial setup)
// reports them equal — demonstrating the gate is what makes the length
// check load-bearing.
func TestRebaseDecisionNodeShortCircuitRequiresEqualLengths(t *testing.T) {
	base := NodeTree[testutil.Uint64](1,
		LeafTree[testutil.Uint64](testutil.Uint64(1)),
		LeafTree[testutil.Uint64](testutil.Uint64(2)))
	bh, err := base.TreeHash(hasher.DefaultPool)
	require.NoError(t, err)

	same := NodeTree[testutil.Uint64](1,
		LeafTree[testutil.Uint64](testutil.Uint64(3)),
		LeafTree[testutil.Uint64](testutil.Uint64(4)))
	same.hashMu.Lock()
	same.hash = bh
	same.hashMu.Unlock()

	mismatched, outcome := rebaseDecision[testutil.Uint64](same, base, 1, 2, 1)
	require.Equal(t, outcomeNotEqualNoop, outcome)
	require.Same(t, same, mismatched, "mismatched lengths must not adopt base's pointer via the hash short-circuit")

	matched, outcome := rebaseDecision[testutil.Uint64](same, base, 1, 1, 1)
	require.Equal(t, outcomeEqualReplace, outcome)
	require.Same(t, base, matched)
}

func TestIntraRebaseDeduplicatesIdenticalSubtrees(t *testing.T) {
	s := shapeFor[testutil.Uint64](16)

	root := ZeroTree[testutil.Uint64](s.depth)
	root, err := root.WithUpdatedLeaf(0, testutil.Uint64(5), s)
	require.NoError(t, err)
	root, err = root.WithUpdatedLeaf(8, testutil.Uint64(5), s)
	require.NoError(t, err)

	_, err = root.TreeHash(hasher.DefaultPool)
	require.NoError(t, err)

	deduped, err := IntraRebase[testutil.Uint64](root, s.depth)
	require.NoError(t, err)
	require.True(t, deduped.Equal(root))
	require.Same(t, deduped.left, deduped.right, "identical halves must share one pointer")
}
