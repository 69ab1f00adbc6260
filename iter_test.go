// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milhouse-go/milhouse/internal/mtree/testutil"
)

func buildUint64Tree(t *testing.T, n uint64) (*Tree[testutil.Uint64], shape, []testutil.Uint64) {
	t.Helper()
	s := shapeFor[testutil.Uint64](n)
	b, err := NewBuilder[testutil.Uint64](s.depth)
	require.NoError(t, err)
	values := make([]testutil.Uint64, n)
	for i := range values {
		values[i] = testutil.Uint64(i + 1)
		require.NoError(t, b.Push(values[i]))
	}
	root, _, _, err := b.Finish()
	require.NoError(t, err)
	return root, s, values
}

func TestTreeIterVisitsEveryValueInOrder(t *testing.T) {
	root, s, values := buildUint64Tree(t, 13)

	it, err := NewTreeIter[testutil.Uint64](root, s, uint64(len(values)), 0)
	require.NoError(t, err)

	var got []testutil.Uint64
	for {
		_, v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	require.Equal(t, values, got)
}

func TestTreeIterFromMidpoint(t *testing.T) {
	root, s, values := buildUint64Tree(t, 13)

	it, err := NewTreeIter[testutil.Uint64](root, s, uint64(len(values)), 5)
	require.NoError(t, err)

	idx, v, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, uint64(5), idx)
	require.Equal(t, values[5], v)
}

func TestTreeIterOutOfBounds(t *testing.T) {
	root, s, values := buildUint64Tree(t, 13)
	_, err := NewTreeIter[testutil.Uint64](root, s, uint64(len(values)), 99)
	require.ErrorIs(t, err, ErrOutOfBoundsIterFrom)
}

func TestLevelIterAndComputeLen(t *testing.T) {
	root, s, values := buildUint64Tree(t, 16)

	level := 1 // groups subtrees spanning packingFactor*2 elements each
	it, err := NewLevelIter[testutil.Uint64](root, s, uint64(len(values)), level, 0, true)
	require.NoError(t, err)

	var total uint64
	for {
		node, ok := it.Next()
		if !ok {
			break
		}
		require.False(t, node.IsPacked)
		total += node.Length
	}
	require.Equal(t, uint64(len(values)), total)
}
