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

func TestRepeatTreePacked(t *testing.T) {
	for _, n := range []uint64{0, 1, 3, 4, 5, 16, 17} {
		s := shapeFor[testutil.Uint64](32)
		root, err := repeatTree[testutil.Uint64](testutil.Uint64(42), n, s)
		require.NoError(t, err, "n=%d", n)

		for i := uint64(0); i < n; i++ {
			v, ok := root.Get(i, s)
			require.True(t, ok, "n=%d i=%d", n, i)
			require.Equal(t, testutil.Uint64(42), v)
		}
	}
}

func TestRepeatTreeNonPacked(t *testing.T) {
	s := shapeFor[testutil.Bitvector64](8)
	val := testutil.Bitvector64{}
	root, err := repeatTree[testutil.Bitvector64](val, 5, s)
	require.NoError(t, err)

	for i := uint64(0); i < 5; i++ {
		got, ok := root.Get(i, s)
		require.True(t, ok)
		require.Equal(t, val, got)
	}
}

func TestRepeatTreeMatchesBuilder(t *testing.T) {
	n := uint64(20)
	s := shapeFor[testutil.Uint64](32)

	viaRepeat, err := repeatTree[testutil.Uint64](testutil.Uint64(9), n, s)
	require.NoError(t, err)

	b, err := NewBuilder[testutil.Uint64](s.depth)
	require.NoError(t, err)
	for i := uint64(0); i < n; i++ {
		require.NoError(t, b.Push(testutil.Uint64(9)))
	}
	viaBuilder, _, _, err := b.Finish()
	require.NoError(t, err)

	hr, err := viaRepeat.TreeHash(hasher.DefaultPool)
	require.NoError(t, err)
	hb, err := viaBuilder.TreeHash(hasher.DefaultPool)
	require.NoError(t, err)
	require.Equal(t, hr, hb)
}
