// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milhouse-go/milhouse/internal/mtree/testutil"
)

func TestPackedLeafPushAndGet(t *testing.T) {
	p := SinglePackedLeaf[testutil.Uint64](testutil.Uint64(1), 4)
	require.Equal(t, 1, p.Len())

	p2, err := p.Push(testutil.Uint64(2), 4)
	require.NoError(t, err)
	require.Equal(t, 2, p2.Len())
	require.Equal(t, 1, p.Len(), "Push must not mutate the receiver")

	v, ok := p2.Get(1)
	require.True(t, ok)
	require.Equal(t, testutil.Uint64(2), v)

	_, ok = p2.Get(5)
	require.False(t, ok)
}

func TestPackedLeafPushFull(t *testing.T) {
	p, err := RepeatPackedLeaf[testutil.Uint64](testutil.Uint64(1), 4, 4)
	require.NoError(t, err)
	_, err = p.Push(testutil.Uint64(5), 4)
	require.ErrorIs(t, err, ErrPackedLeafFull)
}

func TestPackedLeafInsertAtIndex(t *testing.T) {
	p, err := RepeatPackedLeaf[testutil.Uint64](testutil.Uint64(0), 2, 4)
	require.NoError(t, err)

	p2, err := p.InsertAtIndex(1, testutil.Uint64(9), 4)
	require.NoError(t, err)
	v, ok := p2.Get(1)
	require.True(t, ok)
	require.Equal(t, testutil.Uint64(9), v)

	p3, err := p2.InsertAtIndex(2, testutil.Uint64(3), 4)
	require.NoError(t, err)
	require.Equal(t, 3, p3.Len())

	_, err = p3.InsertAtIndex(10, testutil.Uint64(0), 4)
	require.ErrorIs(t, err, ErrPackedLeafOutOfBounds)
}

func TestPackedLeafUpdate(t *testing.T) {
	p, err := RepeatPackedLeaf[testutil.Uint64](testutil.Uint64(0), 2, 4)
	require.NoError(t, err)

	um := NewOrderedUpdateMap[testutil.Uint64]()
	um.Insert(0, testutil.Uint64(100))
	um.Insert(2, testutil.Uint64(200))

	p2, err := p.Update(0, 4, um)
	require.NoError(t, err)
	require.Equal(t, 3, p2.Len())

	v0, _ := p2.Get(0)
	require.Equal(t, testutil.Uint64(100), v0)
	v2, _ := p2.Get(2)
	require.Equal(t, testutil.Uint64(200), v2)
}

func TestPackedLeafEqualAndHash(t *testing.T) {
	p1, _ := RepeatPackedLeaf[testutil.Uint64](testutil.Uint64(7), 3, 4)
	p2, _ := RepeatPackedLeaf[testutil.Uint64](testutil.Uint64(7), 3, 4)
	require.True(t, p1.Equal(p2))

	h1 := p1.TreeHash(8)
	h2 := p2.TreeHash(8)
	require.Equal(t, h1, h2)

	p3, _ := RepeatPackedLeaf[testutil.Uint64](testutil.Uint64(8), 3, 4)
	require.False(t, p1.Equal(p3))
	require.NotEqual(t, h1, p3.TreeHash(8))
}
