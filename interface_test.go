// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milhouse-go/milhouse/internal/mtree/testutil"
)

func TestInterfaceGetReplaceApplyUpdates(t *testing.T) {
	s := shapeFor[testutil.Uint64](16)
	in := newInterface[testutil.Uint64](ZeroTree[testutil.Uint64](s.depth), s, 0, 16, backingList)

	require.NoError(t, in.Push(testutil.Uint64(1)))
	require.NoError(t, in.Push(testutil.Uint64(2)))
	require.Equal(t, uint64(2), in.Len())

	v, ok := in.Get(0)
	require.True(t, ok)
	require.Equal(t, testutil.Uint64(1), v)

	require.NoError(t, in.Replace(0, testutil.Uint64(99)))
	v, ok = in.Get(0)
	require.True(t, ok)
	require.Equal(t, testutil.Uint64(99), v)

	require.NoError(t, in.ApplyUpdates())
	require.True(t, in.updates.IsEmpty())
	v, ok = in.backing.Get(0, s)
	require.True(t, ok)
	require.Equal(t, testutil.Uint64(99), v)
}

func TestInterfaceVectorRejectsPush(t *testing.T) {
	s := shapeFor[testutil.Uint64](4)
	in := newInterface[testutil.Uint64](ZeroTree[testutil.Uint64](s.depth), s, 4, 0, backingVector)
	err := in.Push(testutil.Uint64(1))
	require.ErrorIs(t, err, ErrPushNotSupported)
}

func TestInterfaceListFullRejectsPush(t *testing.T) {
	s := shapeFor[testutil.Uint64](1)
	in := newInterface[testutil.Uint64](ZeroTree[testutil.Uint64](s.depth), s, 0, 1, backingList)
	require.NoError(t, in.Push(testutil.Uint64(1)))
	err := in.Push(testutil.Uint64(2))
	require.ErrorIs(t, err, ErrListFull)
}

func TestInterfaceGetMutAndCow(t *testing.T) {
	s := shapeFor[testutil.Uint64](8)
	in := newInterface[testutil.Uint64](ZeroTree[testutil.Uint64](s.depth), s, 4, 8, backingList)

	v, commit, err := in.GetMut(1)
	require.NoError(t, err)
	require.Equal(t, testutil.Uint64(0), v)
	commit(testutil.Uint64(5))
	v, ok := in.Get(1)
	require.True(t, ok)
	require.Equal(t, testutil.Uint64(5), v)

	cow, commitCow, err := in.GetCow(2)
	require.NoError(t, err)
	require.Equal(t, testutil.Uint64(0), cow)
	_, ok = in.updates.Get(2)
	require.False(t, ok, "GetCow must not install until the commit is invoked")
	commitCow(testutil.Uint64(7))
	v, ok = in.Get(2)
	require.True(t, ok)
	require.Equal(t, testutil.Uint64(7), v)
}

func TestInterfaceOutOfBounds(t *testing.T) {
	s := shapeFor[testutil.Uint64](4)
	in := newInterface[testutil.Uint64](ZeroTree[testutil.Uint64](s.depth), s, 4, 0, backingVector)
	err := in.Replace(10, testutil.Uint64(1))
	require.ErrorIs(t, err, ErrOutOfBoundsUpdate)
}

func TestInterfaceTreeHashRequiresClean(t *testing.T) {
	s := shapeFor[testutil.Uint64](8)
	in := newInterface[testutil.Uint64](ZeroTree[testutil.Uint64](s.depth), s, 4, 8, backingList)
	require.NoError(t, in.Replace(0, testutil.Uint64(1)))
	_, err := in.TreeHash()
	require.ErrorIs(t, err, ErrBulkUpdateUnclean)

	require.NoError(t, in.ApplyUpdates())
	_, err = in.TreeHash()
	require.NoError(t, err)
}

func TestInterfaceIterFusesUpdates(t *testing.T) {
	s := shapeFor[testutil.Uint64](8)
	in := newInterface[testutil.Uint64](ZeroTree[testutil.Uint64](s.depth), s, 4, 8, backingList)

	require.NoError(t, in.Replace(1, testutil.Uint64(42)))

	it, err := in.Iter()
	require.NoError(t, err)

	var got []testutil.Uint64
	for {
		_, v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	require.Equal(t, []testutil.Uint64{0, 42, 0, 0}, got)
}
