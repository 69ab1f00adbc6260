// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milhouse-go/milhouse/internal/mtree/hasher"
)

func TestMixInLengthDeterministicAndSensitive(t *testing.T) {
	var root [32]byte
	for i := range root {
		root[i] = byte(i)
	}

	h1, err := mixInLength(hasher.DefaultPool, root, 3)
	require.NoError(t, err)
	h2, err := mixInLength(hasher.DefaultPool, root, 3)
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	h3, err := mixInLength(hasher.DefaultPool, root, 4)
	require.NoError(t, err)
	require.NotEqual(t, h1, h3)

	var otherRoot [32]byte
	h4, err := mixInLength(hasher.DefaultPool, otherRoot, 3)
	require.NoError(t, err)
	require.NotEqual(t, h1, h4)
}

func TestMixInLengthZero(t *testing.T) {
	var root [32]byte
	h, err := mixInLength(hasher.DefaultPool, root, 0)
	require.NoError(t, err)
	require.NotEqual(t, [32]byte{}, h, "sha256 of an all-zero 64-byte block is not all-zero")
}
