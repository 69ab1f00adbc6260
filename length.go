// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import (
	"github.com/holiman/uint256"

	"github.com/milhouse-go/milhouse/internal/mtree/hasher"
)

// mixInLength returns pool.HashPair(root, little_endian_u256(length)), the
// SSZ tree-hash root of a variable-length list (spec §6). Like every other
// pairwise hash in this package (Tree.TreeHash, hasher.Pool.HashPair
// itself), it goes through the pool so the configured/accelerated HashFn
// backend computes it. The 256-bit integer mix-in uses holiman/uint256's
// Bytes32 encoding, which is big-endian, and reverses it into the
// little-endian form SSZ uses.
func mixInLength(pool *hasher.Pool, root [32]byte, length uint64) ([32]byte, error) {
	n := uint256.NewInt(length)
	be := n.Bytes32()

	var le [32]byte
	// uint256.Bytes32 is big-endian; SSZ wants little-endian.
	for i := 0; i < 32; i++ {
		le[i] = be[31-i]
	}

	return pool.HashPair(root, le)
}
