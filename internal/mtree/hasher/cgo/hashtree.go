// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.
//go:build cgo

// Package cgo exposes the raw SIMD-accelerated hashtree primitive as an
// unchecked batch hash-pair operation. It has no dependency on the hasher
// package (hasher imports cgo, not the reverse), so bounds/size validation
// of the digests/chunks buffers is the caller's responsibility — see
// hasher.ValidateBatch, applied by hasher_cgo.go before this is registered
// as a HashFn backend.
package cgo

import (
	"unsafe"

	"github.com/OffchainLabs/hashtree"
)

// HashPairs hashes len(chunks)/64 consecutive 64-byte pairs of chunks into
// len(chunks)/64 32-byte digests, using the SIMD-accelerated hashtree
// library. The caller must have already validated that chunks is a multiple
// of 64 bytes and digests is at least half as long; HashPairs reinterprets
// both slices in place via unsafe.Slice and does not re-check them.
func HashPairs(digests []byte, chunks []byte) {
	if len(chunks) == 0 {
		return
	}

	sizeChunks := len(chunks) >> 5
	chunkedChunks := unsafe.Slice((*[32]byte)(unsafe.Pointer(&chunks[0])), sizeChunks)

	sizeDigests := len(digests) >> 5
	chunkedDigests := unsafe.Slice((*[32]byte)(unsafe.Pointer(&digests[0])), sizeDigests)

	hashtree.Hash(chunkedDigests, chunkedChunks)
}
