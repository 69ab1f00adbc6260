// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

// Package hasher provides the pluggable SHA-256 pairing primitive used to
// compute and cache Merkle node hashes, plus the well-known zero-subtree
// hash table.
//
// This implementation was adapted from pk910/dynamic-ssz's hasher package
// (itself adapted from fastssz), generalized from "hash a flat SSZ buffer"
// to "hash one node pair at a time" for a recursive, persistent tree.
package hasher

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"sync"

	"github.com/prysmaticlabs/gohashtree"
)

// Batch-validation errors for HashFn backends that hash many pairs at once
// (e.g. the cgo-accelerated backend in the cgo subpackage). A plain
// single-pair NativeHashWrapper/gohashtree call never needs these; they
// guard the lower-level batch entry points before a backend is registered
// as FastHashFn.
var (
	ErrHashChunksMisaligned  = errors.New("hasher: input chunks not a multiple of 64 bytes")
	ErrHashDigestsMisaligned = errors.New("hasher: output digests not a multiple of 32 bytes")
	ErrHashDigestsTooShort   = errors.New("hasher: output digests buffer too short for input chunks")
)

// ValidateBatch checks that digests/chunks satisfy HashFn's size contract
// (digests at least len(chunks)/2 bytes, both sized in whole 32/64-byte
// units) before a batch HashFn backend is invoked. Backends that reinterpret
// their inputs via unsafe.Slice (e.g. the cgo subpackage) rely on the
// caller running this first, since an out-of-bounds reinterpretation would
// otherwise corrupt memory instead of returning an error.
func ValidateBatch(digests, chunks []byte) error {
	if len(chunks)%64 != 0 {
		return fmt.Errorf("%w: got %d bytes", ErrHashChunksMisaligned, len(chunks))
	}
	if len(digests)%32 != 0 {
		return fmt.Errorf("%w: got %d bytes", ErrHashDigestsMisaligned, len(digests))
	}
	if len(digests) < len(chunks)/2 {
		return fmt.Errorf("%w: need at least %d, got %d", ErrHashDigestsTooShort, len(chunks)/2, len(digests))
	}
	return nil
}

// HashFn hashes consecutive 64-byte chunks of input into 32-byte chunks of
// dst: dst must be at least len(input)/2 bytes.
type HashFn func(dst []byte, input []byte) error

// NativeHashWrapper adapts a stdlib hash.Hash into a HashFn, one pair at a time.
func NativeHashWrapper(hh hash.Hash) HashFn {
	return func(dst []byte, input []byte) error {
		pairs := len(input) / 64
		for i := 0; i < pairs; i++ {
			hh.Reset()
			hh.Write(input[i*64 : i*64+32])
			hh.Write(input[i*64+32 : i*64+64])
			hh.Sum(dst[:i*32])
		}
		return nil
	}
}

// DefaultHashFn uses crypto/sha256 directly with no batching.
var DefaultHashFn HashFn = NativeHashWrapper(sha256.New())

// FastHashFn uses gohashtree's batched/SIMD implementation. It is the
// default backend for Pool unless overridden (e.g. by the cgo build).
var FastHashFn HashFn = gohashtree.HashByteSlice

var activeHashFn = FastHashFn
var activeHashMu sync.RWMutex

// SetHashFn overrides the hash backend used by every Pool whose HashFn is
// nil (DefaultPool sets its own HashFn and is not affected). Intended for
// tests and for callers who need a specific backend (e.g. plain sha256 for
// cross-implementation determinism checks).
func SetHashFn(fn HashFn) {
	activeHashMu.Lock()
	defer activeHashMu.Unlock()
	activeHashFn = fn
}

func currentHashFn() HashFn {
	activeHashMu.RLock()
	defer activeHashMu.RUnlock()
	return activeHashFn
}

// Pool hands out pooled 64-byte scratch buffers for single-pair hashing so
// that Tree.TreeHash does not allocate on every internal node.
type Pool struct {
	HashFn HashFn
	pool   sync.Pool
}

// DefaultPool is the package-wide pool used when callers don't construct
// their own.
var DefaultPool = &Pool{HashFn: FastHashFn}

func (p *Pool) hashFn() HashFn {
	if p.HashFn != nil {
		return p.HashFn
	}
	return currentHashFn()
}

func (p *Pool) get() *[64]byte {
	if v := p.pool.Get(); v != nil {
		return v.(*[64]byte)
	}
	return new([64]byte)
}

func (p *Pool) put(b *[64]byte) {
	p.pool.Put(b)
}

// HashPair computes sha256(left || right) using the pool's backend.
func (p *Pool) HashPair(left, right [32]byte) ([32]byte, error) {
	buf := p.get()
	defer p.put(buf)

	copy(buf[:32], left[:])
	copy(buf[32:], right[:])

	var out [32]byte
	if err := p.hashFn()(out[:], buf[:]); err != nil {
		return out, err
	}
	return out, nil
}

func init() {
	initZeroHashes()
}

const maxZeroHashDepth = 64

var (
	zeroHashes      [maxZeroHashDepth + 1][32]byte
	zeroHashByLevel map[[32]byte]int
	zeroHashOnce    sync.Once
)

func initZeroHashes() {
	zeroHashOnce.Do(func() {
		zeroHashByLevel = make(map[[32]byte]int, maxZeroHashDepth+1)
		zeroHashByLevel[zeroHashes[0]] = 0

		var tmp [64]byte
		for i := 0; i < maxZeroHashDepth; i++ {
			copy(tmp[:32], zeroHashes[i][:])
			copy(tmp[32:], zeroHashes[i][:])
			zeroHashes[i+1] = sha256.Sum256(tmp[:])
			zeroHashByLevel[zeroHashes[i+1]] = i + 1
		}
	})
}

// ZeroHash returns the canonical hash of an all-zero subtree of the given
// depth (0 = a single zero chunk).
func ZeroHash(depth int) [32]byte {
	if depth < 0 {
		depth = 0
	}
	if depth > maxZeroHashDepth {
		depth = maxZeroHashDepth
	}
	return zeroHashes[depth]
}

// ZeroHashLevel reports the zero-subtree depth that produces hash h, if any.
func ZeroHashLevel(h [32]byte) (int, bool) {
	lvl, ok := zeroHashByLevel[h]
	return lvl, ok
}

// IsZeroHash reports whether h is the all-zero (uncomputed cache) sentinel.
func IsZeroHash(h [32]byte) bool {
	return h == zeroHashes[0]
}
