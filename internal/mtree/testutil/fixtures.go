// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

// Package testutil provides small, real Value implementations shared by the
// package's own tests: a basic packable Uint64 and a Bitvector64 wrapper
// around prysmaticlabs/go-bitfield, standing in for "every element type"
// across packed-leaf and SSZ round-trip tests.
package testutil

import (
	"encoding/binary"

	"github.com/prysmaticlabs/go-bitfield"
)

// Uint64 is a basic, packable SSZ value (4 values share one 32-byte chunk).
type Uint64 uint64

func (u Uint64) TreeHashRoot() [32]byte {
	var out [32]byte
	binary.LittleEndian.PutUint64(out[:8], uint64(u))
	return out
}

func (Uint64) PackingFactor() int { return 4 }
func (Uint64) ChunkSize() int     { return 8 }

func (u Uint64) PackInto(dst []byte) {
	binary.LittleEndian.PutUint64(dst, uint64(u))
}

func (u Uint64) MarshalSSZTo(dst []byte) ([]byte, error) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(u))
	return append(dst, buf[:]...), nil
}

func (Uint64) SSZFixedSize() int { return 8 }

func DecodeUint64(b []byte) (Uint64, error) {
	return Uint64(binary.LittleEndian.Uint64(b)), nil
}

// Bitvector64 is a fixed-size, non-packable SSZ value backed by an 8-byte
// array rather than go-bitfield's own slice-backed Bitvector64, so that it
// remains comparable (milhouse.Value requires comparable; a slice field
// would not be). The go-bitfield type is used only at the marshal/unmarshal
// boundary, to exercise its bit-manipulation API the way a consumer would.
type Bitvector64 struct {
	raw [8]byte
}

// NewBitvector64 wraps a raw 8-byte bitvector.
func NewBitvector64(b bitfield.Bitvector64) Bitvector64 {
	var bv Bitvector64
	copy(bv.raw[:], b.Bytes())
	return bv
}

// AsBitfield converts back to go-bitfield's own representation.
func (b Bitvector64) AsBitfield() bitfield.Bitvector64 {
	bv := bitfield.NewBitvector64()
	copy(bv, b.raw[:])
	return bv
}

func (b Bitvector64) TreeHashRoot() [32]byte {
	var out [32]byte
	copy(out[:], b.raw[:])
	return out
}

func (b Bitvector64) MarshalSSZTo(dst []byte) ([]byte, error) {
	return append(dst, b.raw[:]...), nil
}

func (Bitvector64) SSZFixedSize() int { return 8 }

func DecodeBitvector64(b []byte) (Bitvector64, error) {
	bv := bitfield.NewBitvector64()
	copy(bv, b)
	return NewBitvector64(bv), nil
}
