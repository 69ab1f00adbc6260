// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.
//go:build cgo

package hasher

import (
	"github.com/milhouse-go/milhouse/internal/mtree/hasher/cgo"
)

// hashPairsCgo wraps cgo.HashPairs as a HashFn, applying the same
// ValidateBatch contract every other backend is held to before handing the
// buffers to cgo's unchecked unsafe.Slice reinterpretation.
func hashPairsCgo(digests, chunks []byte) error {
	if err := ValidateBatch(digests, chunks); err != nil {
		return err
	}
	cgo.HashPairs(digests, chunks)
	return nil
}

func init() {
	FastHashFn = hashPairsCgo
	activeHashFn = FastHashFn
	DefaultPool.HashFn = FastHashFn
}
