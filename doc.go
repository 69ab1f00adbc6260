// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

// Package milhouse implements a persistent, copy-on-write binary Merkle
// tree for Ethereum consensus SSZ collections: List[T, N] and Vector[T, N]
// share structure across historical versions via plain Go pointers (no
// explicit refcounting is needed — the garbage collector keeps a subtree
// alive for as long as any version still points to it), recompute only the
// hashes an update actually touches, and support rebasing one tree onto
// another to recover storage sharing lost across independent construction
// paths.
package milhouse
