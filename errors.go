// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import "errors"

// Sentinel errors returned by milhouse operations. Every fallible operation
// returns one of these, wrapped with fmt.Errorf("...: %w", ...) where extra
// context (an index, a depth) is useful. Callers compare with errors.Is.
var (
	// Bounds errors.
	ErrOutOfBoundsUpdate  = errors.New("update index out of bounds")
	ErrOutOfBoundsIterFrom = errors.New("iter_from index out of bounds")
	ErrWrongVectorLength  = errors.New("vector initialized with wrong length")
	ErrListFull           = errors.New("list is at maximum capacity")
	ErrPackedLeafFull     = errors.New("packed leaf is full")
	ErrPackedLeafOutOfBounds = errors.New("packed leaf index out of bounds")

	// Invariant violations (indicate a library or caller bug).
	ErrBuilderInvalidDepth   = errors.New("builder: depth + packing depth exceeds max tree depth")
	ErrBuilderFull           = errors.New("builder: push beyond configured capacity")
	ErrBuilderExpectedLeaf   = errors.New("builder: expected a leaf on top of the merge stack")
	ErrBuilderStackEmptyMerge    = errors.New("builder: merge stack unexpectedly empty during merge")
	ErrBuilderStackEmptyFinish   = errors.New("builder: merge stack unexpectedly empty during finish")
	ErrBuilderStackEmptyFinalize = errors.New("builder: merge stack unexpectedly empty during finalize")
	ErrBuilderStackLeftover      = errors.New("builder: more than one element left on merge stack")
	ErrNodeUpdatesMissing    = errors.New("internal node reached with no updates under it")
	ErrLeafUpdateMissing     = errors.New("leaf position reached with no corresponding update")
	ErrInvalidListUpdate     = errors.New("update produces an invalid list")
	ErrInvalidVectorUpdate   = errors.New("update produces an invalid vector")
	ErrInvalidRebaseLength   = errors.New("rebase operands have incompatible lengths")
	ErrIntraRebaseZeroHash   = errors.New("intra-rebase requires a fully-hashed tree")

	// Protocol violations.
	ErrPushNotSupported          = errors.New("push is not supported on a fixed-length vector")
	ErrBulkUpdateUnclean         = errors.New("bulk update attempted against a non-empty update buffer")
	ErrLevelIterPendingUpdates   = errors.New("level_iter requires an empty update buffer; call apply_updates first")
	ErrInvalidDiffPendingUpdates = errors.New("diff requires an empty update buffer; call apply_updates first")
	ErrInvalidDiffDeleteNotSupported = errors.New("diff does not support deletions")

	// External-input-invalid (SSZ decode).
	ErrInvalidSSZLength = errors.New("invalid ssz encoding length")
	ErrInvalidSSZOffset = errors.New("invalid ssz offset")
)
