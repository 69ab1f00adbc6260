// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

// Builder performs O(n) bulk construction of a tree from a stream of
// values (or, via PushNode, from a stream of pre-built subtrees), using a
// right-leaning merge stack so that no intermediate subtree is ever
// rebuilt more than once (spec §4.3).
type Builder[T Value] struct {
	stack []*Tree[T]

	depth   int
	level   int // 0: stack elements are single values. >=1: stack elements are whole subtrees at this depth (used by pop_front).
	length  uint64
	packingDepth int
	capacity uint64
}

// BuilderOption configures a Builder at construction time.
type BuilderOption[T Value] func(*Builder[T])

// WithLevel sets the builder's level: the tree depth at which each pushed
// element (via PushNode) represents a whole subtree. Level 0 (the default)
// means Push takes individual values.
func WithLevel[T Value](level int) BuilderOption[T] {
	return func(b *Builder[T]) { b.level = level }
}

// NewBuilder constructs a Builder that will produce a tree of the given
// depth (Node levels above the leaf/packed-leaf level).
func NewBuilder[T Value](depth int, opts ...BuilderOption[T]) (*Builder[T], error) {
	pd := log2Floor(uint64(packingFactorOf[T]()))
	if depth+pd > MaxTreeDepth {
		return nil, ErrBuilderInvalidDepth
	}
	b := &Builder[T]{
		stack:        make([]*Tree[T], 0, depth+1),
		depth:        depth,
		packingDepth: pd,
		capacity:     uint64(1) << uint(depth+pd),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Push appends value as the next leaf (spec §4.3's push(value) algorithm):
// pack it into the open PackedLeaf on the stack top if T is basic and the
// current index isn't chunk-aligned, else start a fresh Leaf/PackedLeaf;
// then fold completed left siblings up the merge stack.
func (b *Builder[T]) Push(value T) error {
	if b.level != 0 {
		return ErrPushNotSupported
	}
	if b.length >= b.capacity {
		return ErrBuilderFull
	}

	index := b.length
	var newTop *Tree[T]

	if pf := packingFactorOf[T](); pf > 1 {
		if index%uint64(pf) == 0 {
			newTop = PackedTree[T](SinglePackedLeaf[T](value, pf))
		} else {
			top, err := b.pop()
			if err != nil {
				return err
			}
			if top.k != kindPacked {
				return ErrBuilderExpectedLeaf
			}
			p, err := top.packed.Push(value, pf)
			if err != nil {
				return err
			}
			newTop = PackedTree[T](p)
		}
	} else {
		newTop = LeafTree[T](value)
	}

	nextIndex := index + 1
	values := trailingZerosSat(nextIndex, b.packingDepth)
	for i := 0; i < values; i++ {
		left, err := b.pop()
		if err != nil {
			return ErrBuilderStackEmptyMerge
		}
		newTop = NodeTree[T](b.level+i+1, left, newTop)
	}

	b.stack = append(b.stack, newTop)
	b.length++
	return nil
}

// PushNode appends an already-built subtree of `length` logical elements at
// b.level (spec §4.3's push_node, used by pop_front to re-fold whole
// subtrees rather than individual values).
func (b *Builder[T]) PushNode(subtree *Tree[T], length uint64) error {
	nextIndexOnLevel := (b.length >> uint(b.level+b.packingDepth)) + 1
	newTop := subtree

	values := trailingZerosSat(nextIndexOnLevel, 0)
	for i := 0; i < values; i++ {
		left, err := b.pop()
		if err != nil {
			return ErrBuilderStackEmptyMerge
		}
		newTop = NodeTree[T](b.level+i+1, left, newTop)
	}

	b.stack = append(b.stack, newTop)
	b.length += length
	return nil
}

// Finish pads any partial trailing PackedLeaf, fills the remainder of the
// tree with right-hand Zero subtrees (merging upward wherever trailing-zero
// arithmetic allows), and returns the single resulting root, its depth, and
// its logical length.
func (b *Builder[T]) Finish() (*Tree[T], int, uint64, error) {
	if len(b.stack) == 0 {
		return ZeroTree[T](b.depth), b.depth, 0, nil
	}

	pf := uint64(packingFactorOf[T]())
	nextIndex := b.length

	if b.level > 0 {
		// Stack elements are whole level-sized subtrees: padding resumes at
		// the next index aligned to one such subtree.
		unit := uint64(1) << uint(b.level+b.packingDepth)
		nextIndex = (b.length + unit - 1) / unit * unit
	} else if pf > 1 {
		skip := (pf - b.length%pf) % pf
		if skip > 0 {
			for i := 0; i < b.depth; i++ {
				if (nextIndex>>uint(i+b.packingDepth))&1 == 1 {
					right, err := b.pop()
					if err != nil {
						return nil, 0, 0, ErrBuilderStackEmptyFinish
					}
					left, err := b.pop()
					if err != nil {
						return nil, 0, 0, ErrBuilderStackEmptyFinish
					}
					b.stack = append(b.stack, NodeTree[T](b.level+i+1, left, right))
				} else {
					break
				}
			}
			nextIndex += skip
		}
	}

	for nextIndex != b.capacity {
		d := trailingZerosSat(nextIndex, b.packingDepth)

		top, err := b.pop()
		if err != nil {
			return nil, 0, 0, ErrBuilderStackEmptyFinalize
		}
		newTop := NodeTree[T](d+1, top, ZeroTree[T](d))
		b.stack = append(b.stack, newTop)

		for i := d + 1; i < b.depth; i++ {
			if (nextIndex>>uint(i+b.packingDepth))&1 == 1 {
				right, err := b.pop()
				if err != nil {
					return nil, 0, 0, ErrBuilderStackEmptyFinalize
				}
				left, err := b.pop()
				if err != nil {
					return nil, 0, 0, ErrBuilderStackEmptyFinalize
				}
				b.stack = append(b.stack, NodeTree[T](i+1, left, right))
			} else {
				break
			}
		}

		nextIndex += uint64(1) << uint(d+b.packingDepth)
	}

	if len(b.stack) != 1 {
		return nil, 0, 0, ErrBuilderStackLeftover
	}

	root, _ := b.pop()
	return root, b.depth, b.length, nil
}

func (b *Builder[T]) pop() (*Tree[T], error) {
	if len(b.stack) == 0 {
		return nil, ErrBuilderStackEmptyMerge
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return top, nil
}

// trailingZerosSat returns trailing_zeros(n) saturating-subtracted by sub
// (never negative), matching the Rust original's
// `n.trailing_zeros().saturating_sub(sub)`.
func trailingZerosSat(n uint64, sub int) int {
	tz := trailingZeros64(n)
	if tz < sub {
		return 0
	}
	return tz - sub
}
