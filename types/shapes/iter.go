// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import "iter"

// Iter iterates over all coordinates of the given shape, in row-major order
// (the last axis changes fastest).
//
// To avoid allocations the yielded slice is owned by Iter: don't modify or
// retain it inside the loop.
func (s Shape) Iter() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if !s.Ok() {
			return
		}
		rank := s.Rank()
		if rank == 0 {
			// Valid scalar: yield one empty coordinate.
			_ = yield(make([]int, 0))
			return
		}
		indices := make([]int, rank)
		for {
			if !yield(indices) {
				return
			}
			// Increment indices like an N-dimensional counter with carry-over.
			axis := rank - 1
			for ; axis >= 0; axis-- {
				indices[axis]++
				if indices[axis] < s.Dimensions[axis] {
					break
				}
				indices[axis] = 0
			}
			if axis < 0 {
				// The first axis overflowed, iteration is complete.
				return
			}
		}
	}
}
