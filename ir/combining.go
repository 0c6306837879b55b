// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"github.com/gomlx/exceptions"

	"github.com/jvstokes/iree/types/dtypes"
)

//go:generate go tool enumer -type=CombiningKind -trimprefix=Combining -output=gen_combiningkind_enumer.go combining.go

// CombiningKind is the fold operator of a reduction: a binary associative
// and commutative combine function together with its identity element.
// The fold order over a reduction axis is unspecified; associativity and
// commutativity are what make that legal.
type CombiningKind int

const (
	// CombiningMax folds by maximum. Its identity is the element type's
	// most-negative finite value.
	CombiningMax CombiningKind = iota

	// CombiningAdd folds by sum. Its identity is zero.
	CombiningAdd
)

// Identity returns the combine's identity element for the given element
// type, as a float64.
//
// For CombiningMax this is dtype.LowestFinite() rather than a fixed
// large-magnitude constant: a constant tuned for one float width either
// overflows narrower types or under-covers wider ones.
func (kind CombiningKind) Identity(dtype dtypes.DType) float64 {
	switch kind {
	case CombiningMax:
		return dtype.LowestFinite()
	case CombiningAdd:
		return 0
	}
	exceptions.Panicf("ir: unknown combining kind %s", kind)
	panic(nil) // Unreachable.
}

// ScalarCode returns the body opcode implementing the combine.
func (kind CombiningKind) ScalarCode() ScalarOpCode {
	switch kind {
	case CombiningMax:
		return ScalarMax
	case CombiningAdd:
		return ScalarAdd
	}
	exceptions.Panicf("ir: unknown combining kind %s", kind)
	panic(nil) // Unreachable.
}
