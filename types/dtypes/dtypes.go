// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package dtypes defines the DType enum of tensor element types supported by
// the compiler, along with conversion bridges to the corresponding Go types.
//
// Float16 uses github.com/x448/float16; bfloat16 is implemented in the
// bfloat16 subpackage.
//
// For the reduction identities used when decomposing normalization operators,
// the package also exposes per-dtype finite bounds (LowestFinite /
// HighestFinite): the identity of a max-reduction must be the most-negative
// finite value of the concrete element type, not a constant tuned for one
// particular width.
package dtypes

import (
	"math"
	"reflect"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/jvstokes/iree/types/dtypes/bfloat16"
)

// panicf panics with the formatted description and a stack trace.
//
// Only used for "bugs in the code" -- when parameters don't follow the
// specifications.
func panicf(format string, args ...any) {
	panic(errors.Errorf(format, args...))
}

//go:generate go tool enumer -type=DType -output=dtype_enumer.go

// DType is the element type of a tensor value.
type DType int32

const (
	// InvalidDType is the zero value, for uninitialized shapes.
	InvalidDType DType = iota

	// Bool elements.
	Bool

	// Int32 elements.
	Int32

	// Int64 elements.
	Int64

	// Float16 is the IEEE 754 half-precision float.
	Float16

	// BFloat16 is the brain floating point format (truncated float32).
	BFloat16

	// Float32 is the IEEE 754 single-precision float.
	Float32

	// Float64 is the IEEE 754 double-precision float.
	Float64
)

// Supported is the constraint of Go types representable as a DType.
type Supported interface {
	bool | int32 | int64 | float16.Float16 | bfloat16.BFloat16 | float32 | float64
}

// Float is the constraint of Go types representable as a floating-point DType.
type Float interface {
	float16.Float16 | bfloat16.BFloat16 | float32 | float64
}

// FromGenericsType returns the DType for the given Go type.
func FromGenericsType[T Supported]() DType {
	var t T
	return FromGoType(reflect.TypeOf(t))
}

var (
	float16Type  = reflect.TypeOf(float16.Float16(0))
	bfloat16Type = reflect.TypeOf(bfloat16.BFloat16(0))
)

// FromGoType returns the DType for the reflection of a Go type, or
// InvalidDType if the type is not supported.
func FromGoType(t reflect.Type) DType {
	switch t {
	case float16Type:
		return Float16
	case bfloat16Type:
		return BFloat16
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int32:
		return Int32
	case reflect.Int64:
		return Int64
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	}
	return InvalidDType
}

// GoType returns the Go reflect.Type backing the DType.
func (dtype DType) GoType() reflect.Type {
	switch dtype {
	case Bool:
		return reflect.TypeOf(true)
	case Int32:
		return reflect.TypeOf(int32(0))
	case Int64:
		return reflect.TypeOf(int64(0))
	case Float16:
		return float16Type
	case BFloat16:
		return bfloat16Type
	case Float32:
		return reflect.TypeOf(float32(0))
	case Float64:
		return reflect.TypeOf(float64(0))
	}
	panicf("unknown dtype %q (%d) in DType.GoType", dtype, dtype)
	panic(nil) // Unreachable.
}

// Memory returns the number of bytes one element of the DType occupies.
func (dtype DType) Memory() uintptr {
	if dtype == Bool {
		return 1
	}
	return dtype.GoType().Size()
}

// IsFloat returns whether the DType is one of the floating-point types.
func (dtype DType) IsFloat() bool {
	return dtype == Float16 || dtype == BFloat16 || dtype == Float32 || dtype == Float64
}

// IsFloat16 returns whether the DType is one of the 16-bit float formats.
func (dtype DType) IsFloat16() bool {
	return dtype == Float16 || dtype == BFloat16
}

// LowestFinite returns the most-negative finite value of a floating-point
// DType, as a float64. It is the identity element of a max-reduction: unlike
// -Inf it survives round-trips through the narrow 16-bit formats without
// poisoning arithmetic on platforms that flush infinities.
//
// It panics for non-float dtypes, which have no meaningful answer here.
func (dtype DType) LowestFinite() float64 {
	switch dtype {
	case Float16:
		return -float64(float16.Float16(0x7BFF).Float32()) // -65504
	case BFloat16:
		return -bfloat16.MaxValue.Float64()
	case Float32:
		return -math.MaxFloat32
	case Float64:
		return -math.MaxFloat64
	}
	panicf("LowestFinite is only defined for float dtypes, got %s", dtype)
	panic(nil) // Unreachable.
}

// HighestFinite returns the largest finite value of a floating-point DType,
// as a float64. Panics for non-float dtypes.
func (dtype DType) HighestFinite() float64 {
	return -dtype.LowestFinite()
}
