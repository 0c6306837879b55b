// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package bfloat16 implements the 16-bit brain floating point type: a
// float32 with the mantissa truncated to 7 bits. It keeps the float32
// exponent range, which is what makes it usable as an accumulator-friendly
// element type on ML accelerators.
package bfloat16

import (
	"math"
	"strconv"
)

// BFloat16 is stored as the high 16 bits of the equivalent float32.
type BFloat16 uint16

// FromFloat32 converts, truncating the mantissa.
func FromFloat32(x float32) BFloat16 {
	return BFloat16(math.Float32bits(x) >> 16)
}

// FromFloat64 converts through float32.
func FromFloat64(x float64) BFloat16 {
	return FromFloat32(float32(x))
}

// Float32 returns the exact float32 this BFloat16 represents.
func (f BFloat16) Float32() float32 {
	return math.Float32frombits(uint32(f) << 16)
}

// Float64 returns the exact float64 this BFloat16 represents.
func (f BFloat16) Float64() float64 {
	return float64(f.Float32())
}

// Bits returns the raw bit pattern.
func (f BFloat16) Bits() uint16 { return uint16(f) }

// FromBits builds a BFloat16 from a raw bit pattern.
func FromBits(bits uint16) BFloat16 { return BFloat16(bits) }

// Inf returns an infinity of the given sign (sign >= 0 is +Inf).
func Inf(sign int) BFloat16 {
	return FromFloat32(float32(math.Inf(sign)))
}

// IsInf reports whether f is an infinity.
func (f BFloat16) IsInf() bool {
	f32 := f.Float32()
	return math.IsInf(float64(f32), 0)
}

// IsNaN reports whether f is a NaN.
func (f BFloat16) IsNaN() bool {
	f32 := f.Float32()
	return f32 != f32
}

// MaxValue is the largest finite BFloat16, 0x1.FEp127 ≈ 3.3895e38.
const MaxValue = BFloat16(0x7F7F)

// SmallestNonzero is the smallest denormal BFloat16 value.
const SmallestNonzero = BFloat16(0x0001)

// String implements fmt.Stringer, printing the float value.
func (f BFloat16) String() string {
	return strconv.FormatFloat(f.Float64(), 'f', -1, 32)
}
