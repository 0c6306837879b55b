// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/jvstokes/iree/types/dtypes/bfloat16"
)

func TestFromGenericsType(t *testing.T) {
	assert.Equal(t, Float32, FromGenericsType[float32]())
	assert.Equal(t, Float64, FromGenericsType[float64]())
	assert.Equal(t, Float16, FromGenericsType[float16.Float16]())
	assert.Equal(t, BFloat16, FromGenericsType[bfloat16.BFloat16]())
	assert.Equal(t, Int32, FromGenericsType[int32]())
	assert.Equal(t, Int64, FromGenericsType[int64]())
	assert.Equal(t, Bool, FromGenericsType[bool]())
}

func TestIsFloat(t *testing.T) {
	for _, dtype := range []DType{Float16, BFloat16, Float32, Float64} {
		assert.True(t, dtype.IsFloat(), "dtype %s", dtype)
	}
	for _, dtype := range []DType{Bool, Int32, Int64, InvalidDType} {
		assert.False(t, dtype.IsFloat(), "dtype %s", dtype)
	}
	assert.True(t, Float16.IsFloat16())
	assert.True(t, BFloat16.IsFloat16())
	assert.False(t, Float32.IsFloat16())
}

// TestLowestFinite checks the max-reduction identity is the most-negative
// finite value of each concrete float type -- not a fixed constant, and not
// -Inf.
func TestLowestFinite(t *testing.T) {
	assert.Equal(t, -65504.0, Float16.LowestFinite())
	assert.Equal(t, -bfloat16.MaxValue.Float64(), BFloat16.LowestFinite())
	assert.Equal(t, -math.MaxFloat32, Float32.LowestFinite())
	assert.Equal(t, -math.MaxFloat64, Float64.LowestFinite())

	for _, dtype := range []DType{Float16, BFloat16, Float32, Float64} {
		lowest := dtype.LowestFinite()
		assert.False(t, math.IsInf(lowest, 0), "LowestFinite(%s) must be finite", dtype)
		assert.Equal(t, -lowest, dtype.HighestFinite())
	}

	require.Panics(t, func() { Int32.LowestFinite() })
	require.Panics(t, func() { InvalidDType.LowestFinite() })
}

// The 16-bit identities must survive a round-trip through their narrow
// representation unchanged, otherwise a reduction seeded with them would
// start from a perturbed value.
func TestLowestFiniteRoundTrip(t *testing.T) {
	f16 := float16.Fromfloat32(float32(Float16.LowestFinite()))
	assert.Equal(t, Float16.LowestFinite(), float64(f16.Float32()))
	bf16 := bfloat16.FromFloat64(BFloat16.LowestFinite())
	assert.Equal(t, BFloat16.LowestFinite(), bf16.Float64())
}

func TestMemory(t *testing.T) {
	assert.Equal(t, uintptr(2), Float16.Memory())
	assert.Equal(t, uintptr(2), BFloat16.Memory())
	assert.Equal(t, uintptr(4), Float32.Memory())
	assert.Equal(t, uintptr(8), Float64.Memory())
	assert.Equal(t, uintptr(1), Bool.Memory())
}

func TestDTypeString(t *testing.T) {
	for _, dtype := range DTypeValues() {
		parsed, err := DTypeString(dtype.String())
		require.NoError(t, err)
		assert.Equal(t, dtype, parsed)
	}
	// Lower-case names also parse.
	parsed, err := DTypeString("bfloat16")
	require.NoError(t, err)
	assert.Equal(t, BFloat16, parsed)
	_, err = DTypeString("float8")
	require.Error(t, err)
}
