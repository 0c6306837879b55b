// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMap(t *testing.T) {
	m := IdentityMap(3)
	assert.Equal(t, 3, m.NumDims)
	assert.Equal(t, 3, m.NumResults())
	assert.True(t, m.IsIdentity())
	assert.Equal(t, "(d0, d1, d2) -> (d0, d1, d2)", m.String())
	assert.Equal(t, []int{5, 7, 9}, m.Apply([]int{5, 7, 9}, nil))
	require.NoError(t, m.Validate(3))
	require.Error(t, m.Validate(2))
}

func TestProjectedMap(t *testing.T) {
	tests := []struct {
		rank, axis int
		want       string
	}{
		{rank: 1, axis: 0, want: "(d0) -> ()"},
		{rank: 2, axis: 0, want: "(d0, d1) -> (d1)"},
		{rank: 2, axis: 1, want: "(d0, d1) -> (d0)"},
		{rank: 3, axis: 1, want: "(d0, d1, d2) -> (d0, d2)"},
	}
	for _, test := range tests {
		m := ProjectedMap(test.rank, test.axis)
		assert.Equal(t, test.want, m.String())
		assert.Equal(t, test.rank-1, m.NumResults())
		assert.False(t, m.IsIdentity())
		require.NoError(t, m.Validate(test.rank))
	}

	// The dropped axis never appears, relative order is preserved.
	m := ProjectedMap(4, 2)
	assert.Equal(t, []int{0, 1, 3}, m.DimResults)
	assert.Equal(t, []int{10, 11, 13}, m.Apply([]int{10, 11, 12, 13}, nil))

	require.Panics(t, func() { ProjectedMap(2, 2) })
	require.Panics(t, func() { ProjectedMap(2, -1) })
}

func TestMapCompose(t *testing.T) {
	// Dropping axis 1 of rank 3 then axis 0 of the remaining rank 2 is the
	// projection keeping only the original d2.
	outer := ProjectedMap(2, 0)
	inner := ProjectedMap(3, 1)
	composed := outer.Compose(inner)
	assert.Equal(t, 3, composed.NumDims)
	assert.Equal(t, []int{2}, composed.DimResults)

	// Identity composes as a no-op on either side.
	m := ProjectedMap(3, 0)
	assert.Equal(t, m, m.Compose(IdentityMap(3)))
	assert.Equal(t, m, IdentityMap(2).Compose(m))

	require.Panics(t, func() { outer.Compose(IdentityMap(3)) })
}

func TestMapApplyReusesBuffer(t *testing.T) {
	m := ProjectedMap(3, 2)
	buf := make([]int, 0, 3)
	out := m.Apply([]int{1, 2, 3}, buf)
	assert.Equal(t, []int{1, 2}, out)
	require.Panics(t, func() { m.Apply([]int{1, 2}, nil) })
}
