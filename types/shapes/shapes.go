// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines Shape, the static type of a tensor value in the
// compiler IR: an element DType plus an ordered list of dimension sizes.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of a tensor.
//   - Axis: the index of a dimension. A shape of rank 3 has axes 0, 1 and 2.
//   - Dimension: the size of the tensor along one axis.
//   - Scalar: a shape of rank 0, a single value of the associated DType.
//
// Example: a `[][]float32{{0, 1, 2}, {3, 4, 5}}` tensor has shape
// `(Float32)[2 3]`: rank 2, axis 0 with dimension 2 and axis 1 with
// dimension 3. It would be created with `shapes.Make(dtypes.Float32, 2, 3)`.
package shapes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"

	"github.com/jvstokes/iree/types"
	"github.com/jvstokes/iree/types/dtypes"
)

// Shape represents the shape of a tensor value: its element type and the
// size of each of its axes.
//
// Use Make to create a new Shape.
type Shape struct {
	DType      dtypes.DType
	Dimensions []int
}

// Make returns a Shape filled with the given values.
// It panics if any dimension is not positive.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	s := Shape{DType: dtype, Dimensions: slices.Clone(dimensions)}
	for _, dim := range dimensions {
		if dim <= 0 {
			exceptions.Panicf("shapes.Make(%s): cannot create a shape with an axis with dimension <= 0", s)
		}
	}
	return s
}

// Scalar returns a rank-0 Shape of the given dtype.
func Scalar(dtype dtypes.DType) Shape {
	return Shape{DType: dtype}
}

// Invalid returns an invalid Shape: Invalid().Ok() == false.
func Invalid() Shape {
	return Shape{DType: dtypes.InvalidDType}
}

// Ok returns whether this is a valid Shape. The zero value Shape{} is invalid.
func (s Shape) Ok() bool { return s.DType != dtypes.InvalidDType }

// Rank of the shape, the number of axes. Scalars have rank 0.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape is valid with rank 0.
func (s Shape) IsScalar() bool { return s.Ok() && s.Rank() == 0 }

// Dim returns the dimension of the given axis. axis can be negative, in
// which case it is taken from the end -- Dim(-1) is the last dimension.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if adjustedAxis < 0 {
		adjustedAxis += s.Rank()
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		exceptions.Panicf("shape %s has no axis %d", s, axis)
	}
	return s.Dimensions[adjustedAxis]
}

// Size returns the number of elements in the tensor of this shape.
// A scalar has size 1.
func (s Shape) Size() int {
	return types.Product(s.Dimensions)
}

// Memory returns the number of bytes a tensor of this shape occupies.
func (s Shape) Memory() uintptr {
	return s.DType.Memory() * uintptr(s.Size())
}

// Clone makes a deep copy of the shape.
func (s Shape) Clone() (s2 Shape) {
	s2.DType = s.DType
	s2.Dimensions = slices.Clone(s.Dimensions)
	return
}

// Equal compares dtype and dimensions.
func (s Shape) Equal(s2 Shape) bool {
	return s.DType == s2.DType && slices.Equal(s.Dimensions, s2.Dimensions)
}

// RemoveAxis returns the shape with the given axis dropped, preserving the
// relative order of the remaining axes. It's the shape of a reduction of
// this shape along axis.
func (s Shape) RemoveAxis(axis int) Shape {
	if axis < 0 || axis >= s.Rank() {
		exceptions.Panicf("shape %s has no axis %d to remove", s, axis)
	}
	s2 := Shape{DType: s.DType, Dimensions: make([]int, 0, s.Rank()-1)}
	s2.Dimensions = append(s2.Dimensions, s.Dimensions[:axis]...)
	s2.Dimensions = append(s2.Dimensions, s.Dimensions[axis+1:]...)
	return s2
}

// Strides returns the row-major strides of the shape, in elements.
func (s Shape) Strides() []int {
	strides := make([]int, s.Rank())
	stride := 1
	for axis := s.Rank() - 1; axis >= 0; axis-- {
		strides[axis] = stride
		stride *= s.Dimensions[axis]
	}
	return strides
}

// String implements fmt.Stringer: it prints like `(Float32)[2 3]`.
func (s Shape) String() string {
	if !s.Ok() {
		return "(invalid shape)"
	}
	if s.IsScalar() {
		return fmt.Sprintf("(%s)", s.DType)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "(%s)[", s.DType)
	for ii, dim := range s.Dimensions {
		if ii > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", dim)
	}
	b.WriteByte(']')
	return b.String()
}
