// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package tensors implements a minimal host-memory tensor: a Shape plus a
// flat slice of the corresponding Go type, stored in row-major order.
//
// It is the value type consumed and produced by the IR evaluator
// (ir/interp), and the currency of the numeric tests: all data is accessible
// through a float64 bridge (FloatAt / SetFloatAt) regardless of the
// underlying element width.
package tensors

import (
	"reflect"

	"github.com/gomlx/exceptions"
	"github.com/x448/float16"

	"github.com/jvstokes/iree/types/dtypes"
	"github.com/jvstokes/iree/types/dtypes/bfloat16"
	"github.com/jvstokes/iree/types/shapes"
)

// Tensor is a host-memory tensor. The zero value is not valid: use FromShape
// or FromFlatAndDimensions.
type Tensor struct {
	shape shapes.Shape
	// flat is a slice of the shape's DType Go type, of length shape.Size(),
	// in row-major order.
	flat any
}

// FromShape returns a zero-initialized Tensor of the given shape.
func FromShape(shape shapes.Shape) *Tensor {
	if !shape.Ok() {
		exceptions.Panicf("tensors.FromShape: invalid shape %s", shape)
	}
	flat := reflect.MakeSlice(reflect.SliceOf(shape.DType.GoType()), shape.Size(), shape.Size())
	return &Tensor{shape: shape, flat: flat.Interface()}
}

// FromFlatAndDimensions creates a Tensor from a flat slice and dimensions.
// The dtype is inferred from the slice element type, and the flat slice is
// used directly (not copied).
func FromFlatAndDimensions[T dtypes.Supported](flat []T, dimensions ...int) *Tensor {
	dtype := dtypes.FromGenericsType[T]()
	shape := shapes.Make(dtype, dimensions...)
	if len(flat) != shape.Size() {
		exceptions.Panicf("tensors.FromFlatAndDimensions: flat has %d elements, shape %s requires %d",
			len(flat), shape, shape.Size())
	}
	return &Tensor{shape: shape, flat: flat}
}

// Shape of the tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType of the tensor elements.
func (t *Tensor) DType() dtypes.DType { return t.shape.DType }

// Size is the number of elements.
func (t *Tensor) Size() int { return t.shape.Size() }

// Flat returns the underlying flat slice, as an `any` of the dtype's slice
// type. Shared, not a copy.
func (t *Tensor) Flat() any { return t.flat }

// FlatData returns the typed flat data of the tensor.
// It panics if T doesn't match the tensor's dtype.
func FlatData[T dtypes.Supported](t *Tensor) []T {
	flat, ok := t.flat.([]T)
	if !ok {
		exceptions.Panicf("tensors.FlatData[%s]: tensor is %s", dtypes.FromGenericsType[T](), t.shape)
	}
	return flat
}

// flatIndex converts coordinates to the row-major flat index.
func (t *Tensor) flatIndex(indices []int) int {
	if len(indices) != t.shape.Rank() {
		exceptions.Panicf("tensor %s indexed with %d coordinates", t.shape, len(indices))
	}
	idx := 0
	for axis, i := range indices {
		idx = idx*t.shape.Dimensions[axis] + i
	}
	return idx
}

// FloatAt returns the element at the given coordinates converted to float64.
// Only valid for float dtypes.
func (t *Tensor) FloatAt(indices ...int) float64 {
	return t.FlatFloat64(t.flatIndex(indices))
}

// SetFloatAt sets the element at the given coordinates from a float64,
// rounding to the tensor's dtype. Only valid for float dtypes.
func (t *Tensor) SetFloatAt(value float64, indices ...int) {
	t.SetFlatFloat64(t.flatIndex(indices), value)
}

// FlatFloat64 returns element idx of the flat data converted to float64.
func (t *Tensor) FlatFloat64(idx int) float64 {
	switch flat := t.flat.(type) {
	case []float64:
		return flat[idx]
	case []float32:
		return float64(flat[idx])
	case []float16.Float16:
		return float64(flat[idx].Float32())
	case []bfloat16.BFloat16:
		return flat[idx].Float64()
	}
	exceptions.Panicf("FlatFloat64 undefined for dtype %s", t.DType())
	panic(nil) // Unreachable.
}

// SetFlatFloat64 sets element idx of the flat data from a float64, rounding
// to the tensor's dtype.
func (t *Tensor) SetFlatFloat64(idx int, value float64) {
	switch flat := t.flat.(type) {
	case []float64:
		flat[idx] = value
	case []float32:
		flat[idx] = float32(value)
	case []float16.Float16:
		flat[idx] = float16.Fromfloat32(float32(value))
	case []bfloat16.BFloat16:
		flat[idx] = bfloat16.FromFloat64(value)
	default:
		exceptions.Panicf("SetFlatFloat64 undefined for dtype %s", t.DType())
	}
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	t2 := FromShape(t.shape.Clone())
	reflect.Copy(reflect.ValueOf(t2.flat), reflect.ValueOf(t.flat))
	return t2
}

// Equal reports whether two tensors have the same shape and identical
// elements, compared bitwise on the underlying representation.
func (t *Tensor) Equal(t2 *Tensor) bool {
	if !t.shape.Equal(t2.shape) {
		return false
	}
	return reflect.DeepEqual(t.flat, t2.flat)
}
