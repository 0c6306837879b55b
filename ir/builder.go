// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"github.com/gomlx/exceptions"

	"github.com/jvstokes/iree/types/dtypes"
	"github.com/jvstokes/iree/types/shapes"
)

// Builder creates ops in a Func at a chosen insertion point.
//
// All structural validation happens here, at op-creation time, panicking
// with a stack trace on violation (see the package documentation): code
// downstream of the Builder can assume well-formed ops.
type Builder struct {
	fn *Func

	// insertBefore is the op new ops are inserted before; nil appends at
	// the end of the function.
	insertBefore *Op
}

// NewBuilder returns a Builder appending to the end of fn.
func NewBuilder(fn *Func) *Builder {
	if fn == nil {
		exceptions.Panicf("ir.NewBuilder: fn is nil")
	}
	return &Builder{fn: fn}
}

// SetInsertionPointBefore makes new ops get inserted immediately before pos.
func (b *Builder) SetInsertionPointBefore(pos *Op) {
	if pos == nil || pos.fn != b.fn {
		exceptions.Panicf("ir.Builder.SetInsertionPointBefore: op is nil or from another function")
	}
	b.insertBefore = pos
}

// SetInsertionPointToEnd makes new ops append at the end of the function.
func (b *Builder) SetInsertionPointToEnd() {
	b.insertBefore = nil
}

// newOp creates and inserts an op, wiring operand use lists and minting
// result values for each result shape.
func (b *Builder) newOp(kind OpKind, data any, operands []*Value, resultShapes ...shapes.Shape) *Op {
	for idx, operand := range operands {
		if operand == nil {
			exceptions.Panicf("ir: operand #%d of new %s op is nil", idx, kind)
		}
	}
	op := &Op{kind: kind, fn: b.fn, data: data, operands: operands}
	for idx, operand := range operands {
		operand.addUse(Use{Owner: op, OperandIdx: idx})
	}
	op.results = make([]*Value, len(resultShapes))
	for ii, shape := range resultShapes {
		op.results[ii] = &Value{id: b.fn.nextValueID, shape: shape, def: op}
		b.fn.nextValueID++
	}
	b.fn.insertBefore(op, b.insertBefore)
	return op
}

// Parameter declares a function input of the given shape and returns its
// value. Parameters are ops; declare them before other ops.
func (b *Builder) Parameter(name string, shape shapes.Shape) *Value {
	if !shape.Ok() {
		exceptions.Panicf("ir.Builder.Parameter(%q): invalid shape", name)
	}
	op := b.newOp(OpParameter, &opParameter{name: name}, nil, shape)
	b.fn.params = append(b.fn.params, op.Result())
	return op.Result()
}

// Constant creates a scalar constant of the given dtype.
func (b *Builder) Constant(dtype dtypes.DType, value float64) *Value {
	if !dtype.IsFloat() {
		exceptions.Panicf("ir.Builder.Constant: only float scalar constants are supported, got %s", dtype)
	}
	op := b.newOp(OpConstant, &opConstant{value: value}, nil, shapes.Scalar(dtype))
	return op.Result()
}

// Empty creates an uninitialized tensor of the given shape, to seed the
// destination of Fill and Generic ops.
func (b *Builder) Empty(shape shapes.Shape) *Value {
	if !shape.Ok() {
		exceptions.Panicf("ir.Builder.Empty: invalid shape")
	}
	op := b.newOp(OpEmpty, nil, nil, shape)
	return op.Result()
}

// Fill broadcasts the scalar value over the shape of the destination seed.
func (b *Builder) Fill(scalar, init *Value) *Value {
	if !scalar.Shape().IsScalar() {
		exceptions.Panicf("ir.Builder.Fill: fill value must be a scalar, got %s", scalar.Shape())
	}
	if scalar.Shape().DType != init.Shape().DType {
		exceptions.Panicf("ir.Builder.Fill: fill value dtype %s doesn't match destination %s",
			scalar.Shape().DType, init.Shape())
	}
	op := b.newOp(OpFill, nil, []*Value{scalar, init}, init.Shape().Clone())
	return op.Result()
}

// Generic creates a structured op: inputs plus a destination seed, one
// indexing map per input plus one shared by the seed and the result,
// per-axis iterator kinds, and the scalar body evaluated per element.
// The result has the seed's shape.
func (b *Builder) Generic(inputs []*Value, init *Value, maps []IndexingMap,
	iterators []IteratorKind, body *Body) *Op {
	numInputs := len(inputs)
	if numInputs == 0 {
		exceptions.Panicf("ir.Builder.Generic: at least one input is required")
	}
	if len(maps) != numInputs+1 {
		exceptions.Panicf("ir.Builder.Generic: %d indexing maps for %d inputs -- need one per input plus one for the result",
			len(maps), numInputs)
	}
	rank := len(iterators)
	if rank == 0 {
		exceptions.Panicf("ir.Builder.Generic: empty iteration space")
	}
	numReduction := 0
	for _, it := range iterators {
		if it == IteratorReduction {
			numReduction++
		}
	}
	if numReduction > 1 {
		exceptions.Panicf("ir.Builder.Generic: %d reduction axes -- a reduction op folds exactly one axis", numReduction)
	}
	for ii, m := range maps {
		if err := m.Validate(rank); err != nil {
			exceptions.Panicf("ir.Builder.Generic: indexing map #%d: %v", ii, err)
		}
	}

	// Every operand's rank and dimensions must agree with its map through
	// the shared iteration space.
	iterDims := make([]int, rank)
	operands := append(append(make([]*Value, 0, numInputs+1), inputs...), init)
	for idx, operand := range operands {
		m := maps[min(idx, numInputs)]
		if m.NumResults() != operand.Rank() {
			exceptions.Panicf("ir.Builder.Generic: operand #%d has rank %d but its map %s produces %d coordinates",
				idx, operand.Rank(), m, m.NumResults())
		}
		if operand.Shape().DType != init.Shape().DType {
			exceptions.Panicf("ir.Builder.Generic: operand #%d dtype %s doesn't match destination dtype %s",
				idx, operand.Shape().DType, init.Shape().DType)
		}
		for jj, dim := range m.DimResults {
			size := operand.Shape().Dimensions[jj]
			if iterDims[dim] == 0 {
				iterDims[dim] = size
			} else if iterDims[dim] != size {
				exceptions.Panicf("ir.Builder.Generic: operand #%d dimension %d (=%d) conflicts with iteration dimension d%d (=%d)",
					idx, jj, size, dim, iterDims[dim])
			}
		}
	}
	for dim, size := range iterDims {
		if size == 0 {
			exceptions.Panicf("ir.Builder.Generic: iteration dimension d%d is not bound by any operand", dim)
		}
	}

	if body == nil {
		exceptions.Panicf("ir.Builder.Generic: body is nil")
	}
	if body.NumArgs != numInputs+1 {
		exceptions.Panicf("ir.Builder.Generic: body declares %d arguments, op provides %d (inputs plus accumulator)",
			body.NumArgs, numInputs+1)
	}
	if err := body.Validate(); err != nil {
		exceptions.Panicf("ir.Builder.Generic: invalid body: %v", err)
	}

	data := &opGeneric{numInputs: numInputs, maps: maps, iterators: iterators, body: body}
	return b.newOp(OpGeneric, data, operands, init.Shape().Clone())
}

// Softmax creates the composite reduce-then-normalize op over the given
// axis.
//
// The axis and element type are deliberately not validated here: the
// decompose transform owns those structural preconditions and reports their
// violation as a unit-level failure.
func (b *Builder) Softmax(input *Value, axis int) *Value {
	op := b.newOp(OpSoftmax, &opSoftmax{axis: axis}, []*Value{input}, input.Shape().Clone())
	return op.Result()
}

// Return terminates the function, yielding the given values.
func (b *Builder) Return(values ...*Value) *Op {
	if b.fn.ReturnOp() != nil {
		exceptions.Panicf("ir.Builder.Return: function %q already has a return", b.fn.name)
	}
	return b.newOp(OpReturn, nil, values)
}
