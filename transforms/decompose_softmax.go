// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package transforms

import (
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"

	"github.com/jvstokes/iree/ir"
)

// DecomposeSoftmax returns the transform that rewrites every composite
// softmax op into primitive structured ops.
//
// Given an N-dimensional tensor x, softmax(x) along axis d becomes:
//
//  1. m = max(x, axis=d), an (N-1)-dimensional reduction seeded with the
//     element type's most-negative finite value.
//
//  2. z = exp(x - m), an N-dimensional elementwise op broadcasting m along
//     d. Subtracting the per-slice max first bounds the exponent argument
//     to <= 0, so exp never overflows for large-magnitude inputs.
//
//  3. l = sum(z, axis=d), an (N-1)-dimensional reduction seeded with zero.
//
//  4. softmax = z / l, elementwise, broadcasting l along d. There is no
//     zero guard: an all -Inf slice divides by zero and produces NaN, per
//     standard floating-point semantics.
//
// Consumers of z that are themselves elementwise are opportunistically
// fused with the z-producing op, so z is not materialized for them; fusion
// failing just leaves z materialized. Replaced ops are erased only after
// the whole walk, consumers before producers.
func DecomposeSoftmax() Transform {
	return softmaxDecomposition{}
}

type softmaxDecomposition struct{}

// Name implements Transform.
func (softmaxDecomposition) Name() string { return "decompose-softmax" }

// IntroducedKinds implements Transform: downstream consumers must handle
// the primitive ops the decomposition emits.
func (softmaxDecomposition) IntroducedKinds() []ir.OpKind {
	return []ir.OpKind{ir.OpConstant, ir.OpEmpty, ir.OpFill, ir.OpGeneric}
}

// Run implements Transform. A structural precondition violation (reduction
// axis out of range, non-float element type) aborts the transform for the
// whole unit and is returned as an error; matches already rewritten before
// the violation stay rewritten and still get their scheduled erasures --
// there is no rollback.
func (softmaxDecomposition) Run(fn *ir.Func) error {
	var toDelete []*ir.Op
	matches := 0
	err := exceptions.TryCatch[error](func() {
		for softmaxOp := range fn.OpsOfKind(ir.OpSoftmax) {
			decomposeOneSoftmax(fn, softmaxOp, &toDelete)
			matches++
		}
	})
	// The deferred erasures run even when a later match aborted, so every
	// committed match ends in a consistent graph. An erase-order violation
	// here is a bug in this transform, not an input condition, and panics.
	eraseScheduled(toDelete)
	if err != nil {
		return err
	}
	klog.V(1).Infof("decompose-softmax: rewrote %d softmax ops in function %q", matches, fn.Name())
	return nil
}

// decomposeOneSoftmax rewrites a single matched softmax op, scheduling the
// ops it obsoletes on toDelete rather than erasing them mid-walk.
func decomposeOneSoftmax(fn *ir.Func, softmaxOp *ir.Op, toDelete *[]*ir.Op) {
	input := softmaxOp.Operand(0)
	shape := input.Shape()
	dtype := shape.DType
	axis := softmaxOp.SoftmaxAxis()
	if !dtype.IsFloat() {
		exceptions.Panicf("softmax on %s: element type must be floating-point", shape)
	}
	if shape.Rank() < 1 {
		exceptions.Panicf("softmax on %s: input must have rank >= 1", shape)
	}
	if axis < 0 || axis >= shape.Rank() {
		exceptions.Panicf("softmax on %s: reduction axis %d out of range", shape, axis)
	}

	b := ir.NewBuilder(fn)
	b.SetInsertionPointBefore(softmaxOp)
	fullSeed := b.Empty(shape.Clone())
	reducedSeed := b.Empty(shape.RemoveAxis(axis))

	// Max along axis, seeded with the dtype's most-negative finite value.
	lowest := b.Constant(dtype, ir.CombiningMax.Identity(dtype))
	max := reduce(b, ir.CombiningMax, input, b.Fill(lowest, reducedSeed), axis)

	// Subtract the max from the input and exponentiate.
	numeratorOp := subtractAndExp(b, input, max, fullSeed, axis)
	numerator := numeratorOp.Result()

	// Sum along axis, seeded with zero.
	zero := b.Constant(dtype, ir.CombiningAdd.Identity(dtype))
	denominator := reduce(b, ir.CombiningAdd, numerator, b.Fill(zero, reducedSeed), axis)

	// Normalize.
	result := divide(b, numerator, denominator, fullSeed, axis)
	softmaxOp.Result().ReplaceAllUsesWith(result)
	*toDelete = append(*toDelete, softmaxOp)

	// Fuse the numerator computation into elementwise consumers (including
	// the just-built divide), rematerializing exp(x-m) in their bodies. A
	// failed fusion is a normal outcome: that consumer keeps reading the
	// materialized numerator.
	for _, use := range numerator.Uses() {
		consumer := use.Owner
		fusion, ok := ir.FuseElementwiseOps(use)
		if !ok {
			continue
		}
		for oldValue, newValue := range fusion.Replacements {
			oldValue.ReplaceAllUsesWith(newValue)
		}
		*toDelete = append(*toDelete, consumer)
	}
	if numerator.NumUses() == 0 {
		*toDelete = append(*toDelete, numeratorOp)
	}
}

// computeIteratorTypesAndIndexingMaps classifies each of the rank axes and
// builds the two indexing maps of a rank -> rank-1 reduction along axis:
// the input's identity map and the output's projection dropping axis.
//
// With allParallel every axis is parallel and both maps are the full
// identity, as needed by elementwise ops where no axis is collapsed.
// Callers broadcasting a reduced-rank operand against a full-rank one
// append the projection map for it; map count must always end up equal to
// the op's input count plus one. No axis reordering is ever introduced.
func computeIteratorTypesAndIndexingMaps(rank, axis int, allParallel bool) ([]ir.IteratorKind, []ir.IndexingMap) {
	iterators := make([]ir.IteratorKind, rank)
	if !allParallel {
		iterators[axis] = ir.IteratorReduction
	}
	identity := ir.IdentityMap(rank)
	var second ir.IndexingMap
	if allParallel {
		second = identity
	} else {
		second = ir.ProjectedMap(rank, axis)
	}
	return iterators, []ir.IndexingMap{identity, second}
}

// reduce emits one reduction op folding input along axis into init, which
// has rank one less than input and is pre-filled with kind's identity
// element. The fold order along the axis is unspecified; kind's combine is
// associative and commutative, so any order is valid.
func reduce(b *ir.Builder, kind ir.CombiningKind, input, init *ir.Value, axis int) *ir.Value {
	rank := input.Rank()
	iterators, maps := computeIteratorTypesAndIndexingMaps(rank, axis, false)
	body := &ir.Body{
		NumArgs: 2,
		Instrs:  []ir.ScalarInstr{{Code: kind.ScalarCode(), LHS: ir.Arg(1), RHS: ir.Arg(0)}},
		Yield:   ir.InstrRef(0),
	}
	op := b.Generic([]*ir.Value{input}, init, maps, iterators, body)
	return op.Result()
}

// subtractAndExp emits the elementwise op computing exp(input - max), with
// max broadcast along axis. It returns the op rather than its value so the
// driver can schedule it for deletion if fusion leaves it unused.
func subtractAndExp(b *ir.Builder, input, max, output *ir.Value, axis int) *ir.Op {
	rank := input.Rank()
	iterators, maps := computeIteratorTypesAndIndexingMaps(rank, axis, true)
	maps = []ir.IndexingMap{maps[0], ir.ProjectedMap(rank, axis), maps[1]}
	body := &ir.Body{
		NumArgs: 3,
		Instrs: []ir.ScalarInstr{
			{Code: ir.ScalarSub, LHS: ir.Arg(0), RHS: ir.Arg(1)},
			{Code: ir.ScalarExp, LHS: ir.InstrRef(0)},
		},
		Yield: ir.InstrRef(1),
	}
	return b.Generic([]*ir.Value{input, max}, output, maps, iterators, body)
}

// divide emits the elementwise op computing numerator / denominator, with
// the denominator broadcast along axis.
func divide(b *ir.Builder, numerator, denominator, output *ir.Value, axis int) *ir.Value {
	rank := numerator.Rank()
	iterators, maps := computeIteratorTypesAndIndexingMaps(rank, axis, true)
	maps = []ir.IndexingMap{maps[0], ir.ProjectedMap(rank, axis), maps[1]}
	body := &ir.Body{
		NumArgs: 3,
		Instrs:  []ir.ScalarInstr{{Code: ir.ScalarDiv, LHS: ir.Arg(0), RHS: ir.Arg(1)}},
		Yield:   ir.InstrRef(0),
	}
	op := b.Generic([]*ir.Value{numerator, denominator}, output, maps, iterators, body)
	return op.Result()
}

// eraseScheduled erases the scheduled ops in an order where an op is erased
// only once its results have zero remaining uses -- consumers strictly
// before their producers. It repeatedly sweeps the pending list; a sweep
// that makes no progress means the batching discipline was violated, which
// is an internal invariant failure, not an input condition.
func eraseScheduled(toDelete []*ir.Op) {
	pending := toDelete
	for len(pending) > 0 {
		remaining := pending[:0]
		for _, op := range pending {
			if liveUses(op) > 0 {
				remaining = append(remaining, op)
				continue
			}
			op.Erase()
		}
		if len(remaining) == len(pending) {
			exceptions.Panicf("decompose-softmax: erase-order violation, %d scheduled ops still have live uses",
				len(remaining))
		}
		pending = remaining
	}
}

func liveUses(op *ir.Op) (n int) {
	for _, result := range op.Results() {
		n += result.NumUses()
	}
	return
}
