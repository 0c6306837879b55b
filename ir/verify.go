// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"github.com/pkg/errors"
)

// Verify checks the structural invariants of the function:
//
//   - every operand is produced by an op that appears earlier in the list
//     (defs dominate uses) and belongs to this function;
//   - use lists are consistent with operand lists;
//   - Generic ops have one indexing map per input plus one for the result,
//     all with domain rank equal to the iteration-space rank, at most one
//     reduction axis, and a result shape equal to their destination seed's;
//   - a reduction Generic's result shape is its input shape with the
//     reduction axis removed;
//   - the function ends in the unique OpReturn, if one was built.
//
// The Builder enforces these at construction time; Verify exists to catch
// transform bugs that corrupt an already-built graph, and is run by the
// pipeline after each transform.
func (f *Func) Verify() error {
	seen := make(map[*Value]bool)
	for op := f.firstOp; op != nil; op = op.next {
		if op.fn != f {
			return errors.Errorf("op %s belongs to another function", op)
		}
		if op.kind == OpReturn && op.next != nil {
			return errors.Errorf("return op is not last in function %q", f.name)
		}
		for idx, operand := range op.operands {
			if !seen[operand] {
				return errors.Errorf("operand #%d of op %q is used before its definition", idx, op)
			}
			if !hasUse(operand, Use{Owner: op, OperandIdx: idx}) {
				return errors.Errorf("use list of %s is missing operand #%d of op %q", operand.Name(), idx, op)
			}
		}
		for _, result := range op.results {
			if result.def != op {
				return errors.Errorf("result %s of op %q has a different defining op", result.Name(), op)
			}
			seen[result] = true
		}
		if op.kind == OpGeneric {
			if err := verifyGeneric(op); err != nil {
				return errors.WithMessagef(err, "op %q", op)
			}
		}
	}
	return nil
}

func hasUse(v *Value, use Use) bool {
	for _, existing := range v.uses {
		if existing == use {
			return true
		}
	}
	return false
}

func verifyGeneric(op *Op) error {
	data := op.data.(*opGeneric)
	rank := len(data.iterators)
	if len(data.maps) != data.numInputs+1 {
		return errors.Errorf("%d indexing maps for %d inputs, want inputs plus one", len(data.maps), data.numInputs)
	}
	if len(op.operands) != data.numInputs+1 {
		return errors.Errorf("%d operands for %d declared inputs", len(op.operands), data.numInputs)
	}
	reductionAxis := -1
	numReduction := 0
	for axis, it := range data.iterators {
		if it == IteratorReduction {
			reductionAxis = axis
			numReduction++
		}
	}
	if numReduction > 1 {
		return errors.Errorf("%d reduction axes, a reduction folds exactly one", numReduction)
	}
	for ii, m := range data.maps {
		if err := m.Validate(rank); err != nil {
			return errors.WithMessagef(err, "indexing map #%d", ii)
		}
	}
	if !op.Result().Shape().Equal(op.Init().Shape()) {
		return errors.Errorf("result shape %s differs from destination seed shape %s",
			op.Result().Shape(), op.Init().Shape())
	}
	if numReduction == 1 && data.numInputs == 1 {
		// Single-input reduction: output shape is the input shape with the
		// reduction axis removed.
		want := op.Operand(0).Shape().RemoveAxis(reductionAxis)
		if !op.Result().Shape().Equal(want) {
			return errors.Errorf("reduction along axis %d of %s must produce %s, produces %s",
				reductionAxis, op.Operand(0).Shape(), want, op.Result().Shape())
		}
	}
	if err := data.body.Validate(); err != nil {
		return errors.WithMessage(err, "body")
	}
	if data.body.NumArgs != data.numInputs+1 {
		return errors.Errorf("body declares %d arguments, op provides %d", data.body.NumArgs, data.numInputs+1)
	}
	return nil
}
