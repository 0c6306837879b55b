// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package interp is a reference evaluator for the IR: it runs a Func on
// host tensors, op by op, interpreting Generic bodies per element with
// indexing-map driven coordinate arithmetic.
//
// It is deliberately simple and slow -- one interface dispatch per element.
// Its purpose is to make transforms testable: the decomposed form of an
// operator can be executed and compared numerically against the composite
// form on the same inputs. Scalar math happens in float64 and results are
// rounded to the op's element type on every store, so narrow element types
// (Float16, BFloat16) keep their real precision behavior.
package interp

import (
	"math"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/jvstokes/iree/ir"
	"github.com/jvstokes/iree/types"
	"github.com/jvstokes/iree/types/shapes"
	"github.com/jvstokes/iree/types/tensors"
)

// Run evaluates fn on the given inputs, one tensor per function parameter,
// and returns the tensors yielded by the function's return op.
func Run(fn *ir.Func, inputs []*tensors.Tensor) ([]*tensors.Tensor, error) {
	params := fn.Parameters()
	if len(inputs) != len(params) {
		return nil, errors.Errorf("interp: function %q takes %d parameters, got %d inputs",
			fn.Name(), len(params), len(inputs))
	}
	for ii, input := range inputs {
		if !input.Shape().Equal(params[ii].Shape()) {
			return nil, errors.Errorf("interp: parameter #%d of %q is %s, input is %s",
				ii, fn.Name(), params[ii].Shape(), input.Shape())
		}
	}
	if fn.ReturnOp() == nil {
		return nil, errors.Errorf("interp: function %q has no return op", fn.Name())
	}
	klog.V(2).Infof("interp: running %q (unit %s) with %d inputs", fn.Name(), fn.ID(), len(inputs))

	paramIdx := make(map[*ir.Value]int, len(params))
	for ii, param := range params {
		paramIdx[param] = ii
	}

	env := make(map[*ir.Value]*tensors.Tensor)
	var outputs []*tensors.Tensor
	for op := range fn.Ops() {
		switch op.Kind() {
		case ir.OpParameter:
			env[op.Result()] = inputs[paramIdx[op.Result()]]
		case ir.OpConstant:
			t := tensors.FromShape(op.Result().Shape())
			t.SetFlatFloat64(0, op.ConstantValue())
			env[op.Result()] = t
		case ir.OpEmpty:
			// Contents are unspecified; zeros here.
			env[op.Result()] = tensors.FromShape(op.Result().Shape())
		case ir.OpFill:
			value := env[op.Operand(0)].FlatFloat64(0)
			t := tensors.FromShape(op.Result().Shape())
			for idx := range t.Size() {
				t.SetFlatFloat64(idx, value)
			}
			env[op.Result()] = t
		case ir.OpGeneric:
			env[op.Result()] = evalGeneric(op, env)
		case ir.OpSoftmax:
			t, err := evalSoftmax(env[op.Operand(0)], op.SoftmaxAxis())
			if err != nil {
				return nil, errors.WithMessagef(err, "interp: op %q", op)
			}
			env[op.Result()] = t
		case ir.OpReturn:
			outputs = make([]*tensors.Tensor, op.NumOperands())
			for ii, operand := range op.Operands() {
				outputs[ii] = env[operand]
			}
		default:
			return nil, errors.Errorf("interp: unsupported op kind %s", op.Kind())
		}
	}
	return outputs, nil
}

// evalGeneric interprets one Generic op: it walks the full iteration space
// (parallel and reduction axes alike), maps each iteration coordinate to
// every operand's coordinate, and folds the body's yield into the result
// element. The result starts as a copy of the destination seed, so
// reductions fold on top of their identity fill.
func evalGeneric(op *ir.Op, env map[*ir.Value]*tensors.Tensor) *tensors.Tensor {
	maps := op.IndexingMaps()
	numInputs := op.NumInputs()
	out := env[op.Init()].Clone()

	// Reconstruct the iteration-space dimensions from the operands.
	rank := len(op.IteratorKinds())
	iterDims := make([]int, rank)
	for idx, operand := range op.Operands() {
		m := maps[min(idx, numInputs)]
		for jj, dim := range m.DimResults {
			iterDims[dim] = operand.Shape().Dimensions[jj]
		}
	}
	iterSpace := shapes.Make(out.DType(), iterDims...)

	operandTensors := make([]*tensors.Tensor, numInputs)
	operandStrides := make([][]int, numInputs)
	for ii := range numInputs {
		operandTensors[ii] = env[op.Operand(ii)]
		operandStrides[ii] = operandTensors[ii].Shape().Strides()
	}
	resultMap := maps[numInputs]
	resultStrides := out.Shape().Strides()

	args := make([]float64, numInputs+1)
	coordBuf := make([]int, 0, rank)
	body := op.Body()
	for coords := range iterSpace.Iter() {
		for ii := range numInputs {
			args[ii] = operandTensors[ii].FlatFloat64(flatIndex(maps[ii], coords, operandStrides[ii], &coordBuf))
		}
		outIdx := flatIndex(resultMap, coords, resultStrides, &coordBuf)
		args[numInputs] = out.FlatFloat64(outIdx)
		out.SetFlatFloat64(outIdx, body.Eval(args))
	}
	return out
}

// flatIndex applies the indexing map to the iteration coordinate and
// flattens the operand coordinate with the given row-major strides.
func flatIndex(m ir.IndexingMap, coords []int, strides []int, buf *[]int) int {
	operandCoords := m.Apply(coords, (*buf)[:0])
	*buf = operandCoords
	idx := 0
	for jj, c := range operandCoords {
		idx += c * strides[jj]
	}
	return idx
}

// evalSoftmax computes the composite softmax directly, in float64: for each
// slice along axis, exp(x - max(slice)) / sum(exp(x - max(slice))).
// Stores round to the tensor's dtype, like materialized intermediates in the
// decomposed form do.
func evalSoftmax(input *tensors.Tensor, axis int) (*tensors.Tensor, error) {
	shape := input.Shape()
	if !shape.DType.IsFloat() {
		return nil, errors.Errorf("softmax requires a float element type, got %s", shape.DType)
	}
	if axis < 0 || axis >= shape.Rank() {
		return nil, errors.Errorf("softmax axis %d out of range for %s", axis, shape)
	}
	out := tensors.FromShape(shape.Clone())
	outerSize, axisSize, innerSize := axisStrides(shape, axis)
	for outer := range outerSize {
		for inner := range innerSize {
			baseIdx := outer*axisSize*innerSize + inner

			// Pass 1: find the max of the slice.
			maxVal := math.Inf(-1)
			for i := range axisSize {
				maxVal = math.Max(maxVal, input.FlatFloat64(baseIdx+i*innerSize))
			}

			// Pass 2: exp(x-max) and sum.
			sum := 0.0
			for i := range axisSize {
				idx := baseIdx + i*innerSize
				e := math.Exp(input.FlatFloat64(idx) - maxVal)
				out.SetFlatFloat64(idx, e)
				sum += e
			}

			// Pass 3: normalize.
			for i := range axisSize {
				idx := baseIdx + i*innerSize
				out.SetFlatFloat64(idx, out.FlatFloat64(idx)/sum)
			}
		}
	}
	return out, nil
}

// axisStrides returns the outer, axis and inner sizes for iterating the
// slices of shape along axis.
func axisStrides(shape shapes.Shape, axis int) (outerSize, axisSize, innerSize int) {
	dims := shape.Dimensions
	outerSize = types.Product(dims[:axis])
	axisSize = dims[axis]
	innerSize = types.Product(dims[axis+1:])
	return
}
