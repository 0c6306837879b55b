// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package transforms

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvstokes/iree/ir"
	"github.com/jvstokes/iree/ir/interp"
	"github.com/jvstokes/iree/types/dtypes"
	"github.com/jvstokes/iree/types/shapes"
	"github.com/jvstokes/iree/types/tensors"
)

// buildSoftmaxFunc builds `return softmax(x, axis)` for one parameter of the
// given shape.
func buildSoftmaxFunc(shape shapes.Shape, axis int) *ir.Func {
	fn := ir.NewFunc("softmax")
	b := ir.NewBuilder(fn)
	x := b.Parameter("x", shape)
	b.Return(b.Softmax(x, axis))
	return fn
}

// randomTensor fills a tensor of the given shape with deterministic values in
// [-5, 5), rounded to the shape's dtype.
func randomTensor(shape shapes.Shape, rng *rand.Rand) *tensors.Tensor {
	t := tensors.FromShape(shape)
	for idx := range t.Size() {
		t.SetFlatFloat64(idx, rng.Float64()*10-5)
	}
	return t
}

// tolerance is the comparison tolerance between the decomposed and the
// composite evaluation. The decomposed form materializes (and therefore
// rounds) intermediates, so narrow float types need real headroom.
func tolerance(dtype dtypes.DType) float64 {
	switch dtype {
	case dtypes.Float64:
		return 1e-12
	case dtypes.Float32:
		return 1e-5
	case dtypes.Float16:
		return 1e-2
	case dtypes.BFloat16:
		return 8e-2
	}
	panic("no tolerance for dtype " + dtype.String())
}

// runBoth evaluates softmax(input, axis) the composite way and through the
// decomposition, returning (composite, decomposed).
func runBoth(t *testing.T, shape shapes.Shape, axis int, input *tensors.Tensor) (*tensors.Tensor, *tensors.Tensor) {
	composite := buildSoftmaxFunc(shape, axis)
	require.NoError(t, composite.Verify())
	wantOut, err := interp.Run(composite, []*tensors.Tensor{input})
	require.NoError(t, err)

	decomposed := buildSoftmaxFunc(shape, axis)
	require.NoError(t, DecomposeSoftmax().Run(decomposed))
	require.NoError(t, decomposed.Verify())
	gotOut, err := interp.Run(decomposed, []*tensors.Tensor{input})
	require.NoError(t, err)
	return wantOut[0], gotOut[0]
}

func TestDecomposeSoftmaxMatchesComposite(t *testing.T) {
	dimsByRank := [][]int{{6}, {2, 5}, {2, 3, 4}, {2, 3, 2, 3}}
	rng := rand.New(rand.NewPCG(42, 0))
	for _, dtype := range []dtypes.DType{dtypes.Float32, dtypes.Float64, dtypes.Float16, dtypes.BFloat16} {
		for _, dims := range dimsByRank {
			for axis := range dims {
				name := fmt.Sprintf("%s/rank%d/axis%d", dtype, len(dims), axis)
				t.Run(name, func(t *testing.T) {
					shape := shapes.Make(dtype, dims...)
					input := randomTensor(shape, rng)
					want, got := runBoth(t, shape, axis, input)

					require.True(t, got.Shape().Equal(shape), "softmax must preserve the input shape")
					tol := tolerance(dtype)
					for idx := range got.Size() {
						assert.InDelta(t, want.FlatFloat64(idx), got.FlatFloat64(idx), tol,
							"element %d", idx)
					}
				})
			}
		}
	}
}

func TestDecomposeSoftmaxStructure(t *testing.T) {
	shape := shapes.Make(dtypes.Float32, 2, 3)
	fn := buildSoftmaxFunc(shape, 1)
	require.NoError(t, DecomposeSoftmax().Run(fn))
	require.NoError(t, fn.Verify())

	countKind := func(kind ir.OpKind) (n int) {
		for range fn.OpsOfKind(kind) {
			n++
		}
		return
	}
	assert.Zero(t, countKind(ir.OpSoftmax))
	assert.Equal(t, 2, countKind(ir.OpConstant))
	assert.Equal(t, 2, countKind(ir.OpFill))
	assert.Equal(t, 2, countKind(ir.OpEmpty))

	// Four generic ops: max-reduce, the materialized numerator, sum-reduce
	// and the fused subtract-exp-divide feeding the return.
	var generics []*ir.Op
	for op := range fn.OpsOfKind(ir.OpGeneric) {
		generics = append(generics, op)
	}
	require.Len(t, generics, 4)
	maxReduce, numerator, sumReduce, fused := generics[0], generics[1], generics[2], generics[3]

	assert.False(t, maxReduce.IsElementwise())
	assert.Equal(t, "t0 = max(arg1, arg0); yield t0", maxReduce.Body().String())
	assert.True(t, maxReduce.Result().Shape().Equal(shapes.Make(dtypes.Float32, 2)))

	assert.True(t, numerator.IsElementwise())
	assert.Equal(t, "t0 = sub(arg0, arg1); t1 = exp(t0); yield t1", numerator.Body().String())
	// The sum reduction is the numerator's only remaining consumer: the
	// divide was fused away, the numerator itself was not.
	require.Equal(t, 1, numerator.Result().NumUses())
	assert.Same(t, sumReduce, numerator.Result().Uses()[0].Owner)

	assert.False(t, sumReduce.IsElementwise())
	assert.Equal(t, "t0 = add(arg1, arg0); yield t0", sumReduce.Body().String())

	// Fused divide: reads the raw input, the max and the denominator, and
	// recomputes exp(x-m) in its body instead of loading the numerator.
	assert.True(t, fused.IsElementwise())
	require.Equal(t, 3, fused.NumInputs())
	assert.Same(t, fn.Parameters()[0], fused.Operand(0))
	assert.Same(t, maxReduce.Result(), fused.Operand(1))
	assert.Same(t, sumReduce.Result(), fused.Operand(2))
	assert.Equal(t, "t0 = sub(arg0, arg1); t1 = exp(t0); t2 = div(t1, arg2); yield t2",
		fused.Body().String())
	maps := fused.IndexingMaps()
	assert.True(t, maps[0].IsIdentity())
	assert.Equal(t, ir.ProjectedMap(2, 1), maps[1])
	assert.Equal(t, ir.ProjectedMap(2, 1), maps[2])
	assert.True(t, maps[3].IsIdentity())

	assert.Same(t, fused.Result(), fn.ReturnOp().Operand(0))
}

func TestDecomposeSoftmaxIdempotent(t *testing.T) {
	fn := buildSoftmaxFunc(shapes.Make(dtypes.Float32, 3, 4), 0)
	require.NoError(t, DecomposeSoftmax().Run(fn))
	printed := fn.String()
	numOps := fn.NumOps()

	// A second run finds no softmax ops and changes nothing.
	require.NoError(t, DecomposeSoftmax().Run(fn))
	assert.Equal(t, printed, fn.String())
	assert.Equal(t, numOps, fn.NumOps())
}

func TestDecomposeSoftmaxKnownValues(t *testing.T) {
	shape := shapes.Make(dtypes.Float64, 2, 3)
	input := tensors.FromFlatAndDimensions([]float64{1, 2, 3, 1, 1, 1}, 2, 3)
	_, got := runBoth(t, shape, 1, input)
	want := []float64{0.09003057, 0.24472847, 0.66524096, 1.0 / 3, 1.0 / 3, 1.0 / 3}
	for ii, w := range want {
		assert.InDelta(t, w, got.FlatFloat64(ii), 1e-7)
	}
}

func TestDecomposeSoftmaxSumsToOne(t *testing.T) {
	shape := shapes.Make(dtypes.Float64, 3, 4, 5)
	axis := 1
	rng := rand.New(rand.NewPCG(7, 0))
	input := randomTensor(shape, rng)
	_, got := runBoth(t, shape, axis, input)

	dims := shape.Dimensions
	for outer := range dims[0] {
		for inner := range dims[2] {
			sum := 0.0
			for i := range dims[1] {
				sum += got.FloatAt(outer, i, inner)
			}
			assert.InDelta(t, 1.0, sum, 1e-12, "slice (%d, :, %d)", outer, inner)
		}
	}
}

func TestDecomposeSoftmaxStability(t *testing.T) {
	// The max subtraction keeps exp in range even at the dtype's finite
	// extremes; no element may overflow to Inf or land on NaN.
	for _, dtype := range []dtypes.DType{dtypes.Float32, dtypes.Float64} {
		t.Run(dtype.String(), func(t *testing.T) {
			shape := shapes.Make(dtype, 3)
			input := tensors.FromShape(shape)
			input.SetFlatFloat64(0, dtype.HighestFinite())
			input.SetFlatFloat64(1, 0)
			input.SetFlatFloat64(2, dtype.LowestFinite())
			_, got := runBoth(t, shape, 0, input)

			sum := 0.0
			for idx := range got.Size() {
				v := got.FlatFloat64(idx)
				require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "element %d is %v", idx, v)
				sum += v
			}
			assert.InDelta(t, 1.0, sum, 1e-6)
			assert.InDelta(t, 1.0, got.FlatFloat64(0), 1e-6)
		})
	}
}

func TestDecomposeSoftmaxAxisOfSizeOne(t *testing.T) {
	shape := shapes.Make(dtypes.Float32, 3, 1)
	input := tensors.FromFlatAndDimensions([]float32{-100, 0, 100}, 3, 1)
	_, got := runBoth(t, shape, 1, input)
	assert.Equal(t, []float32{1, 1, 1}, tensors.FlatData[float32](got))
}

func TestDecomposeSoftmaxUniformInput(t *testing.T) {
	shape := shapes.Make(dtypes.Float64, 8)
	input := tensors.FromShape(shape)
	for idx := range input.Size() {
		input.SetFlatFloat64(idx, 3.25)
	}
	_, got := runBoth(t, shape, 0, input)
	for idx := range got.Size() {
		assert.InDelta(t, 1.0/8, got.FlatFloat64(idx), 1e-12)
	}
}

func TestDecomposeSoftmaxStructuralErrors(t *testing.T) {
	t.Run("non-float element type", func(t *testing.T) {
		fn := buildSoftmaxFunc(shapes.Make(dtypes.Int32, 4), 0)
		err := DecomposeSoftmax().Run(fn)
		require.ErrorContains(t, err, "element type must be floating-point")
		require.NoError(t, fn.Verify())
	})

	t.Run("axis out of range", func(t *testing.T) {
		for _, axis := range []int{-1, 2} {
			fn := buildSoftmaxFunc(shapes.Make(dtypes.Float32, 2, 3), axis)
			err := DecomposeSoftmax().Run(fn)
			require.ErrorContains(t, err, "out of range")
			require.NoError(t, fn.Verify())
		}
	})

	t.Run("committed matches survive a later abort", func(t *testing.T) {
		// Two softmax ops, the second with a bad axis: the first match is
		// rewritten and its erasures finalized, the transform then fails on
		// the second with no rollback.
		shape := shapes.Make(dtypes.Float32, 2, 3)
		fn := ir.NewFunc("two_softmax")
		b := ir.NewBuilder(fn)
		x := b.Parameter("x", shape)
		good := b.Softmax(x, 1)
		bad := b.Softmax(good, 9)
		b.Return(bad)

		err := DecomposeSoftmax().Run(fn)
		require.ErrorContains(t, err, "axis 9 out of range")
		require.NoError(t, fn.Verify())

		// The first softmax is gone, decomposed into generics; the second
		// remains, now consuming the decomposed result.
		remaining := 0
		for op := range fn.OpsOfKind(ir.OpSoftmax) {
			remaining++
			assert.Equal(t, 9, op.SoftmaxAxis())
			assert.Equal(t, ir.OpGeneric, op.Operand(0).DefiningOp().Kind())
		}
		assert.Equal(t, 1, remaining)
	})
}
