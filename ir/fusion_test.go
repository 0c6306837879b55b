// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvstokes/iree/types/dtypes"
	"github.com/jvstokes/iree/types/shapes"
)

// buildSubExpDivChain builds the elementwise tail of a softmax decomposition
// over a [2,3] tensor reduced along axis 1:
//
//	numerator = exp(input - max)   // producer, broadcast max along axis 1
//	result    = numerator / denom  // consumer
//
// Returns the function, the producer op and the consumer op.
func buildSubExpDivChain(t *testing.T) (*Func, *Op, *Op) {
	full := shapes.Make(dtypes.Float32, 2, 3)
	reduced := shapes.Make(dtypes.Float32, 2)

	fn := NewFunc("softmax_tail")
	b := NewBuilder(fn)
	input := b.Parameter("input", full)
	max := b.Parameter("max", reduced)
	denom := b.Parameter("denom", reduced)

	id := IdentityMap(2)
	proj := ProjectedMap(2, 1)
	parallel := []IteratorKind{IteratorParallel, IteratorParallel}

	producer := b.Generic([]*Value{input, max}, b.Empty(full),
		[]IndexingMap{id, proj, id}, parallel,
		&Body{
			NumArgs: 3,
			Instrs: []ScalarInstr{
				{Code: ScalarSub, LHS: Arg(0), RHS: Arg(1)},
				{Code: ScalarExp, LHS: InstrRef(0)},
			},
			Yield: InstrRef(1),
		})
	consumer := b.Generic([]*Value{producer.Result(), denom}, b.Empty(full),
		[]IndexingMap{id, proj, id}, parallel,
		&Body{
			NumArgs: 3,
			Instrs:  []ScalarInstr{{Code: ScalarDiv, LHS: Arg(0), RHS: Arg(1)}},
			Yield:   InstrRef(0),
		})
	b.Return(consumer.Result())
	require.NoError(t, fn.Verify())
	return fn, producer, consumer
}

func TestFuseElementwiseOps(t *testing.T) {
	fn, producer, consumer := buildSubExpDivChain(t)
	input, max, denom := fn.Parameters()[0], fn.Parameters()[1], fn.Parameters()[2]

	use := Use{Owner: consumer, OperandIdx: 0}
	fusion, ok := FuseElementwiseOps(use)
	require.True(t, ok)
	fused := fusion.FusedOp

	// The producer's inputs splice in at the fused operand's position.
	require.Equal(t, 3, fused.NumInputs())
	assert.Same(t, input, fused.Operand(0))
	assert.Same(t, max, fused.Operand(1))
	assert.Same(t, denom, fused.Operand(2))
	assert.True(t, fused.IsElementwise())

	// Maps compose through the consumer's access map, here the identity.
	maps := fused.IndexingMaps()
	require.Len(t, maps, 4)
	assert.True(t, maps[0].IsIdentity())
	assert.Equal(t, ProjectedMap(2, 1), maps[1])
	assert.Equal(t, ProjectedMap(2, 1), maps[2])
	assert.True(t, maps[3].IsIdentity())

	// Spliced body: producer instructions first, consumer's reference to the
	// fused value rewritten to the producer's yield.
	body := fused.Body()
	assert.Equal(t, 4, body.NumArgs)
	assert.Equal(t, "t0 = sub(arg0, arg1); t1 = exp(t0); t2 = div(t1, arg2); yield t2",
		body.String())
	require.NoError(t, body.Validate())
	assert.InDelta(t, 0.5, body.Eval([]float64{2, 2, 2, 0}), 1e-12)

	// Fusion creates, it doesn't destroy: the old chain is still intact and
	// the caller redirects uses.
	assert.Equal(t, 1, producer.Result().NumUses())
	consumer.Result().ReplaceAllUsesWith(fused.Result())
	consumer.Erase()
	producer.Erase()
	require.NoError(t, fn.Verify())

	// Replacements map the old consumer result to the fused one.
	assert.Len(t, fusion.Replacements, 1)
}

func TestFuseElementwiseOpsRefusals(t *testing.T) {
	t.Run("reduction consumer", func(t *testing.T) {
		full := shapes.Make(dtypes.Float32, 2, 3)
		reduced := shapes.Make(dtypes.Float32, 2)
		fn := NewFunc("reduce_consumer")
		b := NewBuilder(fn)
		input := b.Parameter("input", full)

		id := IdentityMap(2)
		producer := b.Generic([]*Value{input}, b.Empty(full),
			[]IndexingMap{id, id},
			[]IteratorKind{IteratorParallel, IteratorParallel},
			&Body{
				NumArgs: 2,
				Instrs:  []ScalarInstr{{Code: ScalarExp, LHS: Arg(0)}},
				Yield:   InstrRef(0),
			})
		seed := b.Fill(b.Constant(dtypes.Float32, 0), b.Empty(reduced))
		sum := b.Generic([]*Value{producer.Result()}, seed,
			[]IndexingMap{id, ProjectedMap(2, 1)},
			[]IteratorKind{IteratorParallel, IteratorReduction},
			&Body{
				NumArgs: 2,
				Instrs:  []ScalarInstr{{Code: ScalarAdd, LHS: Arg(1), RHS: Arg(0)}},
				Yield:   InstrRef(0),
			})
		b.Return(sum.Result())
		require.NoError(t, fn.Verify())

		_, ok := FuseElementwiseOps(Use{Owner: sum, OperandIdx: 0})
		assert.False(t, ok)
	})

	t.Run("destination seed operand", func(t *testing.T) {
		_, _, consumer := buildSubExpDivChain(t)
		_, ok := FuseElementwiseOps(Use{Owner: consumer, OperandIdx: consumer.NumInputs()})
		assert.False(t, ok)
	})

	t.Run("non-generic producer", func(t *testing.T) {
		_, _, consumer := buildSubExpDivChain(t)
		// Operand 1 is a function parameter, nothing to merge.
		_, ok := FuseElementwiseOps(Use{Owner: consumer, OperandIdx: 1})
		assert.False(t, ok)
	})

	t.Run("producer reads its seed", func(t *testing.T) {
		shape := shapes.Make(dtypes.Float32, 4)
		fn := NewFunc("seed_reader")
		b := NewBuilder(fn)
		input := b.Parameter("input", shape)
		seed := b.Fill(b.Constant(dtypes.Float32, 1), b.Empty(shape))
		id := IdentityMap(1)
		parallel := []IteratorKind{IteratorParallel}
		accumulating := b.Generic([]*Value{input}, seed,
			[]IndexingMap{id, id}, parallel,
			&Body{
				NumArgs: 2,
				Instrs:  []ScalarInstr{{Code: ScalarAdd, LHS: Arg(0), RHS: Arg(1)}},
				Yield:   InstrRef(0),
			})
		double := b.Generic([]*Value{accumulating.Result()}, b.Empty(shape),
			[]IndexingMap{id, id}, parallel,
			&Body{
				NumArgs: 2,
				Instrs:  []ScalarInstr{{Code: ScalarAdd, LHS: Arg(0), RHS: Arg(0)}},
				Yield:   InstrRef(0),
			})
		b.Return(double.Result())
		require.NoError(t, fn.Verify())

		_, ok := FuseElementwiseOps(Use{Owner: double, OperandIdx: 0})
		assert.False(t, ok)
	})
}
