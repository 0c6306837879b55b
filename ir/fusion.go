// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package ir

import "slices"

// FusionResult describes a successful elementwise fusion: the new fused op
// and the mapping from the consumer's old results to the fused op's results.
// The caller is responsible for redirecting uses and erasing the old ops --
// the fused op is created, nothing is destroyed here.
type FusionResult struct {
	FusedOp *Op

	// Replacements maps each result of the old consumer to its replacement.
	Replacements map[*Value]*Value
}

// FuseElementwiseOps tries to merge the computation producing use's value
// directly into the consuming op's body, avoiding materialization of the
// intermediate tensor.
//
// This is a capability query: a false return is a normal outcome, not an
// error, and leaves the graph untouched. Fusion applies when:
//
//   - the produced value has an elementwise Generic producer whose result
//     map is the identity and whose body ignores its destination seed;
//   - the consumer is also an elementwise Generic;
//   - the fused operand is one of the consumer's inputs (not its
//     destination seed) and is accessed through a map that reads every
//     producer dimension (no broadcast of the fused value).
func FuseElementwiseOps(use Use) (*FusionResult, bool) {
	consumer := use.Owner
	if !consumer.IsElementwise() {
		return nil, false
	}
	operandIdx := use.OperandIdx
	if operandIdx >= consumer.NumInputs() {
		// The fused value seeds the consumer's destination; its elements
		// are overwritten, there is nothing to merge.
		return nil, false
	}
	producer := consumer.Operand(operandIdx).DefiningOp()
	if producer == nil || !producer.IsElementwise() {
		return nil, false
	}
	producerMaps := producer.IndexingMaps()
	if !producerMaps[producer.NumInputs()].IsIdentity() {
		return nil, false
	}
	producerBody := producer.Body()
	if producerBody.UsesArg(producerBody.NumArgs - 1) {
		// The producer reads its destination seed; merging it away would
		// change semantics.
		return nil, false
	}
	consumerMaps := consumer.IndexingMaps()
	accessMap := consumerMaps[operandIdx]
	if accessMap.NumResults() != producer.Result().Rank() {
		return nil, false
	}

	numP := producer.NumInputs()
	numC := consumer.NumInputs()

	// Fused inputs: the consumer's inputs with the fused operand replaced,
	// in place, by the producer's inputs. The producer's maps are composed
	// with the consumer's access map so they index the consumer's iteration
	// space.
	fusedInputs := make([]*Value, 0, numC-1+numP)
	fusedMaps := make([]IndexingMap, 0, numC+numP)
	for ii := range numC {
		if ii != operandIdx {
			fusedInputs = append(fusedInputs, consumer.Operand(ii))
			fusedMaps = append(fusedMaps, consumerMaps[ii])
			continue
		}
		for jj := range numP {
			fusedInputs = append(fusedInputs, producer.Operand(jj))
			fusedMaps = append(fusedMaps, producerMaps[jj].Compose(accessMap))
		}
	}
	fusedMaps = append(fusedMaps, consumerMaps[numC])

	fusedBody := spliceBodies(producerBody, consumer.Body(), operandIdx, numP)

	b := NewBuilder(consumer.Func())
	b.SetInsertionPointBefore(consumer)
	fusedOp := b.Generic(fusedInputs, consumer.Init(), fusedMaps,
		slices.Clone(consumer.IteratorKinds()), fusedBody)
	return &FusionResult{
		FusedOp:      fusedOp,
		Replacements: map[*Value]*Value{consumer.Result(): fusedOp.Result()},
	}, true
}

// spliceBodies inlines the producer's body into the consumer's at the
// consumer argument fusedArg, which is replaced by the producer's yielded
// value. The producer's numP input arguments take the fused argument's
// position, so the combined argument order matches the fused operand list
// built by FuseElementwiseOps (consumer's accumulator stays last).
func spliceBodies(producer, consumer *Body, fusedArg, numP int) *Body {
	fused := &Body{NumArgs: consumer.NumArgs - 1 + numP}

	remapProducer := func(r ScalarRef) ScalarRef {
		if idx, ok := r.IsArg(); ok {
			return Arg(fusedArg + idx)
		}
		return r
	}
	for _, instr := range producer.Instrs {
		instr.LHS = remapProducer(instr.LHS)
		if !instr.Code.isUnary() {
			instr.RHS = remapProducer(instr.RHS)
		}
		fused.Instrs = append(fused.Instrs, instr)
	}
	producerYield := remapProducer(producer.Yield)

	remapConsumer := func(r ScalarRef) ScalarRef {
		if idx, ok := r.IsArg(); ok {
			switch {
			case idx < fusedArg:
				return r
			case idx == fusedArg:
				return producerYield
			default:
				return Arg(idx - 1 + numP)
			}
		}
		return InstrRef(r.instr + len(producer.Instrs))
	}
	for _, instr := range consumer.Instrs {
		instr.LHS = remapConsumer(instr.LHS)
		if !instr.Code.isUnary() {
			instr.RHS = remapConsumer(instr.RHS)
		}
		fused.Instrs = append(fused.Instrs, instr)
	}
	fused.Yield = remapConsumer(consumer.Yield)
	return fused
}
