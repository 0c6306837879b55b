// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

//go:generate go tool enumer -type=ScalarOpCode -trimprefix=Scalar -output=gen_scalaropcode_enumer.go body.go

// ScalarOpCode is the opcode of one scalar instruction in a Generic op body.
type ScalarOpCode int

const (
	// ScalarSub computes lhs - rhs.
	ScalarSub ScalarOpCode = iota

	// ScalarExp computes e**lhs. Unary, rhs is ignored.
	ScalarExp

	// ScalarDiv computes lhs / rhs. No zero guard: dividing by zero yields
	// ±Inf or NaN per floating-point semantics.
	ScalarDiv

	// ScalarMax computes max(lhs, rhs).
	ScalarMax

	// ScalarAdd computes lhs + rhs.
	ScalarAdd
)

// isUnary returns whether the opcode takes a single operand.
func (code ScalarOpCode) isUnary() bool { return code == ScalarExp }

// ScalarRef refers to one scalar value inside a Body: either a block
// argument or the result of an earlier instruction.
type ScalarRef struct {
	// arg is the block-argument index, or -1 when the reference is to an
	// instruction result.
	arg int

	// instr is the instruction index when arg == -1.
	instr int
}

// Arg returns a reference to the i-th block argument of a Body.
func Arg(i int) ScalarRef { return ScalarRef{arg: i} }

// InstrRef returns a reference to the result of the i-th instruction.
func InstrRef(i int) ScalarRef { return ScalarRef{arg: -1, instr: i} }

// IsArg returns whether the reference is a block argument, and which.
func (r ScalarRef) IsArg() (int, bool) {
	if r.arg >= 0 {
		return r.arg, true
	}
	return 0, false
}

func (r ScalarRef) String() string {
	if idx, ok := r.IsArg(); ok {
		return fmt.Sprintf("arg%d", idx)
	}
	return fmt.Sprintf("t%d", r.instr)
}

// ScalarInstr is one instruction of a Body. Unary opcodes only read LHS.
type ScalarInstr struct {
	Code     ScalarOpCode
	LHS, RHS ScalarRef
}

// Body is the scalar computation of a Generic op: a short SSA tape over the
// op's per-element operands, ending in a yielded value.
//
// The block arguments are, in order, one element per input operand followed
// by the current element of the destination seed (the accumulator, for
// reductions).
type Body struct {
	// NumArgs is the number of block arguments: the op's inputs plus one.
	NumArgs int

	Instrs []ScalarInstr

	// Yield is the value stored to the result element.
	Yield ScalarRef
}

// Validate checks all references are in range and in SSA order.
func (b *Body) Validate() error {
	checkRef := func(r ScalarRef, atInstr int) error {
		if idx, ok := r.IsArg(); ok {
			if idx >= b.NumArgs {
				return errors.Errorf("body references arg%d, but it has only %d arguments", idx, b.NumArgs)
			}
			return nil
		}
		if r.instr < 0 || r.instr >= atInstr {
			return errors.Errorf("body references t%d from instruction %d, before it is defined", r.instr, atInstr)
		}
		return nil
	}
	for ii, instr := range b.Instrs {
		if err := checkRef(instr.LHS, ii); err != nil {
			return err
		}
		if !instr.Code.isUnary() {
			if err := checkRef(instr.RHS, ii); err != nil {
				return err
			}
		}
	}
	return checkRef(b.Yield, len(b.Instrs))
}

// UsesArg returns whether any instruction or the yield reads the given block
// argument.
func (b *Body) UsesArg(argIdx int) bool {
	usesIt := func(r ScalarRef) bool {
		idx, ok := r.IsArg()
		return ok && idx == argIdx
	}
	for _, instr := range b.Instrs {
		if usesIt(instr.LHS) {
			return true
		}
		if !instr.Code.isUnary() && usesIt(instr.RHS) {
			return true
		}
	}
	return usesIt(b.Yield)
}

// Eval interprets the body on the given block-argument values, computing in
// float64. Rounding to the op's element type is the caller's concern.
func (b *Body) Eval(args []float64) float64 {
	if len(args) != b.NumArgs {
		exceptions.Panicf("ir.Body.Eval: got %d arguments, body declares %d", len(args), b.NumArgs)
	}
	results := make([]float64, len(b.Instrs))
	resolve := func(r ScalarRef) float64 {
		if idx, ok := r.IsArg(); ok {
			return args[idx]
		}
		return results[r.instr]
	}
	for ii, instr := range b.Instrs {
		lhs := resolve(instr.LHS)
		switch instr.Code {
		case ScalarSub:
			results[ii] = lhs - resolve(instr.RHS)
		case ScalarExp:
			results[ii] = math.Exp(lhs)
		case ScalarDiv:
			results[ii] = lhs / resolve(instr.RHS)
		case ScalarMax:
			results[ii] = math.Max(lhs, resolve(instr.RHS))
		case ScalarAdd:
			results[ii] = lhs + resolve(instr.RHS)
		default:
			exceptions.Panicf("ir.Body.Eval: unknown scalar opcode %s", instr.Code)
		}
	}
	return resolve(b.Yield)
}

// String prints the body like "t0 = sub(arg0, arg1); t1 = exp(t0); yield t1".
func (b *Body) String() string {
	var parts []string
	for ii, instr := range b.Instrs {
		if instr.Code.isUnary() {
			parts = append(parts, fmt.Sprintf("t%d = %s(%s)", ii, strings.ToLower(instr.Code.String()), instr.LHS))
		} else {
			parts = append(parts, fmt.Sprintf("t%d = %s(%s, %s)", ii, strings.ToLower(instr.Code.String()), instr.LHS, instr.RHS))
		}
	}
	parts = append(parts, fmt.Sprintf("yield %s", b.Yield))
	return strings.Join(parts, "; ")
}
