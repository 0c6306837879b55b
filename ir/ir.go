// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package ir implements the tensor-level intermediate representation the
// compiler transforms operate on: a Func (compilation unit) holding an
// ordered list of Ops, each producing Values consumed by later Ops.
//
// The main elements of the package are:
//
//   - Func: a compilation unit. Ops live on a doubly-linked list in execution
//     order; defs always precede uses.
//
//   - Op: one operation. Every Op has a Kind tag, an ordered list of operand
//     Values and (except Return) one result Value. Generic ops additionally
//     carry indexing maps, per-axis iterator kinds and a scalar Body.
//
//   - Value: a tensor value with a static Shape, a single producing Op and a
//     use list of (op, operand index) pairs. Values are shared, never owned
//     by a single consumer; their lifetime is bound to the Func.
//
//   - Builder: creates new Ops at a chosen insertion point, validating
//     operand shapes as it goes. Structural violations panic with a stack
//     trace (see github.com/gomlx/exceptions); transforms convert those to
//     errors at their entry point.
//
// Mutation discipline: the op list may be freely rewritten while walking it
// with Func.Ops -- the iterator captures the next op before yielding -- but
// an Op may only be erased once its results have zero remaining uses.
// Op.Erase panics otherwise. Transforms that discover rewrites during a walk
// are expected to batch erasures and perform them after the walk, consumers
// before producers.
package ir

import (
	"iter"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/google/uuid"

	"github.com/jvstokes/iree/types/shapes"
)

//go:generate go tool enumer -type=OpKind -trimprefix=Op -output=gen_opkind_enumer.go ir.go

// OpKind is the tag identifying what an Op computes.
type OpKind int

const (
	// OpInvalid is the zero OpKind, never a valid op.
	OpInvalid OpKind = iota

	// OpParameter is a function input. Its result shape is declared, it has
	// no operands.
	OpParameter

	// OpConstant produces a scalar constant.
	OpConstant

	// OpEmpty produces an uninitialized tensor of a declared shape, used as
	// the destination seed of Fill and Generic ops.
	OpEmpty

	// OpFill broadcasts a scalar (operand 0) over the shape of its
	// destination seed (operand 1).
	OpFill

	// OpGeneric is a structured elementwise or reduction op: per-axis
	// iterator kinds, one indexing map per input plus one shared by the
	// destination seed and the result, and a scalar Body combining the
	// per-element operands.
	OpGeneric

	// OpSoftmax is the composite reduce-then-normalize operator along a
	// single axis. The decompose-softmax transform rewrites it into
	// primitive ops; backends are not expected to implement it directly.
	OpSoftmax

	// OpReturn terminates a Func, yielding its operands as the function
	// results. It produces no values.
	OpReturn
)

// Func is a compilation unit: a named, uniquely-identified list of Ops.
type Func struct {
	name string
	id   uuid.UUID

	// Doubly-linked op list in execution order.
	firstOp, lastOp *Op

	params []*Value

	// nextValueID numbers values for printing and debugging.
	nextValueID int
}

// NewFunc creates an empty Func with a fresh unit ID.
func NewFunc(name string) *Func {
	return &Func{name: name, id: uuid.New()}
}

// Name of the function.
func (f *Func) Name() string { return f.name }

// ID is the unique compilation-unit ID, used to tag logs and artifacts.
func (f *Func) ID() uuid.UUID { return f.id }

// Parameters returns the function's parameter values, in declaration order.
func (f *Func) Parameters() []*Value { return f.params }

// NumOps returns the number of ops currently in the function.
func (f *Func) NumOps() (count int) {
	for op := f.firstOp; op != nil; op = op.next {
		count++
	}
	return
}

// Ops iterates over the function's ops in order. The iteration is safe
// against rewrites of the current op: the next op is captured before
// yielding, so inserting new ops before the current one, replacing its uses
// or scheduling it for later erasure doesn't disturb the walk. Erasing the
// *next* op mid-walk is not supported.
func (f *Func) Ops() iter.Seq[*Op] {
	return func(yield func(*Op) bool) {
		for op := f.firstOp; op != nil; {
			next := op.next
			if !yield(op) {
				return
			}
			op = next
		}
	}
}

// OpsOfKind iterates over ops of the given kind, with the same rewrite
// safety as Ops.
func (f *Func) OpsOfKind(kind OpKind) iter.Seq[*Op] {
	return func(yield func(*Op) bool) {
		for op := range f.Ops() {
			if op.kind != kind {
				continue
			}
			if !yield(op) {
				return
			}
		}
	}
}

// ReturnOp returns the function terminator, or nil if none was built yet.
func (f *Func) ReturnOp() *Op {
	if f.lastOp != nil && f.lastOp.kind == OpReturn {
		return f.lastOp
	}
	return nil
}

// insertBefore links op into the list before pos. A nil pos appends.
func (f *Func) insertBefore(op *Op, pos *Op) {
	if pos == nil {
		op.prev = f.lastOp
		if f.lastOp != nil {
			f.lastOp.next = op
		} else {
			f.firstOp = op
		}
		f.lastOp = op
		return
	}
	op.next = pos
	op.prev = pos.prev
	if pos.prev != nil {
		pos.prev.next = op
	} else {
		f.firstOp = op
	}
	pos.prev = op
}

// Use identifies one operand slot of an Op that consumes a Value.
type Use struct {
	// Owner is the consuming op.
	Owner *Op

	// OperandIdx is the index in Owner's operand list.
	OperandIdx int
}

// Value is a tensor value: a shape, the op that produced it and the list of
// its uses.
type Value struct {
	id    int
	shape shapes.Shape
	def   *Op
	uses  []Use
}

// Shape of the value.
func (v *Value) Shape() shapes.Shape { return v.shape }

// DefiningOp is the single op producing this value.
func (v *Value) DefiningOp() *Op { return v.def }

// Rank of the value's shape.
func (v *Value) Rank() int { return v.shape.Rank() }

// NumUses returns the number of operand slots currently consuming the value.
func (v *Value) NumUses() int { return len(v.uses) }

// Uses returns a snapshot of the value's uses. The snapshot stays valid (as
// a list to iterate) while uses are added or removed, which makes it safe to
// rewrite consumers while ranging over it.
func (v *Value) Uses() []Use { return slices.Clone(v.uses) }

// ReplaceAllUsesWith redirects every use of v to newValue.
func (v *Value) ReplaceAllUsesWith(newValue *Value) {
	if v == newValue {
		return
	}
	for _, use := range v.Uses() {
		use.Owner.SetOperand(use.OperandIdx, newValue)
	}
}

func (v *Value) addUse(use Use) {
	v.uses = append(v.uses, use)
}

func (v *Value) removeUse(use Use) {
	for ii, existing := range v.uses {
		if existing == use {
			v.uses = append(v.uses[:ii], v.uses[ii+1:]...)
			return
		}
	}
	exceptions.Panicf("ir: removing unregistered use (op %s, operand %d) of %%%d",
		use.Owner.kind, use.OperandIdx, v.id)
}

// Op is one operation of a Func.
type Op struct {
	kind OpKind
	fn   *Func

	prev, next *Op

	operands []*Value
	results  []*Value

	// data holds the kind-specific payload (opGeneric, opSoftmax, ...).
	data any
}

// Payloads for the op kinds that need extra attributes.
type (
	opParameter struct{ name string }
	opConstant  struct{ value float64 }
	opGeneric   struct {
		// numInputs is the number of leading operands that are inputs; the
		// one operand after them is the destination seed.
		numInputs int
		// maps has one entry per input plus a final entry shared by the
		// destination seed and the result.
		maps      []IndexingMap
		iterators []IteratorKind
		body      *Body
	}
	opSoftmax struct{ axis int }
)

// Kind of the op.
func (op *Op) Kind() OpKind { return op.kind }

// Func that owns the op.
func (op *Op) Func() *Func { return op.fn }

// NumOperands returns the number of operands.
func (op *Op) NumOperands() int { return len(op.operands) }

// Operand returns the idx-th operand.
func (op *Op) Operand(idx int) *Value { return op.operands[idx] }

// Operands returns the operand list. Shared, don't modify; use SetOperand.
func (op *Op) Operands() []*Value { return op.operands }

// SetOperand replaces the idx-th operand, updating use lists.
func (op *Op) SetOperand(idx int, value *Value) {
	old := op.operands[idx]
	if old == value {
		return
	}
	old.removeUse(Use{Owner: op, OperandIdx: idx})
	op.operands[idx] = value
	value.addUse(Use{Owner: op, OperandIdx: idx})
}

// Result returns the op's single result. It panics for OpReturn, which has
// none.
func (op *Op) Result() *Value {
	if len(op.results) == 0 {
		exceptions.Panicf("ir: op %s has no results", op.kind)
	}
	return op.results[0]
}

// Results returns all results (empty for OpReturn).
func (op *Op) Results() []*Value { return op.results }

// ParameterName returns the declared name of an OpParameter.
func (op *Op) ParameterName() string { return op.data.(*opParameter).name }

// ConstantValue returns the scalar of an OpConstant, as a float64.
func (op *Op) ConstantValue() float64 { return op.data.(*opConstant).value }

// NumInputs returns the number of input operands of an OpGeneric (the
// remaining operand is the destination seed).
func (op *Op) NumInputs() int { return op.data.(*opGeneric).numInputs }

// Inputs returns the input operands of an OpGeneric.
func (op *Op) Inputs() []*Value { return op.operands[:op.NumInputs()] }

// Init returns the destination seed operand of an OpGeneric or OpFill.
func (op *Op) Init() *Value {
	if op.kind == OpFill {
		return op.operands[1]
	}
	return op.operands[op.NumInputs()]
}

// IndexingMaps returns an OpGeneric's indexing maps: one per input, plus one
// shared by the destination seed and the result.
func (op *Op) IndexingMaps() []IndexingMap { return op.data.(*opGeneric).maps }

// IteratorKinds returns an OpGeneric's per-axis iterator kinds.
func (op *Op) IteratorKinds() []IteratorKind { return op.data.(*opGeneric).iterators }

// Body returns an OpGeneric's scalar body.
func (op *Op) Body() *Body { return op.data.(*opGeneric).body }

// IsElementwise returns whether op is an OpGeneric with only parallel axes.
func (op *Op) IsElementwise() bool {
	if op.kind != OpGeneric {
		return false
	}
	return !slices.Contains(op.IteratorKinds(), IteratorReduction)
}

// SoftmaxAxis returns the reduction axis of an OpSoftmax.
func (op *Op) SoftmaxAxis() int { return op.data.(*opSoftmax).axis }

// Erase unlinks the op from its function and releases its operand uses.
//
// The op's results must have zero remaining uses -- erasing an op whose
// values are still consumed would leave dangling references, so this panics
// instead. Batch erasures after a walk, consumers before producers.
func (op *Op) Erase() {
	for _, result := range op.results {
		if n := result.NumUses(); n > 0 {
			exceptions.Panicf("ir: erasing op %s whose result %%%d still has %d uses",
				op.kind, result.id, n)
		}
	}
	for idx, operand := range op.operands {
		operand.removeUse(Use{Owner: op, OperandIdx: idx})
	}
	op.operands = nil
	if op.prev != nil {
		op.prev.next = op.next
	} else {
		op.fn.firstOp = op.next
	}
	if op.next != nil {
		op.next.prev = op.prev
	} else {
		op.fn.lastOp = op.prev
	}
	op.prev, op.next = nil, nil
	op.fn = nil
}
