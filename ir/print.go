// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"fmt"
	"strings"
)

// Name returns the value's printed name, e.g. "%3".
func (v *Value) Name() string { return fmt.Sprintf("%%%d", v.id) }

// String prints the value name and shape, e.g. "%3 : (Float32)[2 3]".
func (v *Value) String() string {
	return fmt.Sprintf("%s : %s", v.Name(), v.shape)
}

// String prints one op in the textual IR form.
func (op *Op) String() string {
	var b strings.Builder
	if len(op.results) > 0 {
		names := make([]string, len(op.results))
		for ii, result := range op.results {
			names[ii] = result.Name()
		}
		fmt.Fprintf(&b, "%s = ", strings.Join(names, ", "))
	}
	b.WriteString(strings.ToLower(op.kind.String()))

	switch op.kind {
	case OpParameter:
		fmt.Fprintf(&b, " %q", op.ParameterName())
	case OpConstant:
		fmt.Fprintf(&b, " %v", op.ConstantValue())
	case OpSoftmax:
		fmt.Fprintf(&b, " %s axis=%d", op.Operand(0).Name(), op.SoftmaxAxis())
	case OpFill:
		fmt.Fprintf(&b, " %s into %s", op.Operand(0).Name(), op.Operand(1).Name())
	case OpGeneric:
		iterators := make([]string, len(op.IteratorKinds()))
		for ii, it := range op.IteratorKinds() {
			iterators[ii] = strings.ToLower(it.String())
		}
		maps := make([]string, len(op.IndexingMaps()))
		for ii, m := range op.IndexingMaps() {
			maps[ii] = m.String()
		}
		inputs := make([]string, op.NumInputs())
		for ii := range op.NumInputs() {
			inputs[ii] = op.Operand(ii).Name()
		}
		fmt.Fprintf(&b, "{iterators=[%s], maps=[%s]} ins(%s) outs(%s) {%s}",
			strings.Join(iterators, ", "), strings.Join(maps, ", "),
			strings.Join(inputs, ", "), op.Init().Name(), op.Body())
	case OpReturn:
		operands := make([]string, len(op.operands))
		for ii, operand := range op.operands {
			operands[ii] = operand.Name()
		}
		b.WriteString(" " + strings.Join(operands, ", "))
	}

	if len(op.results) > 0 {
		fmt.Fprintf(&b, " : %s", op.results[0].shape)
	}
	return b.String()
}

// String prints the whole function in a deterministic textual form, one op
// per line. Handy for debugging and for change detection in tests.
func (f *Func) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "func @%s {\n", f.name)
	for op := f.firstOp; op != nil; op = op.next {
		fmt.Fprintf(&b, "  %s\n", op)
	}
	b.WriteString("}\n")
	return b.String()
}
