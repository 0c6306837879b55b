// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

// iree-opt is a small driver to inspect the compiler transforms: it builds
// sample functions containing composite softmax ops, runs the transform
// pipeline over them, and prints the IR before and after.
//
// Examples:
//
//	iree-opt -shape=2,3 -axis=1
//	iree-opt -shape=8,16,32 -axis=2 -dtype=Float16 -eval
//	iree-opt -funcs=100   # pipeline over a suite of units, with progress
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/jvstokes/iree/ir"
	"github.com/jvstokes/iree/ir/interp"
	"github.com/jvstokes/iree/transforms"
	"github.com/jvstokes/iree/types/dtypes"
	"github.com/jvstokes/iree/types/shapes"
	"github.com/jvstokes/iree/types/tensors"
)

var (
	flagShape = flag.String("shape", "2,3", "Comma-separated tensor dimensions of the softmax input.")
	flagAxis  = flag.Int("axis", -1, "Softmax reduction axis; -1 means the last axis.")
	flagDType = flag.String("dtype", "Float32", "Element type: Float16, BFloat16, Float32 or Float64.")
	flagEval  = flag.Bool("eval", false, "Evaluate the decomposed function on random inputs and print the outputs.")
	flagFuncs = flag.Int("funcs", 1, "Number of compilation units to run the pipeline over.")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	shape := must.M1(parseShape(*flagShape, *flagDType))
	axis := *flagAxis
	if axis < 0 {
		axis += shape.Rank()
	}

	pipeline := transforms.NewPipeline(transforms.DecomposeSoftmax()).
		WithSupportedKinds(ir.OpKindValues()...)

	if *flagFuncs > 1 {
		runSuite(pipeline, shape, axis, *flagFuncs)
		return
	}

	fn := buildSoftmaxFunc("main", shape, axis)
	fmt.Println(headerStyle.Render("Before"))
	fmt.Print(fn)
	fmt.Println(dimStyle.Render(fmt.Sprintf("input: %s, %s", shape, humanize.Bytes(uint64(shape.Memory())))))

	must.M(pipeline.Run(fn))

	fmt.Println(headerStyle.Render("After decompose-softmax"))
	fmt.Print(fn)

	if *flagEval {
		input := randomTensor(shape)
		outputs := must.M1(interp.Run(fn, []*tensors.Tensor{input}))
		fmt.Println(headerStyle.Render("Evaluation"))
		for ii, output := range outputs {
			fmt.Printf("output #%d: %s\n", ii, formatTensor(output))
		}
	}
}

// runSuite runs the pipeline over many generated units, the way the
// enclosing compiler driver would: units go through the pipeline in parallel
// batches, with progress reported per batch.
func runSuite(pipeline *transforms.Pipeline, shape shapes.Shape, axis, numFuncs int) {
	const batchSize = 32
	bar := progressbar.Default(int64(numFuncs), "Decomposing")
	for start := 0; start < numFuncs; start += batchSize {
		end := min(start+batchSize, numFuncs)
		fns := make([]*ir.Func, 0, end-start)
		for ii := start; ii < end; ii++ {
			fns = append(fns, buildSoftmaxFunc(fmt.Sprintf("unit%03d", ii), shape, axis))
		}
		must.M(pipeline.RunAll(fns))
		must.M(bar.Add(len(fns)))
	}
	fmt.Printf("Ran pipeline over %d units of input %s.\n", numFuncs, shape)
}

// buildSoftmaxFunc builds `func(x) { return softmax(x, axis) }`.
func buildSoftmaxFunc(name string, shape shapes.Shape, axis int) *ir.Func {
	fn := ir.NewFunc(name)
	b := ir.NewBuilder(fn)
	x := b.Parameter("x", shape)
	b.Return(b.Softmax(x, axis))
	return fn
}

func parseShape(dimsStr, dtypeStr string) (shapes.Shape, error) {
	dtype, err := dtypes.DTypeString(dtypeStr)
	if err != nil {
		return shapes.Invalid(), err
	}
	var dims []int
	for _, part := range strings.Split(dimsStr, ",") {
		dim, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return shapes.Invalid(), err
		}
		dims = append(dims, dim)
	}
	return shapes.Make(dtype, dims...), nil
}

func randomTensor(shape shapes.Shape) *tensors.Tensor {
	t := tensors.FromShape(shape)
	for idx := range t.Size() {
		t.SetFlatFloat64(idx, rand.NormFloat64())
	}
	return t
}

func formatTensor(t *tensors.Tensor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [", t.Shape())
	for idx := range t.Size() {
		if idx > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.4f", t.FlatFloat64(idx))
	}
	b.WriteByte(']')
	return b.String()
}
