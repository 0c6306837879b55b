// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package transforms implements the compiler's IR-to-IR rewrites and the
// small pipeline that sequences them over a compilation unit.
//
// Each Transform rewrites one ir.Func in place, synchronously, and is the
// sole mutator of the unit's graph for the duration of its run -- the
// pipeline serializes transforms per unit. A transform declares the op
// kinds it may introduce so the pipeline can check, up front, that
// downstream consumers support them.
package transforms

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/jvstokes/iree/internal/workerspool"
	"github.com/jvstokes/iree/ir"
	"github.com/jvstokes/iree/types"
)

// Transform rewrites a function in place.
//
// A failed transform leaves already-committed rewrites applied; it is not
// required to roll back or to be resumable. The pipeline decides whether to
// re-invoke it.
type Transform interface {
	// Name identifies the transform in logs and errors.
	Name() string

	// IntroducedKinds lists every op kind the transform may create.
	IntroducedKinds() []ir.OpKind

	// Run applies the transform to fn.
	Run(fn *ir.Func) error
}

// Pipeline runs a fixed sequence of transforms over compilation units.
type Pipeline struct {
	transforms []Transform

	// supported is the set of op kinds consumers downstream of the pipeline
	// handle. Nil means unrestricted.
	supported types.Set[ir.OpKind]
}

// NewPipeline creates a Pipeline running the given transforms in order.
func NewPipeline(transforms ...Transform) *Pipeline {
	return &Pipeline{transforms: transforms}
}

// WithSupportedKinds restricts the op kinds transforms may introduce.
// Running a pipeline whose transforms declare kinds outside this set fails
// before any transform touches the unit.
func (p *Pipeline) WithSupportedKinds(kinds ...ir.OpKind) *Pipeline {
	p.supported = types.SetWith(kinds...)
	return p
}

// Run applies the pipeline to one compilation unit. After each transform
// the unit is re-verified, so a transform that corrupts the graph fails
// here rather than in an arbitrary later consumer.
func (p *Pipeline) Run(fn *ir.Func) error {
	if p.supported != nil {
		for _, t := range p.transforms {
			for _, kind := range t.IntroducedKinds() {
				if !p.supported.Has(kind) {
					return errors.Errorf("pipeline: transform %q may introduce op kind %s, which downstream consumers don't support",
						t.Name(), kind)
				}
			}
		}
	}
	for _, t := range p.transforms {
		klog.V(1).Infof("pipeline: running %q on function %q (unit %s)", t.Name(), fn.Name(), fn.ID())
		if err := t.Run(fn); err != nil {
			return errors.WithMessagef(err, "transform %q on function %q", t.Name(), fn.Name())
		}
		if err := fn.Verify(); err != nil {
			return errors.WithMessagef(err, "IR verification after transform %q on function %q", t.Name(), fn.Name())
		}
	}
	return nil
}

// RunAll applies the pipeline to several compilation units in parallel, one
// worker per unit. Units are independent; within a unit transforms still run
// serialized. It returns the first error in unit order, after all units
// finished.
func (p *Pipeline) RunAll(fns []*ir.Func) error {
	pool := workerspool.New()
	errs := make([]error, len(fns))
	pool.ForEach(len(fns), func(i int) {
		errs[i] = p.Run(fns[i])
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
