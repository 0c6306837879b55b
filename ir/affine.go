// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

//go:generate go tool enumer -type=IteratorKind -trimprefix=Iterator -output=gen_iteratorkind_enumer.go affine.go

// IteratorKind classifies one axis of a Generic op's iteration space.
type IteratorKind int

const (
	// IteratorParallel axes are independent per output element.
	IteratorParallel IteratorKind = iota

	// IteratorReduction axes are folded away in the output.
	IteratorReduction
)

// IndexingMap is an affine function from an iteration-space coordinate to an
// operand's coordinate. Each result picks one iteration-space dimension; the
// map never reorders or arithmetically combines dimensions, which is all the
// structured ops here require.
//
// The map's domain rank (NumDims) must always equal the rank of the
// iteration space of the op it is attached to.
type IndexingMap struct {
	// NumDims is the domain rank.
	NumDims int

	// DimResults lists, per operand coordinate, the iteration-space
	// dimension it reads. Every entry is in [0, NumDims).
	DimResults []int
}

// IdentityMap returns the rank-dimensional identity map: (d0, ..., dN) ->
// (d0, ..., dN).
func IdentityMap(rank int) IndexingMap {
	results := make([]int, rank)
	for ii := range results {
		results[ii] = ii
	}
	return IndexingMap{NumDims: rank, DimResults: results}
}

// ProjectedMap returns the identity map restricted to all dimensions except
// droppedAxis, preserving the relative order of the remaining dimensions:
// for rank 3 and axis 1, (d0, d1, d2) -> (d0, d2).
func ProjectedMap(rank, droppedAxis int) IndexingMap {
	if droppedAxis < 0 || droppedAxis >= rank {
		exceptions.Panicf("ir.ProjectedMap: axis %d out of range for rank %d", droppedAxis, rank)
	}
	results := make([]int, 0, rank-1)
	for ii := range rank {
		if ii != droppedAxis {
			results = append(results, ii)
		}
	}
	return IndexingMap{NumDims: rank, DimResults: results}
}

// NumResults is the rank of the operand coordinate the map produces.
func (m IndexingMap) NumResults() int { return len(m.DimResults) }

// IsIdentity returns whether the map is the full identity of its domain.
func (m IndexingMap) IsIdentity() bool {
	if m.NumResults() != m.NumDims {
		return false
	}
	for ii, dim := range m.DimResults {
		if dim != ii {
			return false
		}
	}
	return true
}

// Apply maps an iteration-space coordinate to the operand coordinate,
// appending to dst (pass nil or a reused buffer).
func (m IndexingMap) Apply(coords []int, dst []int) []int {
	if len(coords) != m.NumDims {
		exceptions.Panicf("ir.IndexingMap.Apply: coordinate rank %d doesn't match map domain rank %d",
			len(coords), m.NumDims)
	}
	for _, dim := range m.DimResults {
		dst = append(dst, coords[dim])
	}
	return dst
}

// Compose returns m∘inner, the map that first applies inner and then m.
// inner's result rank must equal m's domain rank.
func (m IndexingMap) Compose(inner IndexingMap) IndexingMap {
	if inner.NumResults() != m.NumDims {
		exceptions.Panicf("ir.IndexingMap.Compose: inner map produces %d coordinates, outer domain rank is %d",
			inner.NumResults(), m.NumDims)
	}
	results := make([]int, m.NumResults())
	for ii, dim := range m.DimResults {
		results[ii] = inner.DimResults[dim]
	}
	return IndexingMap{NumDims: inner.NumDims, DimResults: results}
}

// Validate checks the map is well-formed for the given iteration-space rank.
func (m IndexingMap) Validate(domainRank int) error {
	if m.NumDims != domainRank {
		return errors.Errorf("indexing map domain rank %d doesn't match iteration space rank %d",
			m.NumDims, domainRank)
	}
	for _, dim := range m.DimResults {
		if dim < 0 || dim >= m.NumDims {
			return errors.Errorf("indexing map result dimension d%d out of domain range [0, %d)", dim, m.NumDims)
		}
	}
	return nil
}

// String prints the map in the usual affine notation: "(d0, d1) -> (d0)".
func (m IndexingMap) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for ii := range m.NumDims {
		if ii > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "d%d", ii)
	}
	b.WriteString(") -> (")
	for ii, dim := range m.DimResults {
		if ii > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "d%d", dim)
	}
	b.WriteByte(')')
	return b.String()
}
