// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package types is mostly a top level directory for the compiler's important
// types. See sub-packages `dtypes`, `shapes` and `tensors`.
//
// This package also provides the generic container type Set and small generic
// numeric helpers.
package types

import "golang.org/x/exp/constraints"

// Product returns the product of the slice elements, 1 for an empty slice.
func Product[T constraints.Integer | constraints.Float](values []T) T {
	product := T(1)
	for _, v := range values {
		product *= v
	}
	return product
}

// Set implements a Set for the key type T.
type Set[T comparable] map[T]struct{}

// MakeSet returns an empty Set of the given type. Size is optional, and if
// given will reserve the expected size.
func MakeSet[T comparable](size ...int) Set[T] {
	if len(size) == 0 {
		return make(Set[T])
	}
	return make(Set[T], size[0])
}

// SetWith creates a Set[T] with the given elements inserted.
func SetWith[T comparable](elements ...T) Set[T] {
	s := MakeSet[T](len(elements))
	s.Insert(elements...)
	return s
}

// Has returns true if Set s has the given key.
func (s Set[T]) Has(key T) bool {
	_, found := s[key]
	return found
}

// Insert keys into set.
func (s Set[T]) Insert(keys ...T) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
}

// Sub returns `s - s2`, that is, all elements in `s` that are not in `s2`.
func (s Set[T]) Sub(s2 Set[T]) Set[T] {
	sub := MakeSet[T]()
	for k := range s {
		if !s2.Has(k) {
			sub.Insert(k)
		}
	}
	return sub
}
