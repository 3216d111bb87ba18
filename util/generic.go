// util/generic.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"slices"

	"golang.org/x/exp/constraints"
)

func Select[T any](sel bool, a, b T) T {
	if sel {
		return a
	} else {
		return b
	}
}

// SortedMapKeys returns the keys of the given map, sorted from low to high.
func SortedMapKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// MapSlice returns the slice that is the result of applying the provided
// xform function to all of the elements of the given slice.
func MapSlice[F, T any](from []F, xform func(F) T) []T {
	var to []T
	for _, item := range from {
		to = append(to, xform(item))
	}
	return to
}

// FilterSlice applies the given filter function pred to the given slice,
// returning a new slice that only contains elements where pred returned
// true.
func FilterSlice[V any](s []V, pred func(V) bool) []V {
	var filtered []V
	for _, item := range s {
		if pred(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// FilterSliceInPlace is like FilterSlice but reuses the storage of s.
func FilterSliceInPlace[V any](s []V, pred func(V) bool) []V {
	n := 0
	for _, item := range s {
		if pred(item) {
			s[n] = item
			n++
		}
	}
	clear(s[n:])
	return s[:n]
}

// RingBuffer holds the most recent values added to it, up to a fixed
// capacity.
type RingBuffer[V any] struct {
	buf   []V
	start int
	n     int
}

func NewRingBuffer[V any](capacity int) *RingBuffer[V] {
	return &RingBuffer[V]{buf: make([]V, capacity)}
}

func (r *RingBuffer[V]) Add(v V) {
	if len(r.buf) == 0 {
		return
	}
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = v
		r.n++
	} else {
		r.buf[r.start] = v
		r.start = (r.start + 1) % len(r.buf)
	}
}

func (r *RingBuffer[V]) Size() int {
	return r.n
}

// Get returns the ith oldest value.
func (r *RingBuffer[V]) Get(i int) V {
	return r.buf[(r.start+i)%len(r.buf)]
}

func (r *RingBuffer[V]) Clear() {
	r.start, r.n = 0, 0
}
