// rand/rand.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import (
	"github.com/MichaelTJones/pcg"
)

///////////////////////////////////////////////////////////////////////////
// Random numbers.

type Rand struct {
	r *pcg.PCG32
}

func New() Rand {
	return Rand{r: pcg.NewPCG32()}
}

// Make returns a Rand seeded with s; simulations that must replay
// identically (tests, -seed) use one of these rather than the global.
func Make(s int64) Rand {
	r := New()
	r.Seed(s)
	return r
}

func (r *Rand) Seed(s int64) {
	r.r.Seed(uint64(s), 0xda3e39cb94b95bdb)
}

func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}

func (r *Rand) Float32() float32 {
	return float32(r.r.Random()) / (1<<32 - 1)
}

// Uniform returns a value uniformly distributed in [a,b].
func (r *Rand) Uniform(a, b float32) float32 {
	return a + (b-a)*r.Float32()
}

// Jitter returns v scaled by a random factor in [1-f, 1+f].
func (r *Rand) Jitter(v, f float32) float32 {
	return v * r.Uniform(1-f, 1+f)
}

func (r *Rand) Uint32() uint32 {
	return r.r.Random()
}

// SampleWeighted randomly samples an element from the given slice with the
// probability of choosing each element proportional to the value returned
// by the provided callback. -1 is returned if all weights are zero.
func SampleWeighted[T any](r *Rand, slice []T, weight func(T) float32) int {
	// Weighted reservoir sampling...
	idx := -1
	var sumWt float32
	for i, v := range slice {
		w := weight(v)
		if w <= 0 {
			continue
		}

		sumWt += w
		p := w / sumWt
		if r.Float32() < p {
			idx = i
		}
	}
	return idx
}

// Drop-in replacement for the subset of math/rand that we use...
var r Rand

func init() {
	r = New()
}

func Seed(s int64) {
	r.Seed(s)
}

func Intn(n int) int {
	return r.Intn(n)
}

func Float32() float32 {
	return r.Float32()
}

func Uniform(a, b float32) float32 {
	return r.Uniform(a, b)
}
