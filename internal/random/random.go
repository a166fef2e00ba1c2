// Package random implements the seeded lagged-Fibonacci generator that every
// problem instance is derived from.
//
// The generator is additive with short lag 273 and long lag 607, which gives a
// period well above 2^607-1. Its output depends only on the 32-bit seed and
// on IEEE-754 double arithmetic, so a given seed reproduces the same sequence
// on every platform.
//
// An Engine is not safe for concurrent use. Create one per consumer.
package random

import (
	"math"
	"sort"
)

const (
	// LongLag is the number of slots held in the state array.
	LongLag = 607
	// ShortLag is the lag of the additive recurrence.
	ShortLag = 273

	seedNorm = float64(1<<32 - 1)
)

// Engine holds the generator state: LongLag slots in [0,1) and a read cursor.
type Engine struct {
	x     [LongLag]float64
	index int
	seed  uint32
}

// New creates an engine from a 32-bit seed.
// The seed is expanded into the state array with the Knuth multiplicative
// recurrence; the first LongLag draws are the expanded values themselves.
func New(seed uint32) *Engine {
	e := &Engine{seed: seed}
	s := seed
	for i := 0; i < LongLag; i++ {
		e.x[i] = float64(s) / seedNorm
		s = 1812433253*(s^(s>>30)) + uint32(i+1)
	}
	return e
}

// Seed returns the seed the engine was created with.
func (e *Engine) Seed() uint32 {
	return e.seed
}

// generate refills the whole state array and rewinds the cursor.
func (e *Engine) generate() {
	for i := 0; i < ShortLag; i++ {
		t := e.x[i] + e.x[i+(LongLag-ShortLag)]
		if t >= 1.0 {
			t -= 1.0
		}
		e.x[i] = t
	}
	for i := ShortLag; i < LongLag; i++ {
		t := e.x[i] + e.x[i-ShortLag]
		if t >= 1.0 {
			t -= 1.0
		}
		e.x[i] = t
	}
	e.index = 0
}

// Uniform returns the next double in [0,1).
// The state is regenerated exactly when LongLag values have been consumed.
func (e *Engine) Uniform() float64 {
	if e.index >= LongLag {
		e.generate()
	}
	v := e.x[e.index]
	e.index++
	return v
}

// Normal returns a standard normal deviate using the Box-Muller transform.
// It consumes two uniforms.
func (e *Engine) Normal() float64 {
	u1 := e.Uniform()
	u2 := e.Uniform()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Uniforms draws n uniform values.
func (e *Engine) Uniforms(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = e.Uniform()
	}
	return out
}

// Normals draws n normal values.
func (e *Engine) Normals(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = e.Normal()
	}
	return out
}

// Permutation returns a permutation of 0..n-1 obtained by sorting n uniform
// keys. Ties keep their original order.
func (e *Engine) Permutation(n int) []int {
	keys := e.Uniforms(n)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return keys[perm[a]] < keys[perm[b]]
	})
	return perm
}
