package transform

import (
	"fmt"
	"math"
	"slices"

	"github.com/patrickmn/go-cache"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/random"
)

// Pseudo-Boolean instance ranges: instance 1 is the identity, the XOR range
// flips bits, the permutation range reorders them.
const (
	xorFirst  = 2
	xorLast   = 50
	permFirst = 51
	permLast  = 100
)

// BitInstance holds the instance parameters of a pseudo-Boolean problem.
// Mask and Perm are nil when the instance does not use them; A and B scale
// the objective as a·y + b.
type BitInstance struct {
	Seed uint32
	Mask []int
	Perm []int
	A, B float64
}

// Clone returns a deep copy.
func (in *BitInstance) Clone() *BitInstance {
	out := *in
	out.Mask = slices.Clone(in.Mask)
	out.Perm = slices.Clone(in.Perm)
	return &out
}

// Identity reports whether the instance leaves the problem untouched.
func (in *BitInstance) Identity() bool {
	return in.Mask == nil && in.Perm == nil && in.A == 1 && in.B == 0
}

// BuildBits returns the pseudo-Boolean instance parameters for
// (id, instance, dimension).
func (b *Builder) BuildBits(id, instance, dimension int) (*BitInstance, error) {
	if err := b.limits.Check(b.family, id, instance, dimension); err != nil {
		return nil, &problem.ConfigurationError{
			Field:  "instance parameters",
			Value:  fmt.Sprintf("%d/%d/%d", id, instance, dimension),
			Reason: err.Error(),
		}
	}

	key := fmt.Sprintf("%s/bits/%d/%d/%d", b.family, id, instance, dimension)
	if cached, ok := b.instances.Get(key); ok {
		return cached.(*BitInstance).Clone(), nil
	}

	seed := b.Seed(id, instance)
	in := &BitInstance{Seed: seed, A: 1}
	switch {
	case instance >= xorFirst && instance <= xorLast:
		in.Mask = XORMask(seed, dimension)
		in.A, in.B = ObjectiveScale(seed + 1)
	case instance >= permFirst && instance <= permLast:
		in.Perm = random.New(seed).Permutation(dimension)
		in.A, in.B = ObjectiveScale(seed + 1)
	}
	b.instances.Set(key, in, cache.DefaultExpiration)
	return in.Clone(), nil
}

// XORMask derives a bit mask of length n.
func XORMask(seed uint32, n int) []int {
	e := random.New(seed)
	mask := make([]int, n)
	for i := range mask {
		mask[i] = int(math.Floor(2 * e.Uniform()))
	}
	return mask
}

// ObjectiveScale derives a multiplier in [0.2, 5) and an offset in
// [-1000, 1000).
func ObjectiveScale(seed uint32) (a, b float64) {
	e := random.New(seed)
	a = 0.2 + 4.8*e.Uniform()
	b = -1000 + 2000*e.Uniform()
	return a, b
}

// XOR flips the bits selected by mask.
func XOR(mask []int) problem.VariableTransform[int] {
	mask = append([]int(nil), mask...)
	return func(x []int) []int {
		z := make([]int, len(x))
		for i := range x {
			z[i] = x[i] ^ mask[i]
		}
		return z
	}
}

// Permute reorders bits so that z[i] = x[perm[i]].
func Permute(perm []int) problem.VariableTransform[int] {
	perm = append([]int(nil), perm...)
	return func(x []int) []int {
		z := make([]int, len(x))
		for i, p := range perm {
			z[i] = x[p]
		}
		return z
	}
}

// ScaleObjective maps y to a·y + b.
func ScaleObjective(a, b float64) problem.ObjectiveTransform[int] {
	return func(_ []int, y float64) float64 {
		return a*y + b
	}
}
