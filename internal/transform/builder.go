// Package transform derives per-instance parameters from the random engine
// and provides the variable and objective transforms problems are built from.
package transform

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/patrickmn/go-cache"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/random"
)

const (
	// instanceStride separates the seeds of consecutive instances.
	instanceStride = 10000
	// rotationOffset separates the seed of the first rotation from the
	// shift seed.
	rotationOffset = 1000000
	// optimumLimit bounds the reference optimum value.
	optimumLimit = 1000.0

	cacheExpiration = 10 * time.Minute
	cacheCleanup    = 30 * time.Minute
)

// Instance holds the parameters of one problem instance. It is immutable once
// built; use Clone before modifying it.
type Instance struct {
	Seed uint32
	XOpt []float64
	FOpt float64
	Rot1 *mat.Dense
	Rot2 *mat.Dense
}

// Clone returns a deep copy so that no two problems share buffers.
func (in *Instance) Clone() *Instance {
	out := &Instance{
		Seed: in.Seed,
		XOpt: append([]float64(nil), in.XOpt...),
		FOpt: in.FOpt,
	}
	if in.Rot1 != nil {
		out.Rot1 = mat.DenseCopyOf(in.Rot1)
	}
	if in.Rot2 != nil {
		out.Rot2 = mat.DenseCopyOf(in.Rot2)
	}
	return out
}

// Builder derives instance parameters for one problem family.
//
// Thread Safety: Safe for concurrent use; built instances are cached and
// every caller receives its own clone.
type Builder struct {
	family    string
	limits    problem.Limits
	remapped  map[int]bool
	instances *cache.Cache
	optima    *cache.Cache
}

// NewBuilder creates a builder. Ids listed in remapped borrow the generator
// trajectory of id-1, for families that share a shape with their neighbour.
func NewBuilder(family string, limits problem.Limits, remapped ...int) *Builder {
	b := &Builder{
		family:    family,
		limits:    limits,
		remapped:  make(map[int]bool, len(remapped)),
		instances: cache.New(cacheExpiration, cacheCleanup),
		optima:    cache.New(cache.NoExpiration, 0),
	}
	for _, id := range remapped {
		b.remapped[id] = true
	}
	return b
}

// Seed combines a problem id and an instance id into the base seed.
func (b *Builder) Seed(id, instance int) uint32 {
	if b.remapped[id] {
		id--
	}
	return uint32(id + instanceStride*instance)
}

// Build returns the instance parameters for (id, instance, dimension).
func (b *Builder) Build(id, instance, dimension int) (*Instance, error) {
	if err := b.limits.Check(b.family, id, instance, dimension); err != nil {
		return nil, &problem.ConfigurationError{
			Field:  "instance parameters",
			Value:  fmt.Sprintf("%d/%d/%d", id, instance, dimension),
			Reason: err.Error(),
		}
	}

	key := fmt.Sprintf("%s/%d/%d/%d", b.family, id, instance, dimension)
	if cached, ok := b.instances.Get(key); ok {
		return cached.(*Instance).Clone(), nil
	}

	seed := b.Seed(id, instance)
	in := &Instance{
		Seed: seed,
		XOpt: XOpt(seed, dimension),
		FOpt: b.FOpt(id, instance),
		Rot1: Rotation(seed+rotationOffset, dimension),
		Rot2: Rotation(seed, dimension),
	}
	b.instances.Set(key, in, cache.DefaultExpiration)

	slog.Debug("Instance parameters built",
		"family", b.family,
		"problem_id", id,
		"instance", instance,
		"dimension", dimension,
		"seed", seed,
	)
	return in.Clone(), nil
}

// FOpt looks up the reference optimum value of (id, instance). Values are
// computed on first use and kept in the table for the builder's lifetime.
func (b *Builder) FOpt(id, instance int) float64 {
	key := fmt.Sprintf("%d/%d", id, instance)
	if v, ok := b.optima.Get(key); ok {
		return v.(float64)
	}
	v := OptimumValue(b.Seed(id, instance))
	b.optima.Set(key, v, cache.NoExpiration)
	return v
}

// OptimumValue derives a reference optimum in [-1000, 1000] rounded to two
// decimals from the ratio of two normal deviates.
func OptimumValue(seed uint32) float64 {
	g1 := random.New(seed).Normal()
	g2 := random.New(seed + 1).Normal()
	v := math.Round(100*100*g1/g2) / 100
	return math.Min(optimumLimit, math.Max(-optimumLimit, v))
}

// XOpt derives a shift vector on the grid of step 1e-4 in [-4, 4).
// Exact zeros are replaced by -1e-5.
func XOpt(seed uint32, dimension int) []float64 {
	e := random.New(seed)
	x := make([]float64, dimension)
	for i := range x {
		x[i] = 8*math.Floor(1e4*e.Uniform())/1e4 - 4
		if x[i] == 0 {
			x[i] = -1e-5
		}
	}
	return x
}

// Rotation derives an orthonormal matrix by Gram-Schmidt orthogonalization
// of the columns of a matrix of normal deviates.
func Rotation(seed uint32, dimension int) *mat.Dense {
	g := random.New(seed).Normals(dimension * dimension)

	cols := make([][]float64, dimension)
	for j := range cols {
		cols[j] = g[j*dimension : (j+1)*dimension]
	}
	for i := range cols {
		for j := 0; j < i; j++ {
			floats.AddScaled(cols[i], -floats.Dot(cols[i], cols[j]), cols[j])
		}
		floats.Scale(1/floats.Norm(cols[i], 2), cols[i])
	}

	r := mat.NewDense(dimension, dimension, nil)
	for j, c := range cols {
		r.SetCol(j, c)
	}
	return r
}
