// Package pbo provides pseudo-Boolean benchmark functions over {0,1}^n.
//
// All functions are maximized. Instance 1 is the plain function, instances
// 2-50 flip a random subset of bits and instances 51-100 permute them; both
// transformed ranges also rescale the objective as a·y + b with a > 0.
package pbo

import (
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/transform"
)

// Family is the registry name of the pseudo-Boolean family.
const Family = "pbo"

// Limits are the selector ranges of the family. Ids without a registered
// function are reserved.
var Limits = problem.Limits{
	MaxID:       25,
	MinInstance: 1,
	MaxInstance: 100,
	MinDim:      1,
	MaxDim:      20000,
}

// function describes the untransformed problem of a dimension.
type function struct {
	kernel problem.Kernel[int]
	// optimum is the best kernel value; known is false when it is not
	// available in closed form.
	optimum float64
	known   bool
	// ones reports whether the all-ones string is optimal.
	ones bool
}

type definition struct {
	id    int
	name  string
	build func(dimension int) (function, error)
}

var definitions = []definition{
	{1, "OneMax", newOneMax},
	{2, "LeadingOnes", newLeadingOnes},
	{3, "Linear", newLinear},
	{4, "OneMaxDummy1", newOneMaxDummy(0.5)},
	{5, "OneMaxDummy2", newOneMaxDummy(0.9)},
	{6, "OneMaxNeutrality", newOneMaxNeutrality(3)},
	{8, "OneMaxRuggedness1", newOneMaxRuggedness1},
	{18, "LABS", newLABS},
	{19, "IsingRing", newIsingRing},
}

// NewRegistry returns a registry holding every function of the family.
func NewRegistry() *problem.Registry[int] {
	reg := problem.NewRegistry[int](Family, Limits)
	builder := transform.NewBuilder(Family, Limits)

	for _, d := range definitions {
		reg.MustRegister(d.name, d.id, func(instance, dimension int) (*problem.Problem[int], error) {
			in, err := builder.BuildBits(d.id, instance, dimension)
			if err != nil {
				return nil, err
			}
			fn, err := d.build(dimension)
			if err != nil {
				return nil, err
			}

			var pipeline problem.Pipeline[int]
			if in.Mask != nil {
				pipeline = pipeline.Then(transform.XOR(in.Mask))
			}
			if in.Perm != nil {
				pipeline = pipeline.Then(transform.Permute(in.Perm))
			}
			if !in.Identity() {
				pipeline = pipeline.ThenObjective(transform.ScaleObjective(in.A, in.B))
			}

			meta := problem.Metadata{
				ID:        d.id,
				Name:      d.name,
				Family:    Family,
				Instance:  instance,
				Dimension: dimension,
				Bounds:    problem.NewBounds(dimension, 0, 1),
				Maximize:  true,
				Optimum: problem.Optimum{
					X:     optimumLocation(fn, in, dimension),
					Y:     in.A*fn.optimum + in.B,
					Known: fn.known,
				},
			}
			return problem.New(meta, fn.kernel, pipeline), nil
		})
	}
	return reg
}

// optimumLocation maps the all-ones optimum through the instance transform.
func optimumLocation(fn function, in *transform.BitInstance, dimension int) []float64 {
	if !fn.ones {
		return nil
	}
	x := make([]float64, dimension)
	for i := range x {
		x[i] = 1
		if in.Mask != nil {
			x[i] = float64(1 ^ in.Mask[i])
		}
	}
	return x
}
