// Package bbob provides the 24 noiseless continuous benchmark functions.
//
// Every function is a kernel wrapped in a transformation pipeline whose
// parameters (shift, rotations, optimum value) are derived from the
// instance id. All functions are minimized over [-5, 5]^n.
package bbob

import (
	"math"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/transform"
)

// Family is the registry name of the continuous family.
const Family = "bbob"

const (
	lowerBound = -5.0
	upperBound = 5.0
)

// Limits are the selector ranges of the family.
var Limits = problem.Limits{
	MaxID:       24,
	MinInstance: 1,
	MaxInstance: 1000,
	MinDim:      2,
	MaxDim:      100,
}

// Ids whose instances reuse the generator trajectory of the previous id.
var remapped = []int{4, 18}

// function is a configured kernel together with its pipeline and the
// location of its optimum.
type function struct {
	kernel   problem.Kernel[float64]
	pipeline problem.Pipeline[float64]
	xopt     []float64
}

type definition struct {
	id    int
	name  string
	build func(in *transform.Instance, bounds problem.Bounds) function
}

var definitions = []definition{
	{1, "Sphere", newSphere},
	{2, "Ellipsoid", newEllipsoid},
	{3, "Rastrigin", newRastrigin},
	{4, "BuecheRastrigin", newBuecheRastrigin},
	{5, "LinearSlope", newLinearSlope},
	{6, "AttractiveSector", newAttractiveSector},
	{7, "StepEllipsoid", newStepEllipsoid},
	{8, "Rosenbrock", newRosenbrock},
	{9, "RosenbrockRotated", newRosenbrockRotated},
	{10, "EllipsoidRotated", newEllipsoidRotated},
	{11, "Discus", newDiscus},
	{12, "BentCigar", newBentCigar},
	{13, "SharpRidge", newSharpRidge},
	{14, "DifferentPowers", newDifferentPowers},
	{15, "RastriginRotated", newRastriginRotated},
	{16, "Weierstrass", newWeierstrass},
	{17, "Schaffers10", newSchaffers(10)},
	{18, "Schaffers1000", newSchaffers(1000)},
	{19, "GriewankRosenbrock", newGriewankRosenbrock},
	{20, "Schwefel", newSchwefel},
	{21, "Gallagher101", newGallagher(101, 10, 5, math.Sqrt(1000))},
	{22, "Gallagher21", newGallagher(21, 9.8, 4.9, 1000)},
	{23, "Katsuura", newKatsuura},
	{24, "LunacekBiRastrigin", newLunacekBiRastrigin},
}

// NewRegistry returns a registry holding every function of the family.
// Registries are independent; instances built by one are never shared with
// another.
func NewRegistry() *problem.Registry[float64] {
	reg := problem.NewRegistry[float64](Family, Limits)
	builder := transform.NewBuilder(Family, Limits, remapped...)

	for _, d := range definitions {
		reg.MustRegister(d.name, d.id, func(instance, dimension int) (*problem.Problem[float64], error) {
			in, err := builder.Build(d.id, instance, dimension)
			if err != nil {
				return nil, err
			}
			bounds := problem.NewBounds(dimension, lowerBound, upperBound)
			fn := d.build(in, bounds)

			meta := problem.Metadata{
				ID:        d.id,
				Name:      d.name,
				Family:    Family,
				Instance:  instance,
				Dimension: dimension,
				Bounds:    bounds,
				Optimum:   problem.Optimum{X: fn.xopt, Y: in.FOpt, Known: true},
			}
			return problem.New(meta, fn.kernel, fn.pipeline), nil
		})
	}
	return reg
}

// shifted is the pipeline shared by most functions: move the optimum to the
// origin before the kernel and add the optimum value after it.
func shifted(in *transform.Instance, vars ...problem.VariableTransform[float64]) problem.Pipeline[float64] {
	return problem.Pipeline[float64]{
		Variables:  append([]problem.VariableTransform[float64]{transform.Shift(in.XOpt)}, vars...),
		Objectives: []problem.ObjectiveTransform[float64]{transform.ShiftObjective(in.FOpt)},
	}
}

// penalized is shifted with a boundary penalty in front of the optimum shift.
func penalized(in *transform.Instance, bounds problem.Bounds, factor float64, vars ...problem.VariableTransform[float64]) problem.Pipeline[float64] {
	p := shifted(in, vars...)
	p.Objectives = append([]problem.ObjectiveTransform[float64]{transform.Penalty(factor, bounds)}, p.Objectives...)
	return p
}

// round rounds half up.
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
