package bbob

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/random"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/transform"
)

const (
	schwefelOptimum = 4.2096874637
	schwefelBound   = 500.0
	schwefelOffset  = 418.9828872724339

	katsuuraTerms = 32

	lunacekMu0       = 2.5
	lunacekD         = 1.0
	lunacekCondition = 100.0
	lunacekPenalty   = 1e4
)

func schwefel(x []float64) float64 {
	var penalty, sum float64
	for _, v := range x {
		if d := math.Abs(v) - schwefelBound; d > 0 {
			penalty += d * d
		}
		sum += v * math.Sin(math.Sqrt(math.Abs(v)))
	}
	return 0.01 * (penalty + schwefelOffset - sum/float64(len(x)))
}

func katsuura(x []float64) float64 {
	n := float64(len(x))
	prod := 1.0
	for i, v := range x {
		var t float64
		for j := 1; j <= katsuuraTerms; j++ {
			p := math.Pow(2, float64(j))
			t += math.Abs(p*v-round(p*v)) / p
		}
		prod *= 1 + float64(i+1)*t
	}
	return 10 / (n * n) * (math.Pow(prod, 10/math.Pow(n, 1.2)) - 1)
}

// newSchwefel places the optimum at ±4.2096874637/2 with signs drawn from
// the instance seed, then moves it to the Schwefel optimum of the kernel.
func newSchwefel(in *transform.Instance, _ problem.Bounds) function {
	n := len(in.XOpt)
	signs := random.New(in.Seed).Uniforms(n)
	xopt := make([]float64, n)
	double := make([]float64, n)
	for i, u := range signs {
		xopt[i] = 0.5 * schwefelOptimum
		if u < 0.5 {
			xopt[i] = -xopt[i]
		}
		double[i] = 2 * math.Abs(xopt[i])
	}

	// Couple each coordinate to its predecessor's distance from the optimum.
	couple := func(x []float64) []float64 {
		z := make([]float64, len(x))
		z[0] = x[0]
		for i := 1; i < len(x); i++ {
			z[i] = x[i] + 0.25*(x[i-1]-double[i-1])
		}
		return z
	}
	negDouble := make([]float64, n)
	floats.ScaleTo(negDouble, -1, double)

	return function{
		kernel: schwefel,
		pipeline: problem.Pipeline[float64]{
			Variables: []problem.VariableTransform[float64]{
				transform.SignFlip(xopt, 2),
				couple,
				transform.Shift(double),
				transform.Conditioning(10),
				transform.Shift(negDouble),
				transform.Scale(100),
			},
			Objectives: []problem.ObjectiveTransform[float64]{transform.ShiftObjective(in.FOpt)},
		},
		xopt: xopt,
	}
}

// gallagher is a mixture of Gaussian peaks with random positions, heights
// and conditionings. The highest peak is the global optimum.
type gallagher struct {
	rot       *mat.Dense
	locations [][]float64
	weights   [][]float64
	heights   []float64
}

// newGallagher returns the constructor for a mixture of peaks. Peak
// locations are drawn uniformly from [-c, b-c); the global peak is pulled
// towards the centre and gets its own conditioning.
func newGallagher(peaks int, b, c, globalCondition float64) func(*transform.Instance, problem.Bounds) function {
	const maxCondition = 1000.0

	return func(in *transform.Instance, bounds problem.Bounds) function {
		n := len(in.XOpt)
		g := &gallagher{
			rot:       in.Rot2,
			locations: make([][]float64, peaks),
			weights:   make([][]float64, peaks),
			heights:   make([]float64, peaks),
		}

		rank := random.New(in.Seed).Permutation(peaks - 1)
		u := random.New(in.Seed).Uniforms(n * peaks)
		for i := 0; i < peaks; i++ {
			condition := globalCondition
			g.heights[i] = 10
			if i > 0 {
				condition = math.Pow(maxCondition, float64(rank[i-1])/float64(peaks-2))
				g.heights[i] = 1.1 + 8*float64(i-1)/float64(peaks-2)
			}

			order := random.New(in.Seed + uint32(1000*i)).Permutation(n)
			g.weights[i] = make([]float64, n)
			for j, k := range order {
				g.weights[i][j] = math.Pow(condition, transform.Exponent(k, n)-0.5)
			}

			g.locations[i] = make([]float64, n)
			for j := range g.locations[i] {
				g.locations[i][j] = b*u[i*n+j] - c
				if i == 0 {
					g.locations[i][j] *= 0.8
				}
			}
		}

		return function{
			kernel: g.evaluate,
			pipeline: problem.Pipeline[float64]{
				Objectives: []problem.ObjectiveTransform[float64]{
					transform.Penalty(1, bounds),
					transform.ShiftObjective(in.FOpt),
				},
			},
			xopt: append([]float64(nil), g.locations[0]...),
		}
	}
}

func (g *gallagher) evaluate(x []float64) float64 {
	n := len(x)
	diff := make([]float64, n)
	var d mat.VecDense

	best := 0.0
	for i, loc := range g.locations {
		floats.SubTo(diff, x, loc)
		d.MulVec(g.rot, mat.NewVecDense(n, diff))

		var q float64
		for j, w := range g.weights[i] {
			v := d.AtVec(j)
			q += w * v * v
		}
		best = math.Max(best, g.heights[i]*math.Exp(-0.5/float64(n)*q))
	}
	v := transform.Oscillation(10 - best)
	return v * v
}

func newKatsuura(in *transform.Instance, bounds problem.Bounds) function {
	return function{
		kernel:   katsuura,
		pipeline: penalized(in, bounds, 1, transform.Rotate(transform.ConditionedRotation(in.Rot1, in.Rot2, 100))),
		xopt:     in.XOpt,
	}
}

// newLunacekBiRastrigin combines two sphere funnels, one of them deceptive,
// with a rotated Rastrigin term. Like the step ellipsoid it evaluates
// everything but the optimum shift in its kernel.
func newLunacekBiRastrigin(in *transform.Instance, bounds problem.Bounds) function {
	n := len(in.XOpt)
	s := 1 - 1/(2*math.Sqrt(float64(n)+20)-8.2)
	mu1 := -math.Sqrt((lunacekMu0*lunacekMu0 - lunacekD) / s)

	xopt := make([]float64, n)
	for i, g := range random.New(in.Seed).Normals(n) {
		xopt[i] = 0.5 * lunacekMu0
		if g < 0 {
			xopt[i] = -xopt[i]
		}
	}

	m := transform.ConditionedRotation(in.Rot1, in.Rot2, lunacekCondition)
	kernel := func(x []float64) float64 {
		xhat := make([]float64, n)
		centred := make([]float64, n)
		for i, v := range x {
			xhat[i] = 2 * v
			if xopt[i] < 0 {
				xhat[i] = -xhat[i]
			}
			centred[i] = xhat[i] - lunacekMu0
		}

		var z mat.VecDense
		z.MulVec(m, mat.NewVecDense(n, centred))

		var near, far, cosines float64
		for i := range xhat {
			near += centred[i] * centred[i]
			far += (xhat[i] - mu1) * (xhat[i] - mu1)
			cosines += math.Cos(2 * math.Pi * z.AtVec(i))
		}
		return math.Min(near, lunacekD*float64(n)+s*far) +
			10*(float64(n)-cosines) +
			lunacekPenalty*transform.BoundaryViolation(x, bounds)
	}

	return function{
		kernel: kernel,
		pipeline: problem.Pipeline[float64]{
			Objectives: []problem.ObjectiveTransform[float64]{transform.ShiftObjective(in.FOpt)},
		},
		xopt: xopt,
	}
}
