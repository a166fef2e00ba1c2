package pbo

import (
	"math"
	"slices"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/random"
)

// dummySeed fixes the selection of relevant bits for the dummy variants
// independently of the instance.
const dummySeed = 10000

func oneMax(x []int) float64 {
	var sum int
	for _, v := range x {
		sum += v
	}
	return float64(sum)
}

func leadingOnes(x []int) float64 {
	for i, v := range x {
		if v != 1 {
			return float64(i)
		}
	}
	return float64(len(x))
}

// linear weighs bit i by i+1.
func linear(x []int) float64 {
	var sum int
	for i, v := range x {
		sum += (i + 1) * v
	}
	return float64(sum)
}

func newOneMax(n int) (function, error) {
	return function{kernel: oneMax, optimum: float64(n), known: true, ones: true}, nil
}

func newLeadingOnes(n int) (function, error) {
	return function{kernel: leadingOnes, optimum: float64(n), known: true, ones: true}, nil
}

func newLinear(n int) (function, error) {
	return function{kernel: linear, optimum: float64(n*(n+1)) / 2, known: true, ones: true}, nil
}

// DummyBits selects floor(rate·n) distinct bit positions in ascending order.
func DummyBits(n int, rate float64) []int {
	k := int(math.Floor(rate * float64(n)))
	selected := random.New(dummySeed).Permutation(n)[:k]
	slices.Sort(selected)
	return selected
}

// newOneMaxDummy returns the constructor of OneMax restricted to a fixed
// fraction of the bits; the remaining bits have no effect.
func newOneMaxDummy(rate float64) func(int) (function, error) {
	return func(n int) (function, error) {
		bits := DummyBits(n, rate)
		kernel := func(x []int) float64 {
			var sum int
			for _, i := range bits {
				sum += x[i]
			}
			return float64(sum)
		}
		return function{kernel: kernel, optimum: float64(len(bits)), known: true, ones: true}, nil
	}
}

// newOneMaxNeutrality returns the constructor of OneMax over the majority
// votes of consecutive blocks of mu bits. Trailing bits that do not fill a
// block are ignored.
func newOneMaxNeutrality(mu int) func(int) (function, error) {
	return func(n int) (function, error) {
		blocks := n / mu
		kernel := func(x []int) float64 {
			var sum int
			for b := 0; b < blocks; b++ {
				var ones int
				for _, v := range x[b*mu : (b+1)*mu] {
					ones += v
				}
				if 2*ones >= mu {
					sum++
				}
			}
			return float64(sum)
		}
		return function{kernel: kernel, optimum: float64(blocks), known: true, ones: true}, nil
	}
}

// ruggedness1 merges OneMax levels pairwise so that neighbouring fitness
// values share a plateau.
func ruggedness1(y float64, n int) float64 {
	switch {
	case y == float64(n):
		return math.Ceil(y/2) + 1
	case n%2 == 0:
		return math.Floor(y/2) + 1
	default:
		return math.Ceil(y/2) + 1
	}
}

func newOneMaxRuggedness1(n int) (function, error) {
	kernel := func(x []int) float64 {
		return ruggedness1(oneMax(x), len(x))
	}
	return function{kernel: kernel, optimum: ruggedness1(float64(n), n), known: true, ones: true}, nil
}

// newLABS is the low-autocorrelation binary sequence problem, scored by the
// merit factor n²/(2E). Its optimum is only known for small n.
func newLABS(n int) (function, error) {
	if n < 2 {
		return function{}, &problem.ConfigurationError{
			Field:  "dimension",
			Value:  n,
			Reason: "LABS needs at least 2 bits",
		}
	}
	kernel := func(x []int) float64 {
		var energy float64
		for k := 1; k < len(x); k++ {
			var c int
			for i := 0; i+k < len(x); i++ {
				c += (2*x[i] - 1) * (2*x[i+k] - 1)
			}
			energy += float64(c * c)
		}
		return float64(len(x)*len(x)) / (2 * energy)
	}
	return function{kernel: kernel}, nil
}

// isingRing counts neighbouring bits with equal values on a ring.
func isingRing(x []int) float64 {
	var sum int
	for i, v := range x {
		prev := x[(i+len(x)-1)%len(x)]
		if v == prev {
			sum++
		}
	}
	return float64(sum)
}

func newIsingRing(n int) (function, error) {
	return function{kernel: isingRing, optimum: float64(n), known: true, ones: true}, nil
}
