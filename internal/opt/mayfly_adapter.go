package opt

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// MinPopulation is the smallest population mayfly accepts.
const MinPopulation = 20

// MayflyAdapter wraps the external Mayfly library to conform to our Optimizer interface
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly creates a new Mayfly optimizer adapter
func NewMayfly(maxIters, popSize int, seed int64) *MayflyAdapter {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
		seed:     seed,
	}
}

// MayflyFactory returns a Factory producing adapters with fixed iteration
// and population settings.
func MayflyFactory(maxIters, popSize int) Factory {
	return func(seed int64) Optimizer {
		return NewMayfly(maxIters, popSize, seed)
	}
}

// Name implements Optimizer.
func (m *MayflyAdapter) Name() string {
	return "mayfly"
}

// Run executes the Mayfly optimization using the external library.
//
// Mayfly takes scalar bounds, so the box of the first variable is used for
// all of them.
func (m *MayflyAdapter) Run(eval Objective, lower, upper []float64, dim int) (Result, error) {
	if dim <= 0 || len(lower) < dim || len(upper) < dim {
		return Result{}, fmt.Errorf("mayfly: bounds of length %d/%d for dimension %d", len(lower), len(upper), dim)
	}
	for i := 1; i < dim; i++ {
		if lower[i] != lower[0] || upper[i] != upper[0] {
			slog.Warn("Non-uniform bounds, using first variable's box",
				"lower", lower[0],
				"upper", upper[0],
			)
			break
		}
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = mayfly.ObjectiveFunction(eval)
	config.ProblemSize = dim
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize
	config.LowerBound = lower[0]
	config.UpperBound = upper[0]
	config.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		return Result{}, fmt.Errorf("mayfly: %w", err)
	}
	return Result{X: result.GlobalBest.Position, Y: result.GlobalBest.Cost}, nil
}
