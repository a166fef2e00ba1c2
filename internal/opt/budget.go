package opt

import "math"

// Budget caps the number of calls an optimizer may make to an objective.
// Once the cap is reached, or once stop reports true, the guarded objective
// answers +Inf without calling through.
type Budget struct {
	eval  Objective
	limit int
	used  int
	stop  func() bool
}

// NewBudget guards eval with limit calls. stop may be nil.
func NewBudget(eval Objective, limit int, stop func() bool) *Budget {
	return &Budget{eval: eval, limit: limit, stop: stop}
}

// Objective returns the guarded objective.
func (b *Budget) Objective() Objective {
	return func(x []float64) float64 {
		if b.Exhausted() {
			return math.Inf(1)
		}
		b.used++
		return b.eval(x)
	}
}

// Used returns the number of calls passed through.
func (b *Budget) Used() int { return b.used }

// Exhausted reports whether further calls are cut off.
func (b *Budget) Exhausted() bool {
	return b.used >= b.limit || (b.stop != nil && b.stop())
}
