package logger

import (
	"math"
)

// EAHHistogram sums the histograms of several runs. It returns nil for no
// runs.
func EAHHistogram(runs []*Matrix) *Matrix {
	if len(runs) == 0 {
		return nil
	}
	out := NewMatrix(runs[0].Rows(), runs[0].Cols())
	for _, m := range runs {
		for i, row := range m.Counts {
			for j, c := range row {
				out.Counts[i][j] += c
			}
		}
		for j, c := range m.Undefined {
			out.Undefined[j] += c
		}
	}
	return out
}

// EAHDistribution is the histogram averaged over runs.
func EAHDistribution(runs []*Matrix) [][]float64 {
	sum := EAHHistogram(runs)
	if sum == nil {
		return nil
	}
	n := float64(len(runs))
	out := make([][]float64, sum.Rows())
	for i, row := range sum.Counts {
		out[i] = make([]float64, len(row))
		for j, c := range row {
			out[i][j] = float64(c) / n
		}
	}
	return out
}

// EAHAttained marks the cells whose whole area a run has attained: cell
// (i, j) is attained when, by the end of budget bucket j-1, the run held a
// value in a strictly better performance bucket than i. The first budget
// column and the best performance row are never attained, so the marked
// region under-approximates the true attainment region.
func EAHAttained(m *Matrix, maximize bool) [][]bool {
	rows, cols := m.Rows(), m.Cols()
	out := make([][]bool, rows)
	for i := range out {
		out[i] = make([]bool, cols)
	}

	for j := 1; j < cols; j++ {
		// Best row holding a count in column j-1.
		best := -1
		for i := 0; i < rows; i++ {
			if m.Counts[i][j-1] == 0 {
				continue
			}
			if best < 0 || (maximize && i > best) || (!maximize && i < best) {
				best = i
			}
		}
		if best < 0 {
			continue
		}
		for i := 0; i < rows; i++ {
			out[i][j] = (maximize && i < best) || (!maximize && i > best)
		}
	}
	return out
}

// EAHVolume is the attained area in objective × budget units, averaged
// over runs. It lies in [0, perf.Range()·budget.Range()] and does not
// decrease when both scales are refined by splitting buckets.
func EAHVolume(runs []*Matrix, perf, budget *Scale, maximize bool) float64 {
	if len(runs) == 0 {
		return 0
	}
	var total float64
	for _, m := range runs {
		for i, row := range EAHAttained(m, maximize) {
			for j, attained := range row {
				if attained {
					total += perf.Width(i) * budget.Width(j)
				}
			}
		}
	}
	return total / float64(len(runs))
}

// EAHVolumeNormalized is EAHVolume divided by the area of the scales, in
// [0, 1]. Areas are measured in the original units on both axes, so on a
// logarithmic performance scale the top decades dominate the volume. See
// EAHVolumeScaled for the area in the spaces of the scales.
func EAHVolumeNormalized(runs []*Matrix, perf, budget *Scale, maximize bool) float64 {
	return EAHVolume(runs, perf, budget, maximize) / (perf.Range() * budget.Range())
}

// EAHVolumeScaled is the attained area measured in the spaces of the scales
// (decades on a Log10 scale), normalized to [0, 1]. Buckets are evenly
// spaced there, so this is the attained fraction of cells.
func EAHVolumeScaled(runs []*Matrix, maximize bool) float64 {
	if len(runs) == 0 {
		return 0
	}
	var total float64
	for _, m := range runs {
		cells := m.Rows() * m.Cols()
		if cells == 0 {
			continue
		}
		var attained int
		for _, row := range EAHAttained(m, maximize) {
			for _, a := range row {
				if a {
					attained++
				}
			}
		}
		total += float64(attained) / float64(cells)
	}
	return total / float64(len(runs))
}

// EAFAttainment returns the fraction of runs that reached target within
// budget evaluations.
func EAFAttainment(runs []Run, target float64, budget int, maximize bool) float64 {
	if len(runs) == 0 {
		return 0
	}
	var hits int
	for _, r := range runs {
		v, ok := finite(r).Best(budget)
		if ok && ((maximize && v >= target) || (!maximize && v <= target)) {
			hits++
		}
	}
	return float64(hits) / float64(len(runs))
}

// EAFVolume is the exact area of the attainment region inside the box
// spanned by the scales, averaged over runs. Budgets are treated as
// continuous: after an improvement at evaluation e the value holds on
// [e, next improvement).
func EAFVolume(runs []Run, perf, budget *Scale, maximize bool) float64 {
	if len(runs) == 0 {
		return 0
	}
	var total float64
	for _, r := range runs {
		total += runVolume(finite(r), perf, budget, maximize)
	}
	return total / float64(len(runs))
}

// EAFVolumeNormalized is EAFVolume divided by the area of the scales, in
// [0, 1]. Like EAHVolumeNormalized it measures in the original units.
func EAFVolumeNormalized(runs []Run, perf, budget *Scale, maximize bool) float64 {
	return EAFVolume(runs, perf, budget, maximize) / (perf.Range() * budget.Range())
}

// EAFVolumeScaled is the exact attained area measured in the spaces of the
// scales, averaged over runs and normalized to [0, 1].
func EAFVolumeScaled(runs []Run, perf, budget *Scale, maximize bool) float64 {
	if len(runs) == 0 {
		return 0
	}
	var total float64
	for _, r := range runs {
		total += runVolumeScaled(finite(r), perf, budget, maximize, true)
	}
	return total / float64(len(runs)) / (perf.ScaledRange() * budget.ScaledRange())
}

func runVolume(r Run, perf, budget *Scale, maximize bool) float64 {
	return runVolumeScaled(r, perf, budget, maximize, false)
}

func runVolumeScaled(r Run, perf, budget *Scale, maximize, scaled bool) float64 {
	at := func(s *Scale, v float64) float64 {
		if scaled {
			return s.scaled(v)
		}
		return v
	}

	var area float64
	for k, p := range r {
		start := math.Max(float64(p.Evaluation), budget.Min())
		end := budget.Max()
		if k+1 < len(r) {
			end = math.Min(float64(r[k+1].Evaluation), end)
		}
		if end <= start {
			continue
		}

		v := math.Min(math.Max(p.Value, perf.Min()), perf.Max())
		height := at(perf, perf.Max()) - at(perf, v)
		if maximize {
			height = at(perf, v) - at(perf, perf.Min())
		}
		area += (at(budget, end) - at(budget, start)) * height
	}
	return area
}

// finite drops points with non-finite values.
func finite(r Run) Run {
	out := make(Run, 0, len(r))
	for _, p := range r {
		if !math.IsNaN(p.Value) && !math.IsInf(p.Value, 0) {
			out = append(out, p)
		}
	}
	return out
}
