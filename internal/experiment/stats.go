package experiment

import (
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/logger"
)

// Stats summarizes the runs of one problem instance.
type Stats struct {
	logger.Key
	Runs int `json:"runs"`
	// Solved is the fraction of runs that reached the known optimum.
	Solved float64 `json:"solved"`
	// EAHVolume and EAFVolume are normalized to [0, 1].
	EAHVolume float64 `json:"eahVolume"`
	EAFVolume float64 `json:"eafVolume"`
	// The scaled volumes measure area in the spaces of the scales.
	EAHVolumeScaled float64 `json:"eahVolumeScaled"`
	EAFVolumeScaled float64 `json:"eafVolumeScaled"`
}

// Stats returns per-instance statistics ordered by problem, instance and
// dimension, followed by one entry with a zero Key aggregating all runs.
func (o *Outcome) Stats() []Stats {
	perf, budget := o.EAH.Scales()

	solved := make(map[logger.Key]int)
	for _, r := range o.Runs {
		if r.OptimumFound {
			solved[r.Key]++
		}
	}

	var out []Stats
	var totalSolved int
	for _, k := range o.EAH.Keys() {
		hists := o.EAH.Runs(k)
		out = append(out, Stats{
			Key:       k,
			Runs:      len(hists),
			Solved:    float64(solved[k]) / float64(len(hists)),
			EAHVolume: logger.EAHVolumeNormalized(hists, perf, budget, o.Maximize),
			EAFVolume: logger.EAFVolumeNormalized(o.EAF.Runs(k), perf, budget, o.Maximize),

			EAHVolumeScaled: logger.EAHVolumeScaled(hists, o.Maximize),
			EAFVolumeScaled: logger.EAFVolumeScaled(o.EAF.Runs(k), perf, budget, o.Maximize),
		})
		totalSolved += solved[k]
	}

	all := o.EAH.All()
	if len(all) == 0 {
		return out
	}
	return append(out, Stats{
		Runs:      len(all),
		Solved:    float64(totalSolved) / float64(len(all)),
		EAHVolume: logger.EAHVolumeNormalized(all, perf, budget, o.Maximize),
		EAFVolume: logger.EAFVolumeNormalized(o.EAF.All(), perf, budget, o.Maximize),

		EAHVolumeScaled: logger.EAHVolumeScaled(all, o.Maximize),
		EAFVolumeScaled: logger.EAFVolumeScaled(o.EAF.All(), perf, budget, o.Maximize),
	})
}

// Distribution returns the averaged attainment histogram over all runs of
// the experiment.
func (o *Outcome) Distribution() [][]float64 {
	return logger.EAHDistribution(o.EAH.All())
}

// ECDF returns, for every budget edge, the fraction of (run, target) pairs
// attained within that many evaluations, with the performance edges as
// targets.
func (o *Outcome) ECDF() []float64 {
	perf, budget := o.EAH.Scales()
	runs := o.EAF.All()
	targets := perf.Edges()

	out := make([]float64, 0, budget.Size()+1)
	for _, b := range budget.Edges() {
		var sum float64
		for _, t := range targets {
			sum += logger.EAFAttainment(runs, t, int(b), o.Maximize)
		}
		out = append(out, sum/float64(len(targets)))
	}
	return out
}
