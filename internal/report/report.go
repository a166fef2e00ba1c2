// Package report renders stored experiment results as standalone HTML pages.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/store"
)

// Render writes an HTML page with the attainment histogram heatmap, the
// attainment curve over the budget and the per-instance volumes of r.
func Render(w io.Writer, r *store.Result) error {
	if r == nil {
		return fmt.Errorf("result cannot be nil")
	}
	if err := r.Validate(); err != nil {
		return err
	}
	dist := r.Distribution()
	if dist == nil {
		return fmt.Errorf("result %s has no histograms", r.ID)
	}

	page := components.NewPage().SetPageTitle(title(r))
	page.AddCharts(
		heatmap(r, dist),
		attainmentCurve(r),
		volumes(r),
	)
	return page.Render(w)
}

func title(r *store.Result) string {
	if r.Config.Name != "" {
		return r.Config.Name
	}
	return "Experiment " + r.ID
}

func labels(edges []float64) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = fmt.Sprintf("%.3g", e)
	}
	return out
}

// heatmap shows the averaged histogram, one cell per performance and budget
// bucket, labelled by the lower edge of each bucket.
func heatmap(r *store.Result, dist [][]float64) *charts.HeatMap {
	var peak float64
	data := make([]opts.HeatMapData, 0, len(dist)*len(r.BudgetEdges))
	for i, row := range dist {
		for j, v := range row {
			peak = max(peak, v)
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Attainment histogram",
			Subtitle: fmt.Sprintf("%s, %d runs, mean records per cell", r.Config.Family, len(r.Runs)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "evaluations",
			Type:      "category",
			Data:      labels(r.BudgetEdges[:len(r.BudgetEdges)-1]),
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "performance",
			Type:      "category",
			Data:      labels(r.PerfEdges[:len(r.PerfEdges)-1]),
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(peak),
			InRange:    &opts.VisualMapInRange{Color: []string{"#f6efa6", "#d88273", "#bf444c"}},
		}),
	)
	hm.AddSeries("histogram", data)
	return hm
}

// attainmentCurve plots the fraction of attained (run, target) pairs at each
// budget edge.
func attainmentCurve(r *store.Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Attainment curve"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "evaluations"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "attained", Min: 0, Max: 1}),
	)

	data := make([]opts.LineData, len(r.ECDF))
	for i, v := range r.ECDF {
		data[i] = opts.LineData{Value: v}
	}
	line.SetXAxis(labels(r.BudgetEdges)).
		AddSeries("ECDF", data).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Step: "end"}))
	return line
}

// volumes compares the normalized histogram and exact volumes of every
// instance. The aggregate entry comes last.
func volumes(r *store.Result) *charts.Bar {
	names := make([]string, 0, len(r.Stats))
	eah := make([]opts.BarData, 0, len(r.Stats))
	eaf := make([]opts.BarData, 0, len(r.Stats))
	for _, s := range r.Stats {
		name := "all"
		if s.ProblemID != 0 {
			name = fmt.Sprintf("f%d i%d d%d", s.ProblemID, s.Instance, s.Dimension)
		}
		names = append(names, name)
		eah = append(eah, opts.BarData{Value: s.EAHVolume})
		eaf = append(eaf, opts.BarData{Value: s.EAFVolume})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Attainment volumes"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "normalized", Min: 0, Max: 1}),
	)
	bar.SetXAxis(names).
		AddSeries("histogram", eah).
		AddSeries("exact", eaf)
	return bar
}
