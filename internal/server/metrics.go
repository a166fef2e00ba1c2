package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics are registered per job manager so that several servers can live
// in one process.
type metrics struct {
	registry *prometheus.Registry

	// jobs counts state transitions. Labels: state
	jobs *prometheus.CounterVec

	// running is the number of experiments currently executing.
	running prometheus.Gauge

	// runs and evaluations count finished optimizer runs and their
	// evaluations. Labels: family
	runs        *prometheus.CounterVec
	evaluations *prometheus.CounterVec

	duration prometheus.Histogram
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		jobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iohbench",
			Subsystem: "jobs",
			Name:      "transitions_total",
			Help:      "Job state transitions by target state",
		}, []string{"state"}),
		running: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "iohbench",
			Subsystem: "jobs",
			Name:      "running",
			Help:      "Experiments currently executing",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iohbench",
			Subsystem: "experiment",
			Name:      "runs_total",
			Help:      "Finished optimizer runs",
		}, []string{"family"}),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iohbench",
			Subsystem: "experiment",
			Name:      "evaluations_total",
			Help:      "Objective evaluations of finished runs",
		}, []string{"family"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "iohbench",
			Subsystem: "jobs",
			Name:      "duration_seconds",
			Help:      "Wall-clock time of completed experiments",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
