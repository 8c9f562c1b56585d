// Package metrics exposes prometheus instrumentation for the scoring core.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	scoringRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echo_scoring_runs_total",
			Help: "Total number of echo score computations",
		},
		[]string{"trigger", "outcome"},
	)
	scoringDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "echo_scoring_duration_seconds",
			Help:    "Duration of a single user's score computation",
			Buckets: prometheus.DefBuckets,
		},
	)
	selectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daily_selections_total",
			Help: "Total number of daily challenge selections",
		},
		[]string{"reason"},
	)
	selectionFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "daily_selection_repeat_fallbacks_total",
			Help: "Selections that had to relax the no-repeat constraint",
		},
	)
)

// Register registers the scoring metrics. Call this from main.go.
func Register() {
	prometheus.MustRegister(scoringRunsTotal)
	prometheus.MustRegister(scoringDuration)
	prometheus.MustRegister(selectionsTotal)
	prometheus.MustRegister(selectionFallbacks)
}

// ObserveScoringRun records one score computation with its trigger
// ("on_demand" or "batch") and outcome ("ok" or "error").
func ObserveScoringRun(trigger string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	scoringRunsTotal.WithLabelValues(trigger, outcome).Inc()
	scoringDuration.Observe(elapsed.Seconds())
}

// ObserveSelection records one daily selection by reason.
func ObserveSelection(reason string) {
	selectionsTotal.WithLabelValues(reason).Inc()
}

// ObserveRepeatFallback records a selection that relaxed the no-repeat
// constraint after the candidate pool came up empty.
func ObserveRepeatFallback() {
	selectionFallbacks.Inc()
}
