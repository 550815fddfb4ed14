package schedule

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	scheduleRuns    prometheus.Counter
	batchesAssigned *prometheus.CounterVec
	batchesSkipped  *prometheus.CounterVec
	simopsConflicts prometheus.Counter
	runDuration     prometheus.Histogram
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, *prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter, prometheus.Histogram) {
	runs := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schedule_runs_total",
			Help: "Number of completed scheduling runs",
		},
	)
	assigned := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batches_assigned_total",
			Help: "Number of batch assignments per phase",
		},
		[]string{"phase"},
	)
	skipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batches_skipped_total",
			Help: "Number of batches left unscheduled per phase",
		},
		[]string{"phase"},
	)
	conflicts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "simops_conflicts_total",
			Help: "Number of simultaneous-operations conflicts detected",
		},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "schedule_run_duration_seconds",
			Help:    "Wall time of scheduling runs",
			Buckets: prometheus.DefBuckets,
		},
	)
	return runs, assigned, skipped, conflicts, dur
}

func init() {
	scheduleRuns, batchesAssigned, batchesSkipped, simopsConflicts, runDuration = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers scheduling metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(scheduleRuns, batchesAssigned, batchesSkipped, simopsConflicts, runDuration)
}

// ResetMetrics reinitializes metric collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	scheduleRuns, batchesAssigned, batchesSkipped, simopsConflicts, runDuration = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
