package metrics

import (
	coremetrics "github.com/haocluo92/well-scheduler/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink exposes the latest run summary and per-resource utilization as
// Prometheus metrics.
type PromSink struct {
	makespan  prometheus.Gauge
	events    prometheus.Gauge
	skips     prometheus.Gauge
	conflicts prometheus.Gauge
	util      *prometheus.GaugeVec
	busy      *prometheus.GaugeVec
}

// NewPromSink registers the run metrics on the default Prometheus registerer.
// The Prometheus server should be started separately.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	makespan := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_makespan_days",
		Help: "Makespan of the latest scheduling run in days",
	})
	events := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_last_run_events",
		Help: "Assignments placed by the latest scheduling run",
	})
	skips := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_last_run_skips",
		Help: "Batch phases left unscheduled by the latest scheduling run",
	})
	conflicts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_last_run_conflicts",
		Help: "Simops conflicts reported by the latest scheduling run",
	})
	util := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "resource_utilization_ratio",
		Help: "Share of the latest run makespan each resource spent booked",
	}, []string{"resource", "kind"})
	busy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "resource_busy_days",
		Help: "Days each resource spent booked in the latest run",
	}, []string{"resource", "kind"})

	if err := reg.Register(makespan); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			makespan = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(skips); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			skips = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(conflicts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			conflicts = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(util); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			util = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(busy); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			busy = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{makespan: makespan, events: events, skips: skips, conflicts: conflicts, util: util, busy: busy}, nil
}

// RecordRun updates the latest-run gauges.
func (s *PromSink) RecordRun(rec coremetrics.RunRecord) error {
	s.makespan.Set(float64(rec.MakespanDays))
	s.events.Set(float64(rec.Events))
	s.skips.Set(float64(rec.Skips))
	s.conflicts.Set(float64(rec.Conflicts))
	return nil
}

// RecordUtilization sets the per-resource gauges.
func (s *PromSink) RecordUtilization(recs []coremetrics.UtilizationRecord) error {
	for _, r := range recs {
		s.util.WithLabelValues(r.Resource, r.Kind).Set(r.Utilization)
		s.busy.WithLabelValues(r.Resource, r.Kind).Set(float64(r.BusyDays))
	}
	return nil
}
