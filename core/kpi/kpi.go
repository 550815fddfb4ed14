// Package kpi computes summary statistics over a scheduling run.
package kpi

import (
	"gonum.org/v1/gonum/stat"

	"github.com/haocluo92/well-scheduler/core/model"
	"github.com/haocluo92/well-scheduler/core/schedule"
)

// ResourceUtilization summarizes one resource's booked share of the run span.
type ResourceUtilization struct {
	Resource    string  `json:"resource"`
	Kind        string  `json:"kind"`
	BusyDays    int     `json:"busy_days"`
	Utilization float64 `json:"utilization"`
}

// Report aggregates run statistics.
type Report struct {
	RunID           string                `json:"run_id"`
	MakespanDays    int                   `json:"makespan_days"`
	EventCount      int                   `json:"event_count"`
	SkipCount       int                   `json:"skip_count"`
	ConflictCount   int                   `json:"conflict_count"`
	BatchesDrilled  int                   `json:"batches_drilled"`
	BatchesFraced   int                   `json:"batches_fraced"`
	MeanCycleDays   float64               `json:"mean_cycle_days"`
	StdDevCycleDays float64               `json:"stddev_cycle_days"`
	MeanUtilization float64               `json:"mean_utilization"`
	Utilization     []ResourceUtilization `json:"utilization"`
}

// FromResult computes a Report from a run result. Cycle time is measured per
// completed batch from drill start to frac end.
func FromResult(res *schedule.Result) Report {
	rep := Report{
		RunID:         res.RunID,
		MakespanDays:  int(res.Makespan().Hours() / 24),
		EventCount:    len(res.Events),
		SkipCount:     len(res.Skips),
		ConflictCount: len(res.Conflicts),
	}

	type busy struct {
		kind string
		days int
	}
	resources := make(map[string]*busy)
	var resourceOrder []string
	batches := make(map[string]*model.WellBatch)
	var batchOrder []string
	for _, ev := range res.Events {
		b, ok := resources[ev.Resource.Name]
		if !ok {
			b = &busy{kind: ev.Resource.Kind.String()}
			resources[ev.Resource.Name] = b
			resourceOrder = append(resourceOrder, ev.Resource.Name)
		}
		b.days += ev.DurationDays
		if _, ok := batches[ev.Batch.Name]; !ok {
			batches[ev.Batch.Name] = ev.Batch
			batchOrder = append(batchOrder, ev.Batch.Name)
		}
	}

	var cycles []float64
	for _, name := range batchOrder {
		b := batches[name]
		if b.Drilled {
			rep.BatchesDrilled++
		}
		if b.Fraced {
			rep.BatchesFraced++
			cycles = append(cycles, b.FracEnd.Sub(b.DrillStart).Hours()/24)
		}
	}

	var utils []float64
	for _, name := range resourceOrder {
		b := resources[name]
		u := ResourceUtilization{Resource: name, Kind: b.kind, BusyDays: b.days}
		if rep.MakespanDays > 0 {
			u.Utilization = float64(b.days) / float64(rep.MakespanDays)
		}
		rep.Utilization = append(rep.Utilization, u)
		utils = append(utils, u.Utilization)
	}

	if len(utils) > 0 {
		rep.MeanUtilization = stat.Mean(utils, nil)
	}
	if len(cycles) > 0 {
		rep.MeanCycleDays = stat.Mean(cycles, nil)
	}
	if len(cycles) > 1 {
		rep.StdDevCycleDays = stat.StdDev(cycles, nil)
	}
	return rep
}
