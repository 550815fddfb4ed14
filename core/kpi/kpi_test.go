package kpi

import (
	"math"
	"testing"
	"time"

	"github.com/haocluo92/well-scheduler/core/model"
	"github.com/haocluo92/well-scheduler/core/schedule"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFromResult(t *testing.T) {
	rig := model.NewRig("rig-1", day(2020, 1, 1))
	crew := model.NewFracCrew("crew-1", day(2020, 1, 1))

	b1 := model.NewWellBatch("pad-1", []model.Well{{Name: "w1", DrillDays: 10, FracDays: 5}})
	b1.SetDrillStatus(day(2020, 1, 1))
	if err := b1.SetFracStatus(day(2020, 1, 16)); err != nil {
		t.Fatalf("frac status: %v", err)
	}
	// cycle: 2020-01-01 to 2020-01-21 = 20 days

	b2 := model.NewWellBatch("pad-2", []model.Well{{Name: "w2", DrillDays: 20, FracDays: 5}})
	b2.SetDrillStatus(day(2020, 1, 12))
	if err := b2.SetFracStatus(day(2020, 2, 6)); err != nil {
		t.Fatalf("frac status: %v", err)
	}
	// cycle: 2020-01-12 to 2020-02-11 = 30 days

	res := &schedule.Result{
		RunID: "run-1",
		Events: []model.ScheduleEvent{
			{ID: "e1", Resource: rig, Batch: b1, Phase: model.PhaseDrill, Start: b1.DrillStart, End: b1.DrillEnd, DurationDays: 10},
			{ID: "e2", Resource: rig, Batch: b2, Phase: model.PhaseDrill, Start: b2.DrillStart, End: b2.DrillEnd, DurationDays: 20},
			{ID: "e3", Resource: crew, Batch: b1, Phase: model.PhaseFrac, Start: b1.FracStart, End: b1.FracEnd, DurationDays: 5},
			{ID: "e4", Resource: crew, Batch: b2, Phase: model.PhaseFrac, Start: b2.FracStart, End: b2.FracEnd, DurationDays: 5},
		},
	}

	rep := FromResult(res)
	if rep.RunID != "run-1" || rep.EventCount != 4 {
		t.Fatalf("unexpected header %+v", rep)
	}
	if rep.BatchesDrilled != 2 || rep.BatchesFraced != 2 {
		t.Fatalf("expected 2 drilled and 2 fraced, got %d/%d", rep.BatchesDrilled, rep.BatchesFraced)
	}
	// makespan: 2020-01-01 to 2020-02-11 = 41 days
	if rep.MakespanDays != 41 {
		t.Fatalf("expected makespan 41 got %d", rep.MakespanDays)
	}
	if math.Abs(rep.MeanCycleDays-25) > 1e-9 {
		t.Fatalf("expected mean cycle 25 got %v", rep.MeanCycleDays)
	}
	want := math.Sqrt(50) // sample stddev of {20, 30}
	if math.Abs(rep.StdDevCycleDays-want) > 1e-9 {
		t.Fatalf("expected stddev %v got %v", want, rep.StdDevCycleDays)
	}
	if len(rep.Utilization) != 2 {
		t.Fatalf("expected 2 resource rows got %d", len(rep.Utilization))
	}
	if rep.Utilization[0].Resource != "rig-1" || rep.Utilization[0].BusyDays != 30 {
		t.Fatalf("unexpected rig utilization %+v", rep.Utilization[0])
	}
}

func TestFromResultEmpty(t *testing.T) {
	rep := FromResult(&schedule.Result{RunID: "run-0"})
	if rep.MakespanDays != 0 || rep.EventCount != 0 || rep.MeanUtilization != 0 {
		t.Fatalf("expected zero report, got %+v", rep)
	}
}
