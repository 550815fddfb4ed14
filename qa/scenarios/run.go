package scenarios

import (
	"testing"
	"time"

	"github.com/haocluo92/well-scheduler/core/model"
	"github.com/haocluo92/well-scheduler/core/schedule"
	"github.com/haocluo92/well-scheduler/infra/logger"
)

const dayLayout = "2006-01-02"

func RunScenario(t *testing.T, sc *Scenario) {
	plan, err := sc.Plan.Build()
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	rigs, err := schedule.NewPool(model.KindRig, plan.Rigs...)
	if err != nil {
		t.Fatalf("rig pool: %v", err)
	}
	crews, err := schedule.NewPool(model.KindFracCrew, plan.Crews...)
	if err != nil {
		t.Fatalf("crew pool: %v", err)
	}
	sched, err := schedule.New(plan.Batches, rigs, crews, logger.NopLogger{})
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}
	if err := sched.SetFracLag(sc.FracLagDays); err != nil {
		t.Fatalf("frac lag: %v", err)
	}
	if sc.HorizonStart != "" || sc.HorizonEnd != "" {
		start, end := parseDay(t, sc.HorizonStart), parseDay(t, sc.HorizonEnd)
		if err := sched.SetPlanningHorizon(start, end); err != nil {
			t.Fatalf("horizon: %v", err)
		}
	}
	if sc.SimopsThresholdMeters > 0 {
		sched.EnableSimops(sc.SimopsThresholdMeters)
	}

	res, err := sched.Schedule()
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if len(res.Events) != sc.Expected.Events {
		t.Errorf("scenario %s expected %d events, got %d", sc.Name, sc.Expected.Events, len(res.Events))
	}
	if len(res.Skips) != sc.Expected.Skips {
		t.Errorf("scenario %s expected %d skips, got %d", sc.Name, sc.Expected.Skips, len(res.Skips))
	}
	if len(res.Conflicts) != sc.Expected.Conflicts {
		t.Errorf("scenario %s expected %d conflicts, got %d", sc.Name, sc.Expected.Conflicts, len(res.Conflicts))
	}
	if sc.Expected.MakespanDays != nil {
		got := int(res.Makespan().Hours() / 24)
		if got != *sc.Expected.MakespanDays {
			t.Errorf("scenario %s expected makespan %d days, got %d", sc.Name, *sc.Expected.MakespanDays, got)
		}
	}
	for _, want := range sc.Expected.Assignments {
		if !matchAssignment(t, res.Events, want) {
			t.Errorf("scenario %s missing assignment %s/%s on %s", sc.Name, want.Batch, want.Phase, want.Resource)
		}
	}
}

func matchAssignment(t *testing.T, events []model.ScheduleEvent, want ExpectedAssignment) bool {
	for _, ev := range events {
		if ev.Batch.Name != want.Batch || ev.Phase.String() != want.Phase {
			continue
		}
		if ev.Resource.Name != want.Resource {
			return false
		}
		if want.Start != "" && !ev.Start.Equal(parseDay(t, want.Start)) {
			return false
		}
		if want.End != "" && !ev.End.Equal(parseDay(t, want.End)) {
			return false
		}
		return true
	}
	return false
}

func parseDay(t *testing.T, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	d, err := time.Parse(dayLayout, s)
	if err != nil {
		t.Fatalf("parse day %q: %v", s, err)
	}
	return d
}
