package schedule

import (
	"errors"
	"testing"

	"github.com/haocluo92/well-scheduler/core/model"
)

func TestFeasibleWindowDrill(t *testing.T) {
	r := model.NewRig("rig-1", day(2020, 1, 1))
	b := model.NewWellBatch("pad-a", []model.Well{
		{Name: "w1", DrillDays: 10, FracDays: 5, AllowToDrill: day(2020, 2, 1)},
	})
	w, ok, err := FeasibleWindow(r, b, model.PhaseDrill, Constraints{FracLagDays: -1})
	if err != nil || !ok {
		t.Fatalf("expected feasible, ok=%v err=%v", ok, err)
	}
	if !w.Start.Equal(day(2020, 2, 1)) {
		t.Fatalf("allow-to-drill must push the start, got %v", w.Start)
	}
	if !w.End.Equal(day(2020, 2, 11)) {
		t.Fatalf("expected end 2020-02-11 got %v", w.End)
	}
}

func TestFeasibleWindowResourceEndBound(t *testing.T) {
	r := model.NewRig("rig-1", day(2020, 1, 1))
	r.EndDate = day(2020, 1, 5)
	b := model.NewWellBatch("pad-a", []model.Well{{Name: "w1", DrillDays: 10}})
	_, ok, err := FeasibleWindow(r, b, model.PhaseDrill, Constraints{FracLagDays: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("window past the resource end must be infeasible")
	}
}

func TestFeasibleWindowDueDateBound(t *testing.T) {
	r := model.NewRig("rig-1", day(2020, 1, 1))
	b := model.NewWellBatch("pad-a", []model.Well{
		{Name: "w1", DrillDays: 10, DueDate: day(2020, 1, 5)},
	})
	_, ok, err := FeasibleWindow(r, b, model.PhaseDrill, Constraints{FracLagDays: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("window past the due date must be infeasible")
	}
}

func TestFeasibleWindowDueDateExactFit(t *testing.T) {
	r := model.NewRig("rig-1", day(2020, 1, 1))
	b := model.NewWellBatch("pad-a", []model.Well{
		{Name: "w1", DrillDays: 10, DueDate: day(2020, 1, 11)},
	})
	_, ok, err := FeasibleWindow(r, b, model.PhaseDrill, Constraints{FracLagDays: -1})
	if err != nil || !ok {
		t.Fatalf("ending exactly on the due date must be feasible, ok=%v err=%v", ok, err)
	}
}

func TestFeasibleWindowFracLag(t *testing.T) {
	crew := model.NewFracCrew("crew-1", day(2020, 1, 1))
	b := model.NewWellBatch("pad-a", []model.Well{{Name: "w1", DrillDays: 10, FracDays: 5}})
	b.SetDrillStatus(day(2020, 1, 1))
	w, ok, err := FeasibleWindow(crew, b, model.PhaseFrac, Constraints{FracLagDays: 10})
	if err != nil || !ok {
		t.Fatalf("expected feasible, ok=%v err=%v", ok, err)
	}
	// drill ends 2020-01-11, plus 10 days of lag
	if !w.Start.Equal(day(2020, 1, 21)) {
		t.Fatalf("expected frac start 2020-01-21 got %v", w.Start)
	}
}

func TestFeasibleWindowFracLagNotSet(t *testing.T) {
	crew := model.NewFracCrew("crew-1", day(2020, 1, 1))
	b := model.NewWellBatch("pad-a", []model.Well{{Name: "w1", DrillDays: 10, FracDays: 5}})
	b.SetDrillStatus(day(2020, 1, 1))
	_, _, err := FeasibleWindow(crew, b, model.PhaseFrac, Constraints{FracLagDays: -1})
	if !errors.Is(err, ErrFracLagNotSet) {
		t.Fatalf("expected ErrFracLagNotSet got %v", err)
	}
}

func TestFeasibleWindowHorizon(t *testing.T) {
	r := model.NewRig("rig-1", day(2020, 1, 1))
	b := model.NewWellBatch("pad-a", []model.Well{{Name: "w1", DrillDays: 10}})
	h := &Horizon{Start: day(2020, 2, 1), End: day(2020, 3, 1)}
	w, ok, err := FeasibleWindow(r, b, model.PhaseDrill, Constraints{FracLagDays: -1, Horizon: h})
	if err != nil || !ok {
		t.Fatalf("expected feasible, ok=%v err=%v", ok, err)
	}
	if !w.Start.Equal(day(2020, 2, 1)) {
		t.Fatalf("horizon start must clamp the window, got %v", w.Start)
	}

	tight := &Horizon{Start: day(2020, 1, 1), End: day(2020, 1, 5)}
	_, ok, err = FeasibleWindow(r, b, model.PhaseDrill, Constraints{FracLagDays: -1, Horizon: tight})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("window past the horizon end must be infeasible")
	}
}
