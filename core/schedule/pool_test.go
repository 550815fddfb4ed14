package schedule

import (
	"testing"

	"github.com/haocluo92/well-scheduler/core/model"
)

func TestNewPoolRejectsKindMismatch(t *testing.T) {
	crew := model.NewFracCrew("crew-1", day(2020, 1, 1))
	if _, err := NewPool(model.KindRig, crew); err == nil {
		t.Fatalf("expected kind mismatch error")
	}
}

func TestPoolPeekBestFeasibleOrder(t *testing.T) {
	late := model.NewRig("rig-late", day(2020, 3, 1))
	early := model.NewRig("rig-early", day(2020, 1, 1))
	p, err := NewPool(model.KindRig, late, early)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, w, ok, err := p.PeekBestFeasible(func(r *model.Resource) (Window, bool, error) {
		return Window{Start: r.AvailableFrom, End: model.AddDays(r.AvailableFrom, 5)}, true, nil
	})
	if err != nil || !ok {
		t.Fatalf("expected a feasible resource, ok=%v err=%v", ok, err)
	}
	if r.Name != "rig-early" {
		t.Fatalf("expected earliest-available rig, got %s", r.Name)
	}
	if !w.Start.Equal(day(2020, 1, 1)) {
		t.Fatalf("unexpected window start %v", w.Start)
	}
}

func TestPoolPeekSkipsInfeasible(t *testing.T) {
	a := model.NewRig("rig-a", day(2020, 1, 1))
	b := model.NewRig("rig-b", day(2020, 2, 1))
	p, _ := NewPool(model.KindRig, a, b)
	r, _, ok, err := p.PeekBestFeasible(func(r *model.Resource) (Window, bool, error) {
		if r.Name == "rig-a" {
			return Window{}, false, nil
		}
		return Window{Start: r.AvailableFrom, End: r.AvailableFrom}, true, nil
	})
	if err != nil || !ok {
		t.Fatalf("expected rig-b to be feasible, ok=%v err=%v", ok, err)
	}
	if r.Name != "rig-b" {
		t.Fatalf("expected rig-b got %s", r.Name)
	}
}

func TestPoolPeekNoneFeasible(t *testing.T) {
	p, _ := NewPool(model.KindRig, model.NewRig("rig-a", day(2020, 1, 1)))
	_, _, ok, err := p.PeekBestFeasible(func(*model.Resource) (Window, bool, error) {
		return Window{}, false, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no feasible resource")
	}
}

func TestPoolCommitSinksBusyResource(t *testing.T) {
	a := model.NewRig("rig-a", day(2020, 1, 1))
	b := model.NewRig("rig-b", day(2020, 1, 15))
	p, _ := NewPool(model.KindRig, a, b)
	if err := p.Commit(a, day(2020, 6, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rs := p.Resources()
	if rs[0].Name != "rig-b" || rs[1].Name != "rig-a" {
		t.Fatalf("busy rig must sink to the back, got %s,%s", rs[0].Name, rs[1].Name)
	}
}

func TestPoolCommitRejectsRegression(t *testing.T) {
	a := model.NewRig("rig-a", day(2020, 6, 1))
	p, _ := NewPool(model.KindRig, a)
	if err := p.Commit(a, day(2020, 1, 1)); err == nil {
		t.Fatalf("expected regression error")
	}
}
