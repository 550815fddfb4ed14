package schedule

import (
	"time"

	"github.com/haocluo92/well-scheduler/core/model"
)

// Window is a candidate assignment interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Horizon bounds the planning window. An assignment ending exactly on End is
// still feasible.
type Horizon struct {
	Start time.Time
	End   time.Time
}

// Constraints carries the run-level knobs the feasibility test consumes.
// FracLagDays below zero means the lag was never configured.
type Constraints struct {
	FracLagDays int
	Horizon     *Horizon
}

// FeasibleWindow computes the candidate window for executing batch b on
// resource r in phase p. The start is the resource cursor pushed forward by
// the phase's earliest-start rule: the batch allow-to-drill date for drilling,
// drill end plus the frac lag for fracturing. The window is feasible when it
// fits before the resource end date, the batch due date and the horizon end,
// whichever are set.
//
// A frac check without a configured lag fails with ErrFracLagNotSet.
func FeasibleWindow(r *model.Resource, b *model.WellBatch, p model.Phase, c Constraints) (Window, bool, error) {
	start := r.AvailableFrom
	switch p {
	case model.PhaseDrill:
		if !b.AllowToDrill.IsZero() && b.AllowToDrill.After(start) {
			start = b.AllowToDrill
		}
	case model.PhaseFrac:
		if c.FracLagDays < 0 {
			return Window{}, false, ErrFracLagNotSet
		}
		earliest := model.AddDays(b.DrillEnd, c.FracLagDays)
		if earliest.After(start) {
			start = earliest
		}
	}
	if c.Horizon != nil && c.Horizon.Start.After(start) {
		start = c.Horizon.Start
	}
	end := model.AddDays(start, b.DurationDays(p))
	if c.Horizon != nil && !c.Horizon.End.IsZero() && end.After(c.Horizon.End) {
		return Window{}, false, nil
	}
	if !r.EndDate.IsZero() && end.After(r.EndDate) {
		return Window{}, false, nil
	}
	if !b.DueDate.IsZero() && end.After(b.DueDate) {
		return Window{}, false, nil
	}
	return Window{Start: start, End: end}, true, nil
}
