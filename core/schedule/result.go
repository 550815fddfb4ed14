package schedule

import (
	"time"

	"github.com/haocluo92/well-scheduler/core/model"
	"github.com/haocluo92/well-scheduler/core/simops"
)

// Skip reasons attached to batches left unscheduled in one phase.
const (
	ReasonNoFeasibleResource = "no_feasible_resource"
	ReasonNotDrilled         = "not_drilled"
)

// Skip records a batch that could not be placed in one phase. Skips are an
// expected outcome, not errors.
type Skip struct {
	Batch  string
	Phase  model.Phase
	Reason string
}

// Result aggregates the outcome of a single scheduling run.
type Result struct {
	RunID     string
	Started   time.Time
	Finished  time.Time
	Events    []model.ScheduleEvent
	Skips     []Skip
	Conflicts []simops.ConflictPair
}

// Makespan returns the span from the earliest event start to the latest event
// end. It is zero when the run placed nothing.
func (r *Result) Makespan() time.Duration {
	if len(r.Events) == 0 {
		return 0
	}
	earliest := r.Events[0].Start
	latest := r.Events[0].End
	for _, ev := range r.Events[1:] {
		if ev.Start.Before(earliest) {
			earliest = ev.Start
		}
		if ev.End.After(latest) {
			latest = ev.End
		}
	}
	return latest.Sub(earliest)
}
