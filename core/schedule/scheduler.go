package schedule

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haocluo92/well-scheduler/core/events"
	"github.com/haocluo92/well-scheduler/core/logger"
	"github.com/haocluo92/well-scheduler/core/model"
	"github.com/haocluo92/well-scheduler/core/simops"
	"github.com/haocluo92/well-scheduler/internal/eventbus"
)

// turnaroundDays is the idle gap a resource incurs after every assignment
// before it is offered again.
const turnaroundDays = 1

// Scheduler runs the two-phase greedy assignment over well batches and
// resource pools. Phase order is fixed: drill first, then frac. Both phases
// iterate batches in CompareBatches order and pick the first feasible
// resource; there is no backtracking and no reassignment.
//
// A Scheduler instance is not safe for concurrent Schedule calls and is
// normally rebuilt per run.
type Scheduler struct {
	batches []*model.WellBatch
	rigs    *Pool
	crews   *Pool

	constraints Constraints
	analyzer    *simops.Analyzer

	logger logger.Logger
	bus    eventbus.EventBus

	mu     sync.Mutex
	hasRun bool
	log    []model.ScheduleEvent
	last   *Result
}

// New assembles a scheduler over the given batches and kind-segregated
// pools. The input batch order is the final tie-break for equal batches.
func New(batches []*model.WellBatch, rigs, crews *Pool, log logger.Logger) (*Scheduler, error) {
	if rigs == nil || crews == nil {
		return nil, fmt.Errorf("both resource pools are required")
	}
	if rigs.Kind() != model.KindRig {
		return nil, fmt.Errorf("drill pool has kind %s", rigs.Kind())
	}
	if crews.Kind() != model.KindFracCrew {
		return nil, fmt.Errorf("frac pool has kind %s", crews.Kind())
	}
	return &Scheduler{
		batches:     batches,
		rigs:        rigs,
		crews:       crews,
		constraints: Constraints{FracLagDays: -1},
		logger:      log,
	}, nil
}

// SetFracLag configures the mandatory delay between drill end and frac start.
func (s *Scheduler) SetFracLag(days int) error {
	if days < 0 {
		return fmt.Errorf("frac lag must be non-negative, got %d", days)
	}
	s.constraints.FracLagDays = days
	return nil
}

// SetPlanningHorizon bounds all assignments to [start, end].
func (s *Scheduler) SetPlanningHorizon(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("horizon end %s must follow start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	s.constraints.Horizon = &Horizon{Start: start, End: end}
	return nil
}

// EnableSimops turns on proximity analysis after each run. A non-positive
// threshold selects the analyzer default.
func (s *Scheduler) EnableSimops(thresholdMeters float64) {
	s.analyzer = simops.NewAnalyzer(thresholdMeters)
}

// AttachBus wires an event bus for observational events. Publishing never
// blocks the run.
func (s *Scheduler) AttachBus(bus eventbus.EventBus) {
	s.bus = bus
}

// Schedule executes one full run: the drill phase over all batches, then the
// frac phase, then the optional simops analysis. Batches that fit nowhere are
// skipped and reported in the result; configuration and invariant violations
// abort the run with an error.
func (s *Scheduler) Schedule() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := &Result{RunID: uuid.NewString(), Started: time.Now()}

	order := slices.Clone(s.batches)
	slices.SortStableFunc(order, CompareBatches)
	for _, b := range order {
		if err := s.assign(run, b, model.PhaseDrill, s.rigs); err != nil {
			return nil, err
		}
	}

	slices.SortStableFunc(order, CompareBatches)
	for _, b := range order {
		if !b.Drilled {
			s.skip(run, b, model.PhaseFrac, ReasonNotDrilled)
			continue
		}
		if err := s.assign(run, b, model.PhaseFrac, s.crews); err != nil {
			return nil, err
		}
	}

	if s.analyzer != nil {
		run.Conflicts = s.analyzer.Pairs(s.batches)
		simopsConflicts.Add(float64(len(run.Conflicts)))
		for _, c := range run.Conflicts {
			s.publish(events.SimopsConflictEvent{
				RunID:          run.RunID,
				BatchA:         c.BatchA,
				BatchB:         c.BatchB,
				WellA:          c.WellA,
				WellB:          c.WellB,
				DistanceMeters: c.DistanceMeters,
			})
		}
	}

	run.Finished = time.Now()
	s.hasRun = true
	s.log = append(s.log, run.Events...)
	s.last = run

	scheduleRuns.Inc()
	runDuration.Observe(run.Finished.Sub(run.Started).Seconds())
	s.publish(events.RunCompletedEvent{
		RunID:     run.RunID,
		Events:    len(run.Events),
		Skips:     len(run.Skips),
		Conflicts: len(run.Conflicts),
		Duration:  run.Finished.Sub(run.Started),
	})
	s.logger.Infof("run %s complete: %d events, %d skips, %d conflicts",
		run.RunID, len(run.Events), len(run.Skips), len(run.Conflicts))
	return run, nil
}

// assign places one batch in one phase using first-fit over the pool.
func (s *Scheduler) assign(run *Result, b *model.WellBatch, p model.Phase, pool *Pool) error {
	r, w, ok, err := pool.PeekBestFeasible(func(r *model.Resource) (Window, bool, error) {
		return FeasibleWindow(r, b, p, s.constraints)
	})
	if err != nil {
		return err
	}
	if !ok {
		s.skip(run, b, p, ReasonNoFeasibleResource)
		return nil
	}

	switch p {
	case model.PhaseDrill:
		b.SetDrillStatus(w.Start)
	case model.PhaseFrac:
		if err := b.SetFracStatus(w.Start); err != nil {
			return err
		}
	}
	if err := pool.Commit(r, model.AddDays(w.End, turnaroundDays)); err != nil {
		return err
	}

	ev := model.ScheduleEvent{
		ID:           uuid.NewString(),
		Resource:     r,
		Batch:        b,
		Phase:        p,
		Start:        w.Start,
		End:          w.End,
		DurationDays: b.DurationDays(p),
	}
	run.Events = append(run.Events, ev)
	batchesAssigned.WithLabelValues(p.String()).Inc()
	s.logger.Debugw("assignment", map[string]any{
		"resource": r.Name,
		"batch":    b.Name,
		"phase":    p.String(),
		"start":    w.Start.Format("2006-01-02"),
		"end":      w.End.Format("2006-01-02"),
	})
	s.publish(events.AssignmentEvent{
		RunID:    run.RunID,
		Resource: r.Name,
		Batch:    b.Name,
		Phase:    p,
		Start:    w.Start,
		End:      w.End,
		Days:     ev.DurationDays,
	})
	return nil
}

func (s *Scheduler) skip(run *Result, b *model.WellBatch, p model.Phase, reason string) {
	run.Skips = append(run.Skips, Skip{Batch: b.Name, Phase: p, Reason: reason})
	batchesSkipped.WithLabelValues(p.String()).Inc()
	s.logger.Warnf("batch %s skipped in %s phase: %s", b.Name, p, reason)
	s.publish(events.BatchSkippedEvent{RunID: run.RunID, Batch: b.Name, Phase: p, Reason: reason})
}

func (s *Scheduler) publish(e eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// Events returns the accumulated event log. It fails only when Schedule was
// never run; a run that placed nothing yields an empty, non-nil slice.
func (s *Scheduler) Events() ([]model.ScheduleEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasRun {
		return nil, ErrNotScheduled
	}
	out := make([]model.ScheduleEvent, len(s.log))
	copy(out, s.log)
	return out, nil
}

// LastResult returns the result of the most recent run, or ErrNotScheduled
// before the first run.
func (s *Scheduler) LastResult() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasRun {
		return nil, ErrNotScheduled
	}
	return s.last, nil
}
