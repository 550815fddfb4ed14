package model

import (
	"fmt"
	"time"
)

// WellBatch groups one or more wells into the atomic schedulable unit.
// Aggregates are frozen at construction; only the status fields mutate, and
// only through SetDrillStatus/SetFracStatus.
type WellBatch struct {
	Name  string
	Wells []Well

	DrillDays    int       // sum of well drill durations
	FracDays     int       // sum of well frac durations
	AllowToDrill time.Time // earliest allow-to-drill among wells, zero = unset
	DueDate      time.Time // latest due date among wells, zero = unset

	priority *int // explicit override, else min among wells, nil = unset

	Drilled    bool
	DrillStart time.Time
	DrillEnd   time.Time
	Fraced     bool
	FracStart  time.Time
	FracEnd    time.Time
}

// NewWellBatch builds a batch and freezes its aggregates: total durations,
// the earliest allow-to-drill date, the latest due date and the minimum well
// priority. Wells without a value do not participate in an aggregate.
func NewWellBatch(name string, wells []Well) *WellBatch {
	b := &WellBatch{Name: name, Wells: wells}
	for i := range wells {
		w := &wells[i]
		b.DrillDays += w.DrillDays
		b.FracDays += w.FracDays
		if !w.AllowToDrill.IsZero() && (b.AllowToDrill.IsZero() || w.AllowToDrill.Before(b.AllowToDrill)) {
			b.AllowToDrill = w.AllowToDrill
		}
		if !w.DueDate.IsZero() && w.DueDate.After(b.DueDate) {
			b.DueDate = w.DueDate
		}
		if w.Priority != nil && (b.priority == nil || *w.Priority < *b.priority) {
			p := *w.Priority
			b.priority = &p
		}
	}
	return b
}

// Validate checks that the batch is usable as a scheduling unit.
func (b *WellBatch) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("batch name must not be empty")
	}
	if len(b.Wells) == 0 {
		return fmt.Errorf("batch %s: must contain at least one well", b.Name)
	}
	for _, w := range b.Wells {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("batch %s: %w", b.Name, err)
		}
	}
	return nil
}

// Priority returns the effective batch priority. ok is false when neither an
// override nor any well priority is set.
func (b *WellBatch) Priority() (int, bool) {
	if b.priority == nil {
		return 0, false
	}
	return *b.priority, true
}

// OverridePriority replaces the derived priority with an explicit value.
func (b *WellBatch) OverridePriority(p int) {
	b.priority = &p
}

// DurationDays returns the batch duration for the given phase.
func (b *WellBatch) DurationDays(p Phase) int {
	if p == PhaseFrac {
		return b.FracDays
	}
	return b.DrillDays
}

// SetDrillStatus records drill completion. Re-invocation silently replaces
// the prior status; guarding against that is the caller's responsibility.
func (b *WellBatch) SetDrillStatus(start time.Time) {
	b.Drilled = true
	b.DrillStart = start
	b.DrillEnd = AddDays(start, b.DrillDays)
}

// SetFracStatus records frac completion. It fails if the batch was never
// drilled or if start precedes the drill end.
func (b *WellBatch) SetFracStatus(start time.Time) error {
	if !b.Drilled {
		return &PrecedenceError{Batch: b.Name}
	}
	if start.Before(b.DrillEnd) {
		return &OrderingError{Batch: b.Name, FracStart: start, DrillEnd: b.DrillEnd}
	}
	b.Fraced = true
	b.FracStart = start
	b.FracEnd = AddDays(start, b.FracDays)
	return nil
}
