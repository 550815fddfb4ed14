package model

import (
	"fmt"
	"time"
)

// ResourceKind splits resources by the phase they can serve.
type ResourceKind int

const (
	KindRig ResourceKind = iota
	KindFracCrew
)

// String returns a human-readable representation of the resource kind.
func (k ResourceKind) String() string {
	switch k {
	case KindRig:
		return "rig"
	case KindFracCrew:
		return "frac_crew"
	default:
		return "unknown"
	}
}

// Serves reports whether the kind can execute the given phase.
func (k ResourceKind) Serves(p Phase) bool {
	switch p {
	case PhaseDrill:
		return k == KindRig
	case PhaseFrac:
		return k == KindFracCrew
	default:
		return false
	}
}

// Resource is a capacity-providing actor. AvailableFrom is the next-available
// cursor; EndDate is an optional hard capacity end (zero = unbounded). A
// resource serves at most one batch at a time; the cursor advance models
// exclusive, non-preemptive occupancy.
type Resource struct {
	Name          string
	Kind          ResourceKind
	AvailableFrom time.Time
	EndDate       time.Time
}

// NewRig returns a drilling rig available from the given date.
func NewRig(name string, availableFrom time.Time) *Resource {
	return &Resource{Name: name, Kind: KindRig, AvailableFrom: availableFrom}
}

// NewFracCrew returns a fracturing crew available from the given date.
func NewFracCrew(name string, availableFrom time.Time) *Resource {
	return &Resource{Name: name, Kind: KindFracCrew, AvailableFrom: availableFrom}
}

// SetAvailability replaces the availability window. A zero end leaves the
// resource unbounded.
func (r *Resource) SetAvailability(from, end time.Time) {
	r.AvailableFrom = from
	r.EndDate = end
}

// MarkBusyUntil advances the availability cursor. The assignment loop never
// legally moves a cursor backward, so a regression is reported as a defect
// instead of being applied.
func (r *Resource) MarkBusyUntil(t time.Time) error {
	if t.Before(r.AvailableFrom) {
		return fmt.Errorf("resource %s: busy-until %s precedes cursor %s: %w",
			r.Name, t.Format("2006-01-02"), r.AvailableFrom.Format("2006-01-02"), ErrAvailabilityRegression)
	}
	r.AvailableFrom = t
	return nil
}

// Validate checks that the resource configuration is sound.
func (r *Resource) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("resource name must not be empty")
	}
	if r.AvailableFrom.IsZero() {
		return fmt.Errorf("resource %s: availability start must be set", r.Name)
	}
	if !r.EndDate.IsZero() && r.EndDate.Before(r.AvailableFrom) {
		return fmt.Errorf("resource %s: end date precedes availability start", r.Name)
	}
	return nil
}
