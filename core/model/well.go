package model

import (
	"fmt"
	"time"
)

// Well is an immutable input record describing a single well. Optional dates
// use the zero time.Time as "unset"; optional numeric attributes use nil
// pointers so that zero remains a valid value.
type Well struct {
	Name      string
	DrillDays int // drilling duration in whole days
	FracDays  int // fracturing duration in whole days

	AllowToDrill time.Time // earliest drill start, zero = unconstrained
	AllowToFrac  time.Time // earliest frac start, zero = unconstrained
	DueDate      time.Time // latest acceptable completion, zero = none

	Lat *float64 // decimal degrees, nil = unknown
	Lon *float64 // decimal degrees, nil = unknown

	Priority *int // lower is more urgent, nil = unset
}

// Coordinates returns the well position. ok is false when either coordinate
// is missing; callers must not fall back to zero values.
func (w Well) Coordinates() (lat, lon float64, ok bool) {
	if w.Lat == nil || w.Lon == nil {
		return 0, 0, false
	}
	return *w.Lat, *w.Lon, true
}

// Validate checks that the well configuration is sound.
func (w Well) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("well name must not be empty")
	}
	if w.DrillDays < 0 {
		return fmt.Errorf("well %s: drill duration must be non-negative", w.Name)
	}
	if w.FracDays < 0 {
		return fmt.Errorf("well %s: frac duration must be non-negative", w.Name)
	}
	return nil
}

// AddDays advances t by the given number of whole days. All schedule
// arithmetic is day-granular.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}
