package history

import "time"

// Record aggregates booked days for a resource on a given day.
type Record struct {
	Resource string
	Kind     string
	Date     time.Time
	BusyDays int
	Events   int
}

// UtilizationOf returns the share of a span the resource was booked for.
func (r Record) UtilizationOf(spanDays int) float64 {
	if spanDays <= 0 {
		return 0
	}
	return float64(r.BusyDays) / float64(spanDays)
}
