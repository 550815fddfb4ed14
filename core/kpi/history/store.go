package history

import "time"

// Store persists per-resource utilization records.
type Store interface {
	Add(Record) error
	Query(resource string, start, end time.Time) ([]Record, error)
}

// Helper to align time to start of day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
