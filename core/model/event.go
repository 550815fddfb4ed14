package model

import "time"

// ScheduleEvent is an immutable record of one resource-to-batch assignment.
// Resource and Batch are non-owning references; the event log outlives
// neither.
type ScheduleEvent struct {
	ID           string
	Resource     *Resource
	Batch        *WellBatch
	Phase        Phase
	Start        time.Time
	End          time.Time
	DurationDays int
}
