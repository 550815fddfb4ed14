package events

import (
	"time"

	"github.com/haocluo92/well-scheduler/core/model"
)

// AssignmentEvent is published when a resource is committed to a batch phase.
type AssignmentEvent struct {
	RunID    string
	Resource string
	Batch    string
	Phase    model.Phase
	Start    time.Time
	End      time.Time
	Days     int
}
