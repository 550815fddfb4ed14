package events

import "github.com/haocluo92/well-scheduler/core/model"

// BatchSkippedEvent is published when a batch cannot be placed in one phase.
// Reason can be "no_feasible_resource" or "not_drilled".
type BatchSkippedEvent struct {
	RunID  string
	Batch  string
	Phase  model.Phase
	Reason string
}
