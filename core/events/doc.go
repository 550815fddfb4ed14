// Package events defines the scheduling events emitted on the event bus.
//
// Available event types:
//   - AssignmentEvent: a resource committed to a batch phase
//   - BatchSkippedEvent: a batch left unscheduled in one phase
//   - SimopsConflictEvent: a proximity conflict between two batches
//   - RunCompletedEvent: summary of a finished scheduling run
package events
