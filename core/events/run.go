package events

import "time"

// RunCompletedEvent summarizes a finished scheduling run.
type RunCompletedEvent struct {
	RunID     string
	Events    int
	Skips     int
	Conflicts int
	Duration  time.Duration
}
