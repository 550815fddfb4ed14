// Package notify defines the outbound publication contract for schedule
// results. Implementations live in infra.
package notify

import (
	"time"

	"github.com/haocluo92/well-scheduler/core/schedule/runlog"
	"github.com/haocluo92/well-scheduler/core/simops"
)

// Notifier publishes scheduling outcomes to external consumers.
type Notifier interface {
	// PublishRun publishes a flattened run record and returns the message
	// identifier used for confirmation tracking.
	PublishRun(rec runlog.Record) (string, error)

	// PublishConflicts publishes simops alerts for the given run.
	PublishConflicts(runID string, pairs []simops.ConflictPair) error

	// AwaitConfirmation blocks until a consumer confirms receipt of the
	// given message or the timeout elapses.
	AwaitConfirmation(messageID string, timeout time.Duration) (bool, error)

	// Close releases the underlying connection.
	Close() error
}

// NopNotifier discards all publications.
type NopNotifier struct{}

func (NopNotifier) PublishRun(runlog.Record) (string, error)              { return "", nil }
func (NopNotifier) PublishConflicts(string, []simops.ConflictPair) error  { return nil }
func (NopNotifier) AwaitConfirmation(string, time.Duration) (bool, error) { return true, nil }
func (NopNotifier) Close() error                                          { return nil }
