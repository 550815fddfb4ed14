// Package runlog persists the history of scheduling runs.
package runlog

import (
	"context"
	"time"

	"github.com/haocluo92/well-scheduler/core/schedule"
	"github.com/haocluo92/well-scheduler/core/simops"
)

// Event mirrors model.ScheduleEvent with flattened references for
// persistence.
type Event struct {
	ID       string    `json:"id"`
	Resource string    `json:"resource"`
	Batch    string    `json:"batch"`
	Phase    string    `json:"phase"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Days     int       `json:"days"`
}

// Skip mirrors schedule.Skip for persistence.
type Skip struct {
	Batch  string `json:"batch"`
	Phase  string `json:"phase"`
	Reason string `json:"reason"`
}

// Record captures one scheduling run.
type Record struct {
	RunID        string                `json:"run_id"`
	Timestamp    time.Time             `json:"timestamp"`
	FracLagDays  int                   `json:"frac_lag_days"`
	Events       []Event               `json:"events"`
	Skips        []Skip                `json:"skips"`
	Conflicts    []simops.ConflictPair `json:"conflicts"`
	MakespanDays int                   `json:"makespan_days"`
}

// FromResult flattens a run result into a Record.
func FromResult(res *schedule.Result, fracLagDays int) Record {
	rec := Record{
		RunID:        res.RunID,
		Timestamp:    res.Started,
		FracLagDays:  fracLagDays,
		Conflicts:    res.Conflicts,
		MakespanDays: int(res.Makespan().Hours() / 24),
	}
	for _, ev := range res.Events {
		rec.Events = append(rec.Events, Event{
			ID:       ev.ID,
			Resource: ev.Resource.Name,
			Batch:    ev.Batch.Name,
			Phase:    ev.Phase.String(),
			Start:    ev.Start,
			End:      ev.End,
			Days:     ev.DurationDays,
		})
	}
	for _, sk := range res.Skips {
		rec.Skips = append(rec.Skips, Skip{Batch: sk.Batch, Phase: sk.Phase.String(), Reason: sk.Reason})
	}
	return rec
}

// Query defines filters for retrieving records.
type Query struct {
	Start time.Time
	End   time.Time
	RunID string
	Batch string
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// matchesBatch reports whether the record references the batch in any event
// or skip.
func matchesBatch(r Record, batch string) bool {
	for _, ev := range r.Events {
		if ev.Batch == batch {
			return true
		}
	}
	for _, sk := range r.Skips {
		if sk.Batch == batch {
			return true
		}
	}
	return false
}
