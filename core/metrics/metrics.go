package metrics

import "time"

// RunRecord summarizes one scheduling run for recording.
type RunRecord struct {
	RunID        string
	Time         time.Time
	Events       int
	Skips        int
	Conflicts    int
	MakespanDays int
	FracLagDays  int
	Duration     time.Duration
}

// Sink records scheduling outcomes for observability purposes.
type Sink interface {
	RecordRun(rec RunRecord) error
}

// AssignmentRecord captures one resource-to-batch assignment.
type AssignmentRecord struct {
	RunID    string
	Resource string
	Kind     string
	Batch    string
	Phase    string
	Start    time.Time
	End      time.Time
	Days     int
}

// AssignmentRecorder is implemented by sinks able to record individual
// assignments.
type AssignmentRecorder interface {
	RecordAssignments(recs []AssignmentRecord) error
}

// SkipRecord captures a batch left unscheduled in one phase.
type SkipRecord struct {
	RunID  string
	Batch  string
	Phase  string
	Reason string
	Time   time.Time
}

// SkipRecorder records skipped batches.
type SkipRecorder interface {
	RecordSkips(recs []SkipRecord) error
}

// ConflictRecord captures one simops proximity conflict.
type ConflictRecord struct {
	RunID          string
	BatchA         string
	BatchB         string
	WellA          string
	WellB          string
	DistanceMeters float64
	Time           time.Time
}

// ConflictRecorder records simops conflicts.
type ConflictRecorder interface {
	RecordConflicts(recs []ConflictRecord) error
}

// UtilizationRecord captures one resource's booked share of a run.
type UtilizationRecord struct {
	RunID       string
	Resource    string
	Kind        string
	BusyDays    int
	Utilization float64
}

// UtilizationRecorder records per-resource utilization.
type UtilizationRecorder interface {
	RecordUtilization(recs []UtilizationRecord) error
}

// ProgressRecord captures a completion report from a field crew for one
// batch phase. Percent is clamped to [0, 100] before recording. Origin
// distinguishes pushed reports from polled ones.
type ProgressRecord struct {
	Batch   string
	Phase   string
	Percent float64
	Origin  string
	Time    time.Time
}

// ProgressRecorder records field progress reports.
type ProgressRecorder interface {
	RecordFieldProgress(rec ProgressRecord) error
}

// NopSink implements Sink and all optional recorders with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunRecord) error                   { return nil }
func (NopSink) RecordAssignments([]AssignmentRecord) error  { return nil }
func (NopSink) RecordSkips([]SkipRecord) error              { return nil }
func (NopSink) RecordConflicts([]ConflictRecord) error      { return nil }
func (NopSink) RecordUtilization([]UtilizationRecord) error { return nil }
func (NopSink) RecordFieldProgress(ProgressRecord) error    { return nil }
