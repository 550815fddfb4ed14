package metrics

// MultiSink fans records out to several sinks. Optional recorder interfaces
// are forwarded to the sinks that implement them.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the record to every sink, returning the first error.
func (m *MultiSink) RecordRun(rec RunRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordAssignments forwards to sinks implementing AssignmentRecorder.
func (m *MultiSink) RecordAssignments(recs []AssignmentRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(AssignmentRecorder); ok {
			if err := r.RecordAssignments(recs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSkips forwards to sinks implementing SkipRecorder.
func (m *MultiSink) RecordSkips(recs []SkipRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(SkipRecorder); ok {
			if err := r.RecordSkips(recs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordConflicts forwards to sinks implementing ConflictRecorder.
func (m *MultiSink) RecordConflicts(recs []ConflictRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(ConflictRecorder); ok {
			if err := r.RecordConflicts(recs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordUtilization forwards to sinks implementing UtilizationRecorder.
func (m *MultiSink) RecordUtilization(recs []UtilizationRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(UtilizationRecorder); ok {
			if err := r.RecordUtilization(recs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFieldProgress forwards to sinks implementing ProgressRecorder.
func (m *MultiSink) RecordFieldProgress(rec ProgressRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(ProgressRecorder); ok {
			if err := r.RecordFieldProgress(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
