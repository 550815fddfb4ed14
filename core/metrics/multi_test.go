package metrics

import "testing"

// recordSink counts forwarded records.
type recordSink struct {
	count int
}

func (r *recordSink) RecordRun(RunRecord) error {
	r.count++
	return nil
}

func (r *recordSink) RecordAssignments([]AssignmentRecord) error {
	r.count++
	return nil
}

func TestMultiSinkForwardsToAll(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordRun(RunRecord{}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := m.RecordAssignments(nil); err != nil {
		t.Fatalf("record assignments: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("records not forwarded, counts %d/%d", s1.count, s2.count)
	}
}

func TestMultiSinkSkipsNonRecorders(t *testing.T) {
	m := NewMultiSink(NopSink{}, &recordSink{})
	if err := m.RecordSkips(nil); err != nil {
		t.Fatalf("record skips: %v", err)
	}
}
