package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/haocluo92/well-scheduler/core/metrics"
)

func TestPromSink_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink, ok := sinkIf.(*PromSink)
	if !ok {
		t.Fatalf("expected PromSink")
	}
	rec := coremetrics.RunRecord{RunID: "run-1", Events: 4, Skips: 1, Conflicts: 2, MakespanDays: 41}
	if err := sink.RecordRun(rec); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP schedule_makespan_days Makespan of the latest scheduling run in days
# TYPE schedule_makespan_days gauge
schedule_makespan_days 41
`
	if err := testutil.CollectAndCompare(sink.makespan, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	expectedSkips := `
# HELP schedule_last_run_skips Batch phases left unscheduled by the latest scheduling run
# TYPE schedule_last_run_skips gauge
schedule_last_run_skips 1
`
	if err := testutil.CollectAndCompare(sink.skips, strings.NewReader(expectedSkips)); err != nil {
		t.Errorf("unexpected skip metric: %v", err)
	}
}

func TestPromSink_RecordUtilization(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink := sinkIf.(*PromSink)
	if err := sink.RecordUtilization([]coremetrics.UtilizationRecord{{
		RunID:       "run-1",
		Resource:    "rig_1",
		Kind:        "rig",
		BusyDays:    30,
		Utilization: 0.75,
	}}); err != nil {
		t.Fatalf("utilization error: %v", err)
	}
	expected := `
# HELP resource_utilization_ratio Share of the latest run makespan each resource spent booked
# TYPE resource_utilization_ratio gauge
resource_utilization_ratio{kind="rig",resource="rig_1"} 0.75
`
	if err := testutil.CollectAndCompare(sink.util, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected utilization metric: %v", err)
	}
	if c := testutil.CollectAndCount(sink.busy); c == 0 {
		t.Errorf("busy days not recorded")
	}
}

// Building two sinks against one registry must reuse the registered
// collectors instead of failing.
func TestPromSink_Reregister(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if err := second.RecordRun(coremetrics.RunRecord{MakespanDays: 7}); err != nil {
		t.Fatalf("record: %v", err)
	}
	expected := `
# HELP schedule_makespan_days Makespan of the latest scheduling run in days
# TYPE schedule_makespan_days gauge
schedule_makespan_days 7
`
	if err := testutil.CollectAndCompare(first.(*PromSink).makespan, strings.NewReader(expected)); err != nil {
		t.Errorf("collectors not shared: %v", err)
	}
}
