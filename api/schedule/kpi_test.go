package schedule

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haocluo92/well-scheduler/core/kpi"
	"github.com/haocluo92/well-scheduler/core/model"
	coreschedule "github.com/haocluo92/well-scheduler/core/schedule"
	"github.com/haocluo92/well-scheduler/core/schedule/runlog"
)

type stubProvider struct {
	res *coreschedule.Result
	err error
}

func (s stubProvider) LastResult() (*coreschedule.Result, error) { return s.res, s.err }

func sampleResult() *coreschedule.Result {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rig := model.NewRig("rig-1", start)
	crew := model.NewFracCrew("crew-1", start)
	batch := model.NewWellBatch("pad-a", []model.Well{{Name: "w1", DrillDays: 10, FracDays: 5}})
	batch.SetDrillStatus(start)
	fracStart := model.AddDays(start, 12)
	if err := batch.SetFracStatus(fracStart); err != nil {
		panic(err)
	}
	return &coreschedule.Result{
		RunID:    "run-7",
		Started:  start,
		Finished: start.Add(time.Second),
		Events: []model.ScheduleEvent{
			{ID: "e1", Resource: rig, Batch: batch, Phase: model.PhaseDrill,
				Start: start, End: model.AddDays(start, 10), DurationDays: 10},
			{ID: "e2", Resource: crew, Batch: batch, Phase: model.PhaseFrac,
				Start: fracStart, End: model.AddDays(fracStart, 5), DurationDays: 5},
		},
	}
}

func TestKPIHandler(t *testing.T) {
	h := NewKPIHandler(stubProvider{res: sampleResult()}, "")
	req := httptest.NewRequest("GET", "/api/schedule/kpis", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var rep kpi.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rep.RunID != "run-7" || rep.EventCount != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.BatchesDrilled != 1 || rep.BatchesFraced != 1 {
		t.Fatalf("batch counts wrong: %+v", rep)
	}
	if rep.MakespanDays != 17 {
		t.Fatalf("makespan = %d", rep.MakespanDays)
	}
}

func TestKPIHandler_NoRun(t *testing.T) {
	h := NewKPIHandler(stubProvider{err: coreschedule.ErrNotScheduled}, "")
	req := httptest.NewRequest("GET", "/api/schedule/kpis", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestKPIHandler_MethodNotAllowed(t *testing.T) {
	h := NewKPIHandler(stubProvider{res: sampleResult()}, "")
	req := httptest.NewRequest("POST", "/api/schedule/kpis", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}

func TestCurrentHandler(t *testing.T) {
	h := NewCurrentHandler(stubProvider{res: sampleResult()}, 2, "tok")
	req := httptest.NewRequest("GET", "/api/schedule/current", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var rec runlog.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.RunID != "run-7" || rec.FracLagDays != 2 || len(rec.Events) != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	req = httptest.NewRequest("GET", "/api/schedule/current", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestCurrentHandler_NoRun(t *testing.T) {
	h := NewCurrentHandler(stubProvider{err: coreschedule.ErrNotScheduled}, 0, "")
	req := httptest.NewRequest("GET", "/api/schedule/current", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}
