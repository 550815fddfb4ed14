package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/haocluo92/well-scheduler/core/metrics"
	"github.com/haocluo92/well-scheduler/infra/logger"
)

// InfluxSink writes scheduling outcomes to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes the run summary as a single point.
func (s *InfluxSink) RecordRun(rec coremetrics.RunRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("schedule_run").
		AddTag("run_id", rec.RunID).
		AddTag("component", "scheduler").
		AddField("events", rec.Events).
		AddField("skips", rec.Skips).
		AddField("conflicts", rec.Conflicts).
		AddField("makespan_days", rec.MakespanDays).
		AddField("frac_lag_days", rec.FracLagDays).
		AddField("duration_ms", round3(rec.Duration.Seconds()*1000)).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordAssignments writes one point per placed assignment, timestamped at
// the assignment start.
func (s *InfluxSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range recs {
		p := write.NewPointWithMeasurement("schedule_assignment").
			AddTag("run_id", r.RunID).
			AddTag("resource", r.Resource).
			AddTag("kind", r.Kind).
			AddTag("batch", r.Batch).
			AddTag("phase", r.Phase).
			AddTag("component", "scheduler").
			AddField("days", r.Days).
			AddField("end", r.End.Format(time.RFC3339)).
			SetTime(r.Start)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordSkips writes one point per batch phase left unscheduled.
func (s *InfluxSink) RecordSkips(recs []coremetrics.SkipRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, r := range recs {
		p := write.NewPointWithMeasurement("schedule_skip").
			AddTag("run_id", r.RunID).
			AddTag("batch", r.Batch).
			AddTag("phase", r.Phase).
			AddTag("reason", r.Reason).
			AddTag("component", "scheduler").
			AddField("count", 1).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordConflicts writes one point per simops proximity conflict.
func (s *InfluxSink) RecordConflicts(recs []coremetrics.ConflictRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, r := range recs {
		p := write.NewPointWithMeasurement("simops_conflict").
			AddTag("run_id", r.RunID).
			AddTag("batch_a", r.BatchA).
			AddTag("batch_b", r.BatchB).
			AddTag("well_a", r.WellA).
			AddTag("well_b", r.WellB).
			AddTag("component", "simops").
			AddField("distance_m", round3(r.DistanceMeters)).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordUtilization writes one point per resource with its booked share.
func (s *InfluxSink) RecordUtilization(recs []coremetrics.UtilizationRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	now := time.Now()
	for _, r := range recs {
		p := write.NewPointWithMeasurement("resource_utilization").
			AddTag("run_id", r.RunID).
			AddTag("resource", r.Resource).
			AddTag("kind", r.Kind).
			AddTag("component", "scheduler").
			AddField("busy_days", r.BusyDays).
			AddField("utilization", round3(r.Utilization)).
			SetTime(now)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordFieldProgress writes a crew progress report as a single point.
func (s *InfluxSink) RecordFieldProgress(rec coremetrics.ProgressRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("field_progress").
		AddTag("batch", rec.Batch).
		AddTag("phase", rec.Phase).
		AddTag("origin", rec.Origin).
		AddTag("component", "field").
		AddField("percent", round3(rec.Percent)).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
