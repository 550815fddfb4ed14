package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	apischedule "github.com/haocluo92/well-scheduler/api/schedule"
	"github.com/haocluo92/well-scheduler/config"
	"github.com/haocluo92/well-scheduler/core/kpi"
	coremetrics "github.com/haocluo92/well-scheduler/core/metrics"
	"github.com/haocluo92/well-scheduler/core/model"
	coremon "github.com/haocluo92/well-scheduler/core/monitoring"
	"github.com/haocluo92/well-scheduler/core/notify"
	"github.com/haocluo92/well-scheduler/core/schedule"
	"github.com/haocluo92/well-scheduler/core/schedule/runlog"
	"github.com/haocluo92/well-scheduler/infra/logger"
	"github.com/haocluo92/well-scheduler/infra/metrics"
	"github.com/haocluo92/well-scheduler/infra/monitoring"
	"github.com/haocluo92/well-scheduler/infra/mqtt"
	"github.com/haocluo92/well-scheduler/infra/telemetry"
	"github.com/haocluo92/well-scheduler/internal/eventbus"
	"github.com/haocluo92/well-scheduler/pkg/fieldplan"
)

// Service orchestrates the planning loop: it reloads the field plan, runs the
// scheduler, persists run records and fans results out to sinks, the notifier
// and the HTTP API.
type Service struct {
	cfg      *config.Config
	log      logger.Logger
	store    runlog.Store
	sink     coremetrics.Sink
	bus      eventbus.EventBus
	notifier notify.Notifier
	records  *eventbus.Feed[runlog.Record]

	mu   sync.Mutex
	last *schedule.Result
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry monitor: %w", err)
	}
	coremon.Init(mon)

	store, err := newStore(cfg.RunLog)
	if err != nil {
		return nil, fmt.Errorf("run log store: %w", err)
	}

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.MQTT.Broker != "" {
		notifier, err = mqtt.NewPahoNotifier(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
	}

	return &Service{
		cfg:      cfg,
		log:      logg,
		store:    store,
		sink:     sink,
		bus:      eventbus.NewWithBuffer(64),
		notifier: notifier,
		records:  eventbus.NewFeed[runlog.Record](4),
	}, nil
}

func newStore(cfg config.RunLogConfig) (runlog.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return runlog.NewSQLiteStore(cfg.Path)
	default:
		if cfg.MaxSizeMB > 0 {
			return runlog.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		}
		return runlog.NewJSONLStore(cfg.Path)
	}
}

// PlanOnce reloads the field plan, runs one scheduling pass and records the
// outcome. Plan file problems and soft infeasibility do not stop the service;
// invariant violations are reported to the monitor and returned.
func (s *Service) PlanOnce(ctx context.Context) (*schedule.Result, error) {
	doc, err := fieldplan.Load(s.cfg.Fieldplan.Path)
	if err != nil {
		return nil, fmt.Errorf("load field plan: %w", err)
	}
	plan, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("build field plan: %w", err)
	}
	rigs, err := schedule.NewPool(model.KindRig, plan.Rigs...)
	if err != nil {
		return nil, err
	}
	crews, err := schedule.NewPool(model.KindFracCrew, plan.Crews...)
	if err != nil {
		return nil, err
	}
	sched, err := schedule.New(plan.Batches, rigs, crews, logger.New("scheduler"))
	if err != nil {
		return nil, err
	}
	if err := sched.SetFracLag(s.cfg.Planner.FracLagDays); err != nil {
		return nil, err
	}
	if start, end, ok, herr := s.cfg.Planner.Horizon(); herr != nil {
		return nil, herr
	} else if ok {
		if err := sched.SetPlanningHorizon(start, end); err != nil {
			return nil, err
		}
	}
	if s.cfg.Planner.SimopsEnabled {
		sched.EnableSimops(s.cfg.Planner.SimopsThresholdMeters)
	}
	sched.AttachBus(s.bus)

	res, err := sched.Schedule()
	if err != nil {
		coremon.CaptureException(err, map[string]string{"module": "scheduler"})
		return nil, err
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	rec := runlog.FromResult(res, s.cfg.Planner.FracLagDays)
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Errorf("append run log: %v", err)
	}
	s.record(res, rec)
	s.records.Publish(rec)
	return res, nil
}

// record pushes the run summary and per-resource utilization to the sink.
// Assignment, skip and conflict details flow through the event collector.
func (s *Service) record(res *schedule.Result, rec runlog.Record) {
	if err := s.sink.RecordRun(coremetrics.RunRecord{
		RunID:        res.RunID,
		Time:         res.Started,
		Events:       len(res.Events),
		Skips:        len(res.Skips),
		Conflicts:    len(res.Conflicts),
		MakespanDays: rec.MakespanDays,
		FracLagDays:  rec.FracLagDays,
		Duration:     res.Finished.Sub(res.Started),
	}); err != nil {
		s.log.Errorf("record run: %v", err)
	}
	ur, ok := s.sink.(coremetrics.UtilizationRecorder)
	if !ok {
		return
	}
	rep := kpi.FromResult(res)
	recs := make([]coremetrics.UtilizationRecord, 0, len(rep.Utilization))
	for _, u := range rep.Utilization {
		recs = append(recs, coremetrics.UtilizationRecord{
			RunID:       res.RunID,
			Resource:    u.Resource,
			Kind:        u.Kind,
			BusyDays:    u.BusyDays,
			Utilization: u.Utilization,
		})
	}
	if err := ur.RecordUtilization(recs); err != nil {
		s.log.Errorf("record utilization: %v", err)
	}
}

// Run starts the planning loop and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	sub, cancel := s.records.Subscribe()
	go s.publishLoop(ctx, sub, cancel)

	if s.cfg.Metrics.PromAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PromAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.API.Enabled {
		go func() {
			if err := s.serveAPI(ctx); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}
	if s.cfg.Telemetry.Enabled && s.cfg.MQTT.Broker != "" {
		var pr coremetrics.ProgressRecorder
		if p, ok := s.sink.(coremetrics.ProgressRecorder); ok {
			pr = p
		}
		mgr, err := telemetry.NewManager(s.cfg.MQTT, s.cfg.Telemetry, pr, s)
		if err != nil {
			s.log.Errorf("field telemetry: %v", err)
		} else {
			go mgr.Start(ctx)
		}
	}

	if _, err := s.PlanOnce(ctx); err != nil {
		s.log.Errorf("initial plan: %v", err)
	}
	ticker := time.NewTicker(time.Duration(s.cfg.Planner.Interval()) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := s.PlanOnce(ctx); err != nil {
				s.log.Errorf("plan: %v", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// publishLoop forwards run records to the notifier off the planning tick.
func (s *Service) publishLoop(ctx context.Context, sub <-chan runlog.Record, cancel func()) {
	defer cancel()
	for {
		select {
		case rec, ok := <-sub:
			if !ok {
				return
			}
			if _, err := s.notifier.PublishRun(rec); err != nil {
				s.log.Errorf("publish run: %v", err)
				continue
			}
			if err := s.notifier.PublishConflicts(rec.RunID, rec.Conflicts); err != nil {
				s.log.Errorf("publish conflicts: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) serveAPI(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/api/schedule/runs", apischedule.NewRunsHandler(s.store, s.cfg.API.Token))
	mux.Handle("/api/schedule/current", apischedule.NewCurrentHandler(s, s.cfg.Planner.FracLagDays, s.cfg.API.Token))
	mux.Handle("/api/schedule/kpis", apischedule.NewKPIHandler(s, s.cfg.API.Token))
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Infof("schedule api listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// LastResult returns the most recent run result. It implements the schedule
// API result provider.
func (s *Service) LastResult() (*schedule.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, schedule.ErrNotScheduled
	}
	return s.last, nil
}

// ActiveBatches lists batch names assigned in the most recent run. It
// implements the field telemetry plan source.
func (s *Service) ActiveBatches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, ev := range s.last.Events {
		if _, ok := seen[ev.Batch.Name]; ok {
			continue
		}
		seen[ev.Batch.Name] = struct{}{}
		out = append(out, ev.Batch.Name)
	}
	return out
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.records.Close()
	err := s.notifier.Close()
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	coremon.Flush(2 * time.Second)
	return err
}
