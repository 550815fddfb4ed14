package telemetry

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/haocluo92/well-scheduler/config"
	coremetrics "github.com/haocluo92/well-scheduler/core/metrics"
	"github.com/haocluo92/well-scheduler/infra/logger"
	infmqtt "github.com/haocluo92/well-scheduler/infra/mqtt"
)

// PlanSource reports which batches have assignments in the current schedule
// and are therefore expected to answer a poll.
type PlanSource interface {
	ActiveBatches() []string
}

// Manager collects progress reports from field crews either via push or
// polling.
type Manager struct {
	cfg  config.TelemetryConfig
	cli  paho.Client
	sink coremetrics.ProgressRecorder
	log  logger.Logger
	plan PlanSource

	respCh chan progressMessage

	pollReq     prometheus.Counter
	pollResp    prometheus.Counter
	pollTimeout prometheus.Counter
	lastReport  prometheus.Gauge
	latency     prometheus.Histogram
}

type progressMessage struct {
	Batch   string
	Payload []byte
	Arrived time.Time
}

// NewManager connects to MQTT and prepares progress collection.
func NewManager(mqttCfg infmqtt.Config, cfg config.TelemetryConfig, sink coremetrics.ProgressRecorder, plan PlanSource) (*Manager, error) {
	opts, err := infmqtt.NewClientOptions(mqttCfg)
	if err != nil {
		return nil, err
	}
	id := mqttCfg.ClientID
	if id != "" {
		id += "-field"
	} else {
		id = "field-" + uuid.NewString()
	}
	opts.SetClientID(id)
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	m := &Manager{
		cfg:         cfg,
		cli:         cli,
		sink:        sink,
		log:         logger.New("field-telemetry"),
		plan:        plan,
		respCh:      make(chan progressMessage, 100),
		pollReq:     prometheus.NewCounter(prometheus.CounterOpts{Name: "field_poll_requests_total", Help: "Number of field progress poll requests"}),
		pollResp:    prometheus.NewCounter(prometheus.CounterOpts{Name: "field_poll_responses_total", Help: "Number of field progress poll responses"}),
		pollTimeout: prometheus.NewCounter(prometheus.CounterOpts{Name: "field_poll_timeout_total", Help: "Number of batches that missed a poll window"}),
		lastReport:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "field_last_report_timestamp_seconds", Help: "Unix timestamp of last field progress report"}),
		latency:     prometheus.NewHistogram(prometheus.HistogramOpts{Name: "field_report_latency_seconds", Help: "Latency of polled progress collection", Buckets: prometheus.DefBuckets}),
	}
	prometheus.MustRegister(m.pollReq, m.pollResp, m.pollTimeout, m.lastReport, m.latency)
	return m, nil
}

// Start runs progress collection until context is done.
func (m *Manager) Start(ctx context.Context) {
	mode := strings.ToLower(m.cfg.Mode)
	if mode == "" {
		mode = "push"
	}
	if mode == "push" || mode == "hybrid" {
		topic := strings.TrimSuffix(m.cfg.ProgressPrefix, "/") + "/+"
		if token := m.cli.Subscribe(topic, 0, m.onPush); token.Wait() && token.Error() != nil {
			m.log.Errorf("subscribe progress: %v", token.Error())
		}
	}
	if mode == "pull" || mode == "hybrid" {
		topic := strings.TrimSuffix(m.cfg.ResponsePrefix, "/") + "/+"
		if token := m.cli.Subscribe(topic, 0, m.onResponse); token.Wait() && token.Error() != nil {
			m.log.Errorf("subscribe response: %v", token.Error())
		}
		go m.pollLoop(ctx)
	}
	<-ctx.Done()
	if m.cli.IsConnected() {
		m.cli.Disconnect(250)
	}
}

func (m *Manager) onPush(_ paho.Client, msg paho.Message) {
	if err := m.process(msg.Payload(), msg.Topic(), "push"); err != nil {
		m.log.Errorf("push decode: %v", err)
	}
}

func (m *Manager) onResponse(_ paho.Client, msg paho.Message) {
	m.respCh <- progressMessage{Batch: extractID(msg.Topic()), Payload: msg.Payload(), Arrived: time.Now()}
}

func extractID(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return ""
}

func (m *Manager) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(m.cfg.Interval()) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.doPoll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) doPoll(ctx context.Context) {
	start := time.Now()
	expected := map[string]struct{}{}
	if m.plan != nil {
		for _, b := range m.plan.ActiveBatches() {
			expected[b] = struct{}{}
		}
	}
	m.pollReq.Inc()
	token := m.cli.Publish(m.cfg.RequestTopic, 0, false, []byte("poll"))
	token.Wait()
	timeout := time.NewTimer(time.Duration(m.cfg.Timeout()) * time.Second)
	for {
		select {
		case resp := <-m.respCh:
			if err := m.process(resp.Payload, "", "poll"); err != nil {
				m.log.Errorf("poll decode: %v", err)
			} else {
				m.pollResp.Inc()
				m.latency.Observe(time.Since(start).Seconds())
				m.lastReport.SetToCurrentTime()
				delete(expected, resp.Batch)
			}
		case <-timeout.C:
			for range expected {
				m.pollTimeout.Inc()
			}
			return
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) process(payload []byte, topic, origin string) error {
	var msg struct {
		Batch   string  `json:"batch"`
		Phase   string  `json:"phase"`
		Percent float64 `json:"percent"`
		TS      *int64  `json:"ts"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		return err
	}
	if msg.Batch == "" {
		msg.Batch = extractID(topic)
	}
	ts := time.Now()
	if msg.TS != nil {
		ts = time.Unix(*msg.TS, 0)
	}
	if msg.Percent < 0 {
		msg.Percent = 0
	} else if msg.Percent > 100 {
		msg.Percent = 100
	}
	if m.sink != nil {
		_ = m.sink.RecordFieldProgress(coremetrics.ProgressRecord{
			Batch:   msg.Batch,
			Phase:   strings.ToLower(msg.Phase),
			Percent: msg.Percent,
			Origin:  origin,
			Time:    ts,
		})
	}
	return nil
}
