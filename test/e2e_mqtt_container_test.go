package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/haocluo92/well-scheduler/config"
	coremetrics "github.com/haocluo92/well-scheduler/core/metrics"
	"github.com/haocluo92/well-scheduler/core/schedule/runlog"
	"github.com/haocluo92/well-scheduler/core/simops"
	infmqtt "github.com/haocluo92/well-scheduler/infra/mqtt"
	"github.com/haocluo92/well-scheduler/infra/telemetry"
)

func waitForMQTTReady(broker string, timeout time.Duration) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("probe")
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		token.Wait()
		if token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		lastErr = token.Error()
		time.Sleep(100 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for broker")
	}
	return lastErr
}

func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	conf := `listener 1883
allow_anonymous true
persistence false
log_dest stdout
log_type error
log_type warning
log_type notice
log_type information
connection_messages true
log_timestamp true
`
	dir := t.TempDir()
	path := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{
			{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			},
		},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())
	addr := net.JoinHostPort(host, port.Port())
	if err := waitForMQTTReady(broker, 5*time.Second); err != nil {
		t.Logf("mosquitto not ready at %s: %v", addr, err)
		t.Skip("Mosquitto not ready after retries")
	}
	return cont, broker
}

func TestPublishRunWithMQTTContainer(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()

	cont, broker := startMosquitto(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	// The probe plays the field side: it watches published runs and alerts
	// and answers the confirmation handshake.
	probeOpts := paho.NewClientOptions().AddBroker(broker).SetClientID("field-probe")
	probe := paho.NewClient(probeOpts)
	if token := probe.Connect(); token.Wait() && token.Error() != nil {
		t.Fatalf("probe connect: %v", token.Error())
	}
	defer probe.Disconnect(100)

	type envelope struct {
		MessageID string        `json:"message_id"`
		Record    runlog.Record `json:"record"`
	}
	envCh := make(chan envelope, 1)
	if token := probe.Subscribe("wellsched/schedule/events", 0, func(_ paho.Client, m paho.Message) {
		var env envelope
		if err := json.Unmarshal(m.Payload(), &env); err != nil {
			return
		}
		select {
		case envCh <- env:
		default:
		}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("subscribe events: %v", token.Error())
	}
	alertCh := make(chan []byte, 1)
	if token := probe.Subscribe("wellsched/simops/alerts", 0, func(_ paho.Client, m paho.Message) {
		payload := make([]byte, len(m.Payload()))
		copy(payload, m.Payload())
		select {
		case alertCh <- payload:
		default:
		}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("subscribe alerts: %v", token.Error())
	}

	notifier, err := infmqtt.NewPahoNotifier(infmqtt.Config{
		Broker:       broker,
		ClientID:     "sched-pub",
		ConfirmTopic: "wellsched/schedule/confirm",
	})
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	defer func() { _ = notifier.Close() }()
	time.Sleep(500 * time.Millisecond)

	res := schedulePlan(t, buildPlan(t, integrationPlan), 5)
	rec := runlog.FromResult(res, 5)
	msgID, err := notifier.PublishRun(rec)
	if err != nil {
		t.Fatalf("publish run: %v", err)
	}

	select {
	case env := <-envCh:
		if env.MessageID != msgID {
			t.Errorf("message id: got %s, want %s", env.MessageID, msgID)
		}
		if env.Record.RunID != rec.RunID {
			t.Errorf("run id: got %s, want %s", env.Record.RunID, rec.RunID)
		}
		if len(env.Record.Events) != 4 {
			t.Errorf("record events: %d", len(env.Record.Events))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no run message received")
	}

	payload, _ := json.Marshal(map[string]string{"message_id": msgID})
	if token := probe.Publish("wellsched/schedule/confirm", 0, false, payload); token.Wait() && token.Error() != nil {
		t.Fatalf("publish confirm: %v", token.Error())
	}
	confirmed, err := notifier.AwaitConfirmation(msgID, 5*time.Second)
	if err != nil {
		t.Fatalf("await confirmation: %v", err)
	}
	if !confirmed {
		t.Error("confirmation not received")
	}

	pairs := []simops.ConflictPair{{BatchA: "pad-a", BatchB: "pad-b", WellA: "w1", WellB: "w3", DistanceMeters: 420.5}}
	if err := notifier.PublishConflicts(rec.RunID, pairs); err != nil {
		t.Fatalf("publish conflicts: %v", err)
	}
	select {
	case raw := <-alertCh:
		var alert struct {
			RunID     string                `json:"run_id"`
			Conflicts []simops.ConflictPair `json:"conflicts"`
		}
		if err := json.Unmarshal(raw, &alert); err != nil {
			t.Fatalf("decode alert: %v", err)
		}
		if alert.RunID != rec.RunID || len(alert.Conflicts) != 1 {
			t.Errorf("alert: %+v", alert)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no simops alert received")
	}
}

type progressCapture struct {
	mu   sync.Mutex
	recs []coremetrics.ProgressRecord
}

func (p *progressCapture) RecordFieldProgress(rec coremetrics.ProgressRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recs = append(p.recs, rec)
	return nil
}

func (p *progressCapture) snapshot() []coremetrics.ProgressRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]coremetrics.ProgressRecord(nil), p.recs...)
}

type staticPlan struct{ batches []string }

func (s staticPlan) ActiveBatches() []string { return s.batches }

func TestFieldTelemetryWithMQTTContainer(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cont, broker := startMosquitto(ctx, t)
	defer func() { _ = cont.Terminate(context.Background()) }()

	tcfg := config.TelemetryConfig{Enabled: true, Mode: "push"}
	tcfg.SetDefaults()
	sink := &progressCapture{}
	mgr, err := telemetry.NewManager(
		infmqtt.Config{Broker: broker, ClientID: "field-e2e"},
		tcfg, sink, staticPlan{batches: []string{"pad-7"}},
	)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	go mgr.Start(ctx)
	time.Sleep(500 * time.Millisecond)

	probeOpts := paho.NewClientOptions().AddBroker(broker).SetClientID("crew-sim")
	probe := paho.NewClient(probeOpts)
	if token := probe.Connect(); token.Wait() && token.Error() != nil {
		t.Fatalf("probe connect: %v", token.Error())
	}
	defer probe.Disconnect(100)

	payload, _ := json.Marshal(map[string]any{"batch": "pad-7", "phase": "DRILL", "percent": 55.0})
	if token := probe.Publish(tcfg.ProgressPrefix+"/pad-7", 0, false, payload); token.Wait() && token.Error() != nil {
		t.Fatalf("publish progress: %v", token.Error())
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(sink.snapshot()) > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	recs := sink.snapshot()
	if len(recs) == 0 {
		t.Fatal("no progress recorded")
	}
	got := recs[0]
	if got.Batch != "pad-7" || got.Phase != "drill" || got.Percent != 55 || got.Origin != "push" {
		t.Errorf("progress record: %+v", got)
	}
}
