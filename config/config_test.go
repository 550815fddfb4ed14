package config

import (
	"os"
	"path/filepath"
	"testing"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `planner:
  frac_lag_days: 5
  horizon_start: "2024-01-01"
  horizon_end: "2024-06-30"
  simops_enabled: true
  simops_threshold_meters: 1500
  interval_seconds: 900
fieldplan:
  path: "plan.yaml"
runlog:
  backend: "jsonl"
  path: "runs.jsonl"
metrics:
  prom_addr: ":9100"
  sinks:
    - type: "nop"
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "planner"
  username: "user"
  password: "pass"
  confirm_topic: "wellsched/schedule/confirm"
  use_tls: false
api:
  enabled: true
  addr: ":8088"
  token: "secret"
telemetry:
  enabled: true
  mode: "push"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"frac_lag_days", cfg.Planner.FracLagDays, 5},
		{"horizon_start", cfg.Planner.HorizonStart, "2024-01-01"},
		{"horizon_end", cfg.Planner.HorizonEnd, "2024-06-30"},
		{"simops_enabled", cfg.Planner.SimopsEnabled, true},
		{"simops_threshold_meters", cfg.Planner.SimopsThresholdMeters, 1500.0},
		{"interval_seconds", cfg.Planner.IntervalSeconds, 900},
		{"fieldplan.path", cfg.Fieldplan.Path, "plan.yaml"},
		{"runlog.backend", cfg.RunLog.Backend, "jsonl"},
		{"runlog.path", cfg.RunLog.Path, "runs.jsonl"},
		{"prom_addr", cfg.Metrics.PromAddr, ":9100"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "planner"},
		{"username", cfg.MQTT.Username, "user"},
		{"password", cfg.MQTT.Password, "pass"},
		{"confirm_topic", cfg.MQTT.ConfirmTopic, "wellsched/schedule/confirm"},
		{"use_tls", cfg.MQTT.UseTLS, false},
		{"api.enabled", cfg.API.Enabled, true},
		{"api.addr", cfg.API.Addr, ":8088"},
		{"api.token", cfg.API.Token, "secret"},
		{"telemetry.enabled", cfg.Telemetry.Enabled, true},
		{"telemetry.mode", cfg.Telemetry.Mode, "push"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `fieldplan:
  path: "plan.yaml"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.RunLog.Backend != "jsonl" || cfg.RunLog.Path != "schedule_runs.jsonl" {
		t.Errorf("runlog defaults not applied: %+v", cfg.RunLog)
	}
	if cfg.API.Addr != ":8080" {
		t.Errorf("api addr default not applied: %q", cfg.API.Addr)
	}
	if got := cfg.Planner.Interval(); got != 3600 {
		t.Errorf("planner interval default = %d", got)
	}
}

func TestLoadRejectsBadHorizon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `planner:
  horizon_start: "2024-06-30"
  horizon_end: "2024-01-01"
fieldplan:
  path: "plan.yaml"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for inverted horizon")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
