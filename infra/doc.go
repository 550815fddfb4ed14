// Package infra holds the technical adapters around the scheduling core:
// the MQTT notifier and field telemetry client, the Prometheus and InfluxDB
// sinks, the SQLite utilization store, the zerolog logger and the Sentry
// monitor. Adapters depend only on interfaces defined in the core packages.
package infra
