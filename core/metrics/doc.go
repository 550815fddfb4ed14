// Package metrics defines interfaces and implementations for recording
// scheduling outcomes. Sinks like PromSink and InfluxSink record run
// summaries, assignments, skips and simops conflicts, and can be combined
// with NewMultiSink. The factory helpers return a MultiSink automatically
// when multiple sinks are configured.
package metrics
