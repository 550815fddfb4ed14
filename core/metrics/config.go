package metrics

import "github.com/haocluo92/well-scheduler/core/factory"

// Config defines settings for metrics sinks. PromAddr, when set, is the
// listen address for the Prometheus scrape endpoint.
type Config struct {
	Sinks    []factory.ModuleConfig `json:"sinks"`
	PromAddr string                 `json:"prom_addr"`
}
