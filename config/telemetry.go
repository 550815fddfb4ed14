package config

// TelemetryConfig holds configuration for the field progress listener.
type TelemetryConfig struct {
	Enabled         bool   `json:"enabled"`
	Mode            string `json:"mode"`
	IntervalSeconds int    `json:"interval_seconds"`
	RequestTopic    string `json:"request_topic"`
	ResponsePrefix  string `json:"response_topic_prefix"`
	ProgressPrefix  string `json:"progress_topic_prefix"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
}

// SetDefaults fills in the standard field topics.
func (c *TelemetryConfig) SetDefaults() {
	if c.ProgressPrefix == "" {
		c.ProgressPrefix = "wellsched/field/progress"
	}
	if c.RequestTopic == "" {
		c.RequestTopic = "wellsched/field/poll"
	}
	if c.ResponsePrefix == "" {
		c.ResponsePrefix = "wellsched/field/response"
	}
}

func (c TelemetryConfig) Interval() int {
	if c.IntervalSeconds <= 0 {
		return 10
	}
	return c.IntervalSeconds
}

func (c TelemetryConfig) Timeout() int {
	if c.TimeoutSeconds <= 0 {
		return 3
	}
	return c.TimeoutSeconds
}
