package config

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// PlannerConfig drives the scheduling run itself.
type PlannerConfig struct {
	// FracLagDays is the mandatory delay between drill end and frac start.
	FracLagDays int `json:"frac_lag_days"`
	// HorizonStart and HorizonEnd bound all assignments when both are set,
	// formatted as 2006-01-02.
	HorizonStart string `json:"horizon_start"`
	HorizonEnd   string `json:"horizon_end"`
	// SimopsEnabled turns on proximity analysis after each run.
	SimopsEnabled bool `json:"simops_enabled"`
	// SimopsThresholdMeters overrides the default conflict distance.
	SimopsThresholdMeters float64 `json:"simops_threshold_meters"`
	// IntervalSeconds is the replanning period in service mode.
	IntervalSeconds int `json:"interval_seconds"`
}

// Interval returns the replanning period in seconds, defaulting to hourly.
func (c PlannerConfig) Interval() int {
	if c.IntervalSeconds <= 0 {
		return 3600
	}
	return c.IntervalSeconds
}

// Horizon returns the configured planning window. ok is false when no
// horizon is configured.
func (c PlannerConfig) Horizon() (start, end time.Time, ok bool, err error) {
	if c.HorizonStart == "" && c.HorizonEnd == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if c.HorizonStart == "" || c.HorizonEnd == "" {
		return time.Time{}, time.Time{}, false, fmt.Errorf("horizon_start and horizon_end must be set together")
	}
	start, err = time.Parse(dayLayout, c.HorizonStart)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("horizon_start: %w", err)
	}
	end, err = time.Parse(dayLayout, c.HorizonEnd)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("horizon_end: %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, false, fmt.Errorf("horizon_end %s must follow horizon_start %s", c.HorizonEnd, c.HorizonStart)
	}
	return start, end, true, nil
}

// Validate checks the planner settings.
func (c PlannerConfig) Validate() error {
	if c.FracLagDays < 0 {
		return fmt.Errorf("frac_lag_days must be non-negative, got %d", c.FracLagDays)
	}
	if _, _, _, err := c.Horizon(); err != nil {
		return err
	}
	return nil
}

// FieldplanConfig locates the field plan document with wells, batches and
// resources.
type FieldplanConfig struct {
	Path string `json:"path"`
}

// Validate checks mandatory fields.
func (c FieldplanConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("fieldplan path is required")
	}
	return nil
}
