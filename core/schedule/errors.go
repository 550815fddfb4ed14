package schedule

import "errors"

var (
	// ErrNotScheduled is returned when results are requested before any run.
	ErrNotScheduled = errors.New("schedule has not been run")

	// ErrFracLagNotSet is returned when a frac feasibility check is
	// attempted without a configured frac lag.
	ErrFracLagNotSet = errors.New("frac lag not set")
)
