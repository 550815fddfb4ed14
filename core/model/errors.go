package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrAvailabilityRegression reports an attempt to move a resource's
// availability cursor backward.
var ErrAvailabilityRegression = errors.New("availability cursor moved backward")

// PrecedenceError reports a frac status set on a batch that was never
// drilled. The assignment loop is expected never to trigger it; it indicates
// a defect, not bad input.
type PrecedenceError struct {
	Batch string
}

func (e *PrecedenceError) Error() string {
	return fmt.Sprintf("batch %s: cannot frac before drilling", e.Batch)
}

// OrderingError reports a frac start preceding the batch drill end.
type OrderingError struct {
	Batch     string
	FracStart time.Time
	DrillEnd  time.Time
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("batch %s: frac start %s precedes drill end %s",
		e.Batch, e.FracStart.Format("2006-01-02"), e.DrillEnd.Format("2006-01-02"))
}
