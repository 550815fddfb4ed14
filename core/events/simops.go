package events

// SimopsConflictEvent is published for each proximity conflict found after a
// run.
type SimopsConflictEvent struct {
	RunID          string
	BatchA         string
	BatchB         string
	WellA          string
	WellB          string
	DistanceMeters float64
}
