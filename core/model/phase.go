package model

// Phase identifies one of the two sequential work stages a batch passes
// through. Feasibility and assignment logic take a Phase value instead of
// inspecting resource types.
type Phase int

const (
	PhaseDrill Phase = iota
	PhaseFrac
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseDrill:
		return "drill"
	case PhaseFrac:
		return "frac"
	default:
		return "unknown"
	}
}
