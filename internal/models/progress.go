package models

// Phase is the state of the progress tracker.
type Phase string

const (
	// PhaseEditing means the user may change the profile and target.
	PhaseEditing Phase = "editing"
	// PhaseLogging means the user may add consumption entries.
	PhaseLogging Phase = "logging"
)

// ProgressState is the logged volume against the current capacity.
// LoggedLiters never exceeds CapacityLiters and is never negative.
type ProgressState struct {
	LoggedLiters   float64
	CapacityLiters float64
	Phase          Phase
}

// Remaining returns the liters left until the capacity is reached.
func (s ProgressState) Remaining() float64 {
	if s.LoggedLiters >= s.CapacityLiters {
		return 0
	}
	return s.CapacityLiters - s.LoggedLiters
}

// Fraction returns progress in [0, 1].
func (s ProgressState) Fraction() float64 {
	if s.CapacityLiters <= 0 {
		return 0
	}
	f := s.LoggedLiters / s.CapacityLiters
	if f > 1 {
		return 1
	}
	return f
}

// GoalReached reports whether the logged volume has reached the capacity.
func (s ProgressState) GoalReached() bool {
	return s.CapacityLiters > 0 && s.LoggedLiters >= s.CapacityLiters
}
