package multiplayer

// Phase represents the current phase of a session.
type Phase string

const (
	PhaseSetup      Phase = "SETUP"       // Collecting player names
	PhaseInProgress Phase = "IN_PROGRESS" // Players submitting words one by one
	PhaseScoring    Phase = "SCORING"     // Every word of the round is being scored
	PhaseResults    Phase = "RESULTS"     // Round scored, waiting for restart or finish
	PhaseFinished   Phase = "FINISHED"    // Session discarded
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from current phase to target phase is valid.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseSetup:      {PhaseInProgress, PhaseFinished},
		PhaseInProgress: {PhaseScoring, PhaseFinished},
		PhaseScoring:    {PhaseResults, PhaseInProgress, PhaseFinished}, // back to IN_PROGRESS when scoring is cancelled
		PhaseResults:    {PhaseInProgress, PhaseFinished},                // new round or leave
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
