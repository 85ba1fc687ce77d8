package workload

// State represents the lifecycle state of a workload
type State string

const (
	StateWaiting   State = "waiting"
	StateRunning   State = "running"
	StateFinished  State = "finished"
	StateDiscarded State = "discarded"
)

// IsTerminal returns true when no further transition is possible
func (s State) IsTerminal() bool {
	return s == StateFinished || s == StateDiscarded
}

// canTransition reports whether from -> to is a legal edge
func canTransition(from, to State) bool {
	if from.IsTerminal() {
		return false
	}
	switch from {
	case StateWaiting:
		return to == StateRunning || to == StateDiscarded
	case StateRunning:
		return to == StateFinished
	}
	return false
}
