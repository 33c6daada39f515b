package timeacct

// State is the local timer mode.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// HasSession reports whether the state implies a live session.
func (s State) HasSession() bool {
	return s == StateRunning || s == StatePaused
}
