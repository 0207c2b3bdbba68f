package engine

import "fmt"

// State is the lifecycle state of a Controller
type State int32

const (
	// StateIdle is before the first successful mount, waiting on a non-zero surface
	StateIdle State = iota
	// StateRunning schedules one frame after another
	StateRunning
	// StatePaused keeps the particle set but schedules nothing
	StatePaused
	// StateStopped is terminal; listeners are detached and no frame will run
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// transitions lists the legal moves out of each state
var transitions = map[State][]State{
	StateIdle:    {StateRunning, StatePaused, StateStopped},
	StateRunning: {StatePaused, StateStopped},
	StatePaused:  {StateRunning, StateStopped},
	StateStopped: nil,
}

// CanTransition reports whether from → to is allowed
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
