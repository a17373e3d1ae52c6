package services

// State is a step of the network import lifecycle.
type State string

const (
	StateIdle         State = "idle"
	StateCleared      State = "cleared"
	StateConverting   State = "converting"
	StateValidating   State = "validating"
	StateLoading      State = "loading"
	StateTypeChecking State = "type_checking"
	StateEnriching    State = "enriching"
	StateUpserting    State = "upserting"
	StateCommitted    State = "committed"
	StateCrossRefSync State = "cross_ref_sync"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Every non-terminal state may fail.
var transitions = map[State][]State{
	StateIdle:         {StateCleared, StateFailed},
	StateCleared:      {StateConverting, StateFailed},
	StateConverting:   {StateValidating, StateFailed},
	StateValidating:   {StateLoading, StateFailed},
	StateLoading:      {StateTypeChecking, StateFailed},
	StateTypeChecking: {StateEnriching, StateFailed},
	StateEnriching:    {StateUpserting, StateFailed},
	StateUpserting:    {StateCommitted, StateFailed},
	StateCommitted:    {StateCrossRefSync, StateFailed},
	StateCrossRefSync: {StateDone, StateFailed},
}

// CanTransition reports whether next may follow s.
func (s State) CanTransition(next State) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
