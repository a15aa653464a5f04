package engine

import "sync"

// State is the GraphEngine's lifecycle state (spec §4.5).
type State uint8

const (
	StateNew State = iota
	StateResolved
	StateUnresolved
	StateRunning
	StateIdle
	StateStopping
	StateStopped
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateResolved:
		return "resolved"
	case StateUnresolved:
		return "unresolved"
	case StateRunning:
		return "running"
	case StateIdle:
		return "idle"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateShutdown:
		return "shutdown"
	}
	return "unknown"
}

// Trigger is a named engine lifecycle event.
type Trigger uint8

const (
	TriggerResolve Trigger = iota
	TriggerUnresolve
	TriggerRun
	TriggerIdle
	TriggerStop
	TriggerShutdown
)

// transitions mirrors component.transitions' shape (see component/state.go)
// generalized to the engine's own state/trigger set: {new,unresolved} ->
// resolved; new -> unresolved on a failed bind; {resolved,idle} -> running;
// running -> idle; {running,idle} -> stopping -> stopped; stopped ->
// shutdown; and, for a re-bind, shutdown -> resolved or shutdown ->
// unresolved.
var transitions = map[Trigger]map[State]State{
	TriggerResolve:   {StateNew: StateResolved, StateUnresolved: StateResolved, StateShutdown: StateResolved},
	TriggerUnresolve: {StateNew: StateUnresolved, StateShutdown: StateUnresolved},
	TriggerRun:       {StateResolved: StateRunning, StateIdle: StateRunning},
	TriggerIdle:      {StateRunning: StateIdle},
	TriggerStop:      {StateRunning: StateStopping, StateIdle: StateStopping, StateStopping: StateStopped},
	TriggerShutdown:  {StateStopped: StateShutdown},
}

// fsm is the engine's guarded state machine; see component/state.go for the
// identical pattern applied to a process's lifecycle.
type fsm struct {
	mu    sync.Mutex
	state State
}

func newFSM(initial State) *fsm { return &fsm{state: initial} }

func (f *fsm) Current() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fsm) fire(trigger Trigger) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	dests, ok := transitions[trigger]
	if !ok {
		return ErrorInvalidOperation.Error()
	}
	dest, ok := dests[f.state]
	if !ok {
		return ErrorInvalidOperation.Error()
	}
	f.state = dest
	return nil
}
