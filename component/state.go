package component

import "sync"

// State is a process's lifecycle state (spec §4.3).
type State uint8

const (
	StateNew State = iota
	StateStarting
	StateWaiting
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
	case StateStarting:
		return "starting"
	case StateWaiting:
		return "waiting"
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

// Trigger is a named lifecycle event fired against the state machine.
type Trigger uint8

const (
	TriggerStart Trigger = iota
	TriggerStartOK
	TriggerStartKO
	TriggerRun
	TriggerWait
	TriggerIdle
	TriggerStop
	TriggerShutdown
)

func (t Trigger) String() string {
	switch t {
	case TriggerStart:
		return "start"
	case TriggerStartOK:
		return "start_ok"
	case TriggerStartKO:
		return "start_ko"
	case TriggerRun:
		return "run"
	case TriggerWait:
		return "wait"
	case TriggerIdle:
		return "idle"
	case TriggerStop:
		return "stop"
	case TriggerShutdown:
		return "shutdown"
	}
	return "unknown"
}

// transitions maps (trigger, source) -> dest. stop has two legs under the
// same named trigger (running/waiting -> stopping, then stopping -> stopped),
// both carried as ordinary entries of its source map.
var transitions = map[Trigger]map[State]State{
	TriggerStart:   {StateNew: StateStarting},
	TriggerStartOK: {StateStarting: StateIdle},
	TriggerStartKO: {StateStarting: StateStopped},
	TriggerRun:     {StateIdle: StateRunning, StateWaiting: StateRunning},
	TriggerWait:    {StateRunning: StateWaiting},
	TriggerIdle:    {StateRunning: StateIdle},
	TriggerStop:    {StateRunning: StateStopping, StateWaiting: StateStopping, StateStopping: StateStopped},
	TriggerShutdown: {StateStopped: StateShutdown},
}

// fsm is a small guarded state machine for a Component's lifecycle
// (engine/state.go repeats the same pattern for GraphEngine with its own
// type), grounded on the teacher's guarded
// Start/Stop/Reload boolean flags in config.configModel, generalized here to
// a named-state transition table since this lifecycle has more than two
// states.
type fsm struct {
	mu    sync.Mutex
	state State
}

func newFSM(initial State) *fsm {
	return &fsm{state: initial}
}

func (f *fsm) Current() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// fire applies trigger if valid for the current state, returning
// ErrorInvalidTransition otherwise.
func (f *fsm) fire(trigger Trigger) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	dests, ok := transitions[trigger]
	if !ok {
		return ErrorInvalidTransition.Error()
	}
	dest, ok := dests[f.state]
	if !ok {
		return ErrorInvalidTransition.Error()
	}
	f.state = dest
	return nil
}
