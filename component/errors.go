package component

import (
	"fmt"

	"github.com/beerfactory/hbflow/internal/liberr"
)

const (
	// ErrorInvalidTransition: a state trigger invalid for the current state
	// (spec §7 InvalidTransition) for a Component; GraphEngine reports its
	// own invalid transitions as engine.ErrorInvalidOperation.
	ErrorInvalidTransition liberr.CodeError = iota + liberr.MinPkgComponent
	// ErrorUnknownPort: InputPort/OutputPort lookup by name found nothing.
	ErrorUnknownPort
	// codeUnknownCommand and codeSpuriousWake are never returned as errors —
	// spec §7 policy for both is "logged, non-fatal, loop continues" — but
	// are kept as CodeError values so the dispatch loop's log lines carry the
	// same taxonomy as everything else.
	codeUnknownCommand
	codeSpuriousWake
)

func init() {
	if liberr.ExistInMapMessage(liberr.MinPkgComponent) {
		panic(fmt.Errorf("component: error code collision on range %d", liberr.MinPkgComponent))
	}
	liberr.RegisterIdFctMessage(liberr.MinPkgComponent, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case ErrorInvalidTransition:
		return "invalid component state transition"
	case ErrorUnknownPort:
		return "unknown port"
	case codeUnknownCommand:
		return "unknown command"
	case codeSpuriousWake:
		return "spurious wake: nil packet"
	}
	return liberr.NullMessage
}
