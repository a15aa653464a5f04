package engine

import (
	"fmt"

	"github.com/beerfactory/hbflow/internal/liberr"
)

// EngineException: an invalid lifecycle operation for the engine's current
// state (spec §7), e.g. calling Bind while Running.
const (
	ErrorInvalidOperation liberr.CodeError = iota + liberr.MinPkgEngine
)

func init() {
	if liberr.ExistInMapMessage(liberr.MinPkgEngine) {
		panic(fmt.Errorf("engine: error code collision on range %d", liberr.MinPkgEngine))
	}
	liberr.RegisterIdFctMessage(liberr.MinPkgEngine, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case ErrorInvalidOperation:
		return "invalid operation for the engine's current state"
	}
	return liberr.NullMessage
}
