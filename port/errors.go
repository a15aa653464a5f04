package port

import (
	"fmt"

	"github.com/beerfactory/hbflow/internal/liberr"
)

// Connection error codes. Port itself raises none: reading with no
// connections blocks (spec §4.1) rather than failing, and sending through
// an unconnected output is a silent no-op.
const (
	// ErrorInvalidCapacity: a connection was constructed or linked with a
	// non-positive capacity (spec §4.2: "A zero or negative capacity is
	// rejected at link time").
	ErrorInvalidCapacity liberr.CodeError = iota + liberr.MinPkgConnection
	// ErrorNotLinked: put/get attempted outside the Linked state.
	ErrorNotLinked
	// ErrorInvalidTransition: a state trigger invalid for the current state.
	ErrorInvalidTransition
)

func init() {
	if liberr.ExistInMapMessage(liberr.MinPkgConnection) {
		panic(fmt.Errorf("port: error code collision on range %d", liberr.MinPkgConnection))
	}
	liberr.RegisterIdFctMessage(liberr.MinPkgConnection, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case ErrorInvalidCapacity:
		return "connection capacity must be >= 1"
	case ErrorNotLinked:
		return "connection is not in the linked state"
	case ErrorInvalidTransition:
		return "invalid connection state transition"
	}
	return liberr.NullMessage
}
