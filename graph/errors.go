package graph

import (
	"fmt"

	"github.com/beerfactory/hbflow/internal/liberr"
)

// GraphException codes (spec §7): malformed descriptor maps caught while
// decoding, before the engine ever attempts to resolve the graph.
const (
	ErrorMissingComponent liberr.CodeError = iota + liberr.MinPkgGraph
	ErrorMissingEndpointField
	ErrorDuplicateProcessName
	ErrorDuplicateConnectionName
	// The remaining codes are for the engine to raise during bind (they need
	// a live process/port set to detect) but belong to the GraphException
	// taxonomy, so their range lives here alongside the decode-time codes.
	// ErrorAmbiguousProcessName is not raised anywhere: processes are keyed
	// by unique name, and a repeated name is reported as
	// ErrorDuplicateProcessName.
	ErrorUnknownProcess
	ErrorUnknownPort
	ErrorAmbiguousProcessName
	ErrorInvalidCapacity
	ErrorInstantiationFailed
)

func init() {
	if liberr.ExistInMapMessage(liberr.MinPkgGraph) {
		panic(fmt.Errorf("graph: error code collision on range %d", liberr.MinPkgGraph))
	}
	liberr.RegisterIdFctMessage(liberr.MinPkgGraph, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case ErrorMissingComponent:
		return "process descriptor is missing its component name"
	case ErrorMissingEndpointField:
		return "connection descriptor is missing a required endpoint field"
	case ErrorDuplicateProcessName:
		return "duplicate process name"
	case ErrorDuplicateConnectionName:
		return "duplicate connection name"
	case ErrorUnknownProcess:
		return "connection references an unknown process"
	case ErrorUnknownPort:
		return "connection references an unknown port"
	case ErrorAmbiguousProcessName:
		return "ambiguous process name"
	case ErrorInvalidCapacity:
		return "invalid connection capacity"
	case ErrorInstantiationFailed:
		return "component instantiation failed"
	}
	return liberr.NullMessage
}
