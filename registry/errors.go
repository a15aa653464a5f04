package registry

import (
	"fmt"

	"github.com/beerfactory/hbflow/internal/liberr"
)

// ComponentResolutionError codes (spec §7): the registry differentiates a
// malformed name, a missing module, and a missing class within a module.
const (
	ErrorMalformedName liberr.CodeError = iota + liberr.MinPkgRegistry
	ErrorModuleNotFound
	ErrorClassNotFound
)

func init() {
	if liberr.ExistInMapMessage(liberr.MinPkgRegistry) {
		panic(fmt.Errorf("registry: error code collision on range %d", liberr.MinPkgRegistry))
	}
	liberr.RegisterIdFctMessage(liberr.MinPkgRegistry, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case ErrorMalformedName:
		return "component name is malformed, expected \"module.Class\""
	case ErrorModuleNotFound:
		return "component module not registered"
	case ErrorClassNotFound:
		return "component class not found within module"
	}
	return liberr.NullMessage
}
