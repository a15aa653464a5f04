// Package registry implements the external ComponentRegistry contract
// (spec §2/§6): resolving a textual "module.Class" component name to a
// Constructor. The source resolves names via Python's importlib; Go has no
// dynamic import, so components self-register into a package-level
// Registry from an init() function — the static analogue spec.md §9
// explicitly allows ("code-generation / annotation step that produces the
// per-class port registry at compile time" generalizes to static
// self-registration for the whole component, not just its ports).
package registry

import (
	"strings"
	"sync"

	"github.com/beerfactory/hbflow/component"
)

// Registry resolves a component name to its Constructor.
type Registry interface {
	Register(fullName string, ctor component.Constructor)
	Resolve(fullName string) (component.Constructor, error)
}

type registry struct {
	mu      sync.RWMutex
	ctors   map[string]component.Constructor
	modules map[string]bool
}

// New returns an empty Registry. Most callers use the package-level default
// instance via Register/Resolve instead of constructing their own, but a
// host program that wants isolated test registries can call New directly.
func New() Registry {
	return &registry{
		ctors:   make(map[string]component.Constructor),
		modules: make(map[string]bool),
	}
}

func (r *registry) Register(fullName string, ctor component.Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[fullName] = ctor
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		r.modules[fullName[:i]] = true
	}
}

func (r *registry) Resolve(fullName string) (component.Constructor, error) {
	i := strings.LastIndex(fullName, ".")
	if i <= 0 || i == len(fullName)-1 {
		return nil, ErrorMalformedName.Error()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if ctor, ok := r.ctors[fullName]; ok {
		return ctor, nil
	}
	if !r.modules[fullName[:i]] {
		return nil, ErrorModuleNotFound.Error()
	}
	return nil, ErrorClassNotFound.Error()
}

var defaultRegistry = New()

// Default returns the process-wide registry components self-register into.
func Default() Registry { return defaultRegistry }

// Register adds ctor to the default registry under fullName. Components
// call this from an init() function, e.g.:
//
//	func init() { registry.Register("builtins.Source", NewSource) }
func Register(fullName string, ctor component.Constructor) {
	defaultRegistry.Register(fullName, ctor)
}

// Resolve looks fullName up in the default registry.
func Resolve(fullName string) (component.Constructor, error) {
	return defaultRegistry.Resolve(fullName)
}
