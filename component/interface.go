package component

import (
	"context"

	"github.com/beerfactory/hbflow/port"
)

// Component is the contract the registry and engine depend on. *Base
// satisfies it once embedded and Init'd; user components never need to
// implement it by hand.
type Component interface {
	Name() string
	InputPort(name string) (*port.InputPort, bool)
	OutputPort(name string) (*port.OutputPort, bool)
	State() State
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// Constructor builds a fresh process instance named name. Registered
// components expose one of these to the registry at init() time.
type Constructor func(name string) (Component, error)
