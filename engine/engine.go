// Package engine implements GraphEngine: binding a graph.Graph descriptor
// into a live process network, wiring the ProcessManager, and driving
// global lifecycle (spec §4.5).
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/beerfactory/hbflow/component"
	"github.com/beerfactory/hbflow/graph"
	"github.com/beerfactory/hbflow/internal/ident"
	"github.com/beerfactory/hbflow/internal/libctx"
	"github.com/beerfactory/hbflow/internal/liblog"
	"github.com/beerfactory/hbflow/monitor"
	"github.com/beerfactory/hbflow/packet"
	"github.com/beerfactory/hbflow/port"
	"github.com/beerfactory/hbflow/registry"
)

// commandConnCapacity is the fixed capacity of every command connection the
// engine wires from the ProcessManager to a process's _command_in (spec
// §4.4: "capacity 1").
const commandConnCapacity = 1

// GraphEngine turns a Graph descriptor into a live process network and
// drives its lifecycle.
type GraphEngine struct {
	ident.Object

	fsm *fsm
	log liblog.Logger
	reg registry.Registry

	mu          sync.Mutex
	processes   libctx.Config[string]
	connections libctx.Config[string]
	pm          *ProcessManager
	runCancel   context.CancelFunc
	pool        monitor.Pool
}

// New returns an engine in StateNew, resolving component names against reg
// (registry.Default() if nil).
func New(name string, log liblog.Logger, reg registry.Registry) *GraphEngine {
	if reg == nil {
		reg = registry.Default()
	}
	e := &GraphEngine{
		fsm:         newFSM(StateNew),
		log:         log,
		reg:         reg,
		processes:   libctx.New[string](nil),
		connections: libctx.New[string](nil),
	}
	e.Object = ident.New(e, name)
	return e
}

// State returns the engine's current lifecycle state.
func (e *GraphEngine) State() State { return e.fsm.Current() }

func emptyConfig() libctx.Config[string] { return libctx.New[string](nil) }

// RegisterMonitorPool wires a monitor.Pool to the ProcessManager's
// status_in, resolving SPEC_FULL.md §3.1. Must be called before Bind.
func (e *GraphEngine) RegisterMonitorPool(p monitor.Pool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pool = p
}

// Processes returns a snapshot of the bound process set, keyed by process
// name.
func (e *GraphEngine) Processes() map[string]component.Component {
	out := make(map[string]component.Component)
	e.processes.Walk(func(name string, v interface{}) bool {
		out[name] = v.(component.Component)
		return true
	})
	return out
}

// Connections returns a snapshot of the bound connection set, keyed by
// connection name (including the synthesized command connections).
func (e *GraphEngine) Connections() map[string]*port.Connection {
	out := make(map[string]*port.Connection)
	e.connections.Walk(func(name string, v interface{}) bool {
		out[name] = v.(*port.Connection)
		return true
	})
	return out
}

// InitFromDescriptor decodes m into a graph.Graph and binds it (spec
// §4.5's "convenience that constructs a Graph descriptor ... and calls
// bind").
func (e *GraphEngine) InitFromDescriptor(m map[string]interface{}) error {
	g, err := graph.FromMap(m)
	if err != nil {
		return err
	}
	return e.Bind(g)
}

// Bind resolves g into a live process network (spec §4.5 resolution
// algorithm). Valid only from StateNew, StateShutdown or StateUnresolved (a
// retry after a failed bind); on any failure the
// engine lands in StateUnresolved with empty process/connection maps
// (atomic from the caller's perspective, spec §7/invariant 6).
func (e *GraphEngine) Bind(g *graph.Graph) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cur := e.fsm.Current(); cur != StateNew && cur != StateShutdown && cur != StateUnresolved {
		return ErrorInvalidOperation.Error(fmt.Errorf("bind: invalid from state %s", cur))
	}

	processes := libctx.New[string](nil)
	connections := libctx.New[string](nil)

	if err := e.instantiateProcesses(g, processes); err != nil {
		_ = e.fsm.fire(TriggerUnresolve)
		return err
	}
	if err := e.linkConnections(g, processes, connections); err != nil {
		_ = e.fsm.fire(TriggerUnresolve)
		return err
	}
	pm, err := e.wireProcessManager(processes, connections)
	if err != nil {
		_ = e.fsm.fire(TriggerUnresolve)
		return err
	}

	if err := e.fsm.fire(TriggerResolve); err != nil {
		return err
	}
	e.processes = processes
	e.connections = connections
	e.pm = pm
	return nil
}

func (e *GraphEngine) instantiateProcesses(g *graph.Graph, processes libctx.Config[string]) error {
	for _, name := range g.ProcessNames {
		desc := g.Processes[name]
		if _, exists := processes.Load(desc.ProcessName); exists {
			return graph.ErrorDuplicateProcessName.Error(fmt.Errorf("process %q", desc.ProcessName))
		}
		ctor, err := e.reg.Resolve(desc.ClassName)
		if err != nil {
			return graph.ErrorInstantiationFailed.Error(err)
		}
		proc, err := ctor(desc.ProcessName)
		if err != nil {
			return graph.ErrorInstantiationFailed.Error(err)
		}
		if desc.Group != "" {
			e.log.Warn("process group is not implemented", liblog.Fields{"process": desc.ProcessName, "group": desc.Group})
		}
		processes.Store(desc.ProcessName, proc)
	}
	return nil
}

func (e *GraphEngine) linkConnections(g *graph.Graph, processes, connections libctx.Config[string]) error {
	for _, name := range g.ConnectionNames {
		desc := g.Connections[name]

		srcProc, ok := processes.Load(desc.Source.Process)
		if !ok {
			return graph.ErrorUnknownProcess.Error(fmt.Errorf("process %q", desc.Source.Process))
		}
		tgtProc, ok := processes.Load(desc.Target.Process)
		if !ok {
			return graph.ErrorUnknownProcess.Error(fmt.Errorf("process %q", desc.Target.Process))
		}

		srcOut, ok := srcProc.(component.Component).OutputPort(desc.Source.Port)
		if !ok {
			return graph.ErrorUnknownPort.Error(fmt.Errorf("process %q has no output port %q", desc.Source.Process, desc.Source.Port))
		}
		tgtIn, ok := tgtProc.(component.Component).InputPort(desc.Target.Port)
		if !ok {
			return graph.ErrorUnknownPort.Error(fmt.Errorf("process %q has no input port %q", desc.Target.Process, desc.Target.Port))
		}

		conn, err := port.NewConnection(desc.ConnectionName, desc.Capacity)
		if err != nil {
			return graph.ErrorInvalidCapacity.Error(err)
		}
		if err := conn.Link(srcOut, tgtIn); err != nil {
			return graph.ErrorInvalidCapacity.Error(err)
		}
		connections.Store(desc.ConnectionName, conn)
	}
	return nil
}

func (e *GraphEngine) wireProcessManager(processes, connections libctx.Config[string]) (*ProcessManager, error) {
	pm := newProcessManager(e.log)
	if pool := e.pool; pool != nil {
		pm.onStatus = func(process string, p *packet.Packet) { pool.Record(process, p) }
	}

	var wireErr error
	processes.Walk(func(name string, v interface{}) bool {
		proc := v.(component.Component)

		cmdOut, _ := pm.OutputPort("command_out")
		cmdIn, _ := proc.InputPort(component.PortCommandIn)
		cmdConn, err := port.NewConnection(fmt.Sprintf("_cmd_%s", name), commandConnCapacity)
		if err != nil {
			wireErr = graph.ErrorInstantiationFailed.Error(err)
			return false
		}
		if err := cmdConn.Link(cmdOut, cmdIn); err != nil {
			wireErr = graph.ErrorInstantiationFailed.Error(err)
			return false
		}
		connections.Store(cmdConn.Name(), cmdConn)

		if e.pool == nil {
			// No monitor.Pool registered: status_in stays reserved-but-
			// undriven (spec §9), and the connection count matches
			// spec.md §8 S1 exactly (one command connection per process).
			return true
		}
		statusOut, ok := proc.OutputPort(component.PortStatusOut)
		if !ok {
			return true
		}
		statusIn, _ := pm.InputPort("status_in")
		statusConn, err := port.NewConnection(fmt.Sprintf("_status_%s", name), commandConnCapacity)
		if err != nil {
			wireErr = graph.ErrorInstantiationFailed.Error(err)
			return false
		}
		if err := statusConn.Link(statusOut, statusIn); err != nil {
			wireErr = graph.ErrorInstantiationFailed.Error(err)
			return false
		}
		connections.Store(statusConn.Name(), statusConn)
		return true
	})
	if wireErr != nil {
		return nil, wireErr
	}
	return pm, nil
}
