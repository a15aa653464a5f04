// Package component implements the Component/process runtime: port
// materialization from declared PortSpecs, the packet dispatch loop, the
// lifecycle state machine, and command-handler registration.
package component

import (
	"context"
	"fmt"

	"github.com/beerfactory/hbflow/internal/ident"
	"github.com/beerfactory/hbflow/internal/libctx"
	"github.com/beerfactory/hbflow/internal/liblog"
	"github.com/beerfactory/hbflow/packet"
	"github.com/beerfactory/hbflow/port"
)

// Reserved port names contributed by Base to every component (spec §3/§4.3).
const (
	PortCommandIn = "_command_in"
	PortLogOut    = "_log_out"
	PortStatusOut = "_status_out"
)

// Built-in commands serviced directly by Base (spec §6).
const (
	CommandStart    = "START"
	CommandStop     = "STOP"
	CommandShutdown = "SHUTDOWN"
)

// CommandHandler processes one CommandPacket's arguments.
type CommandHandler func(ctx context.Context, args interface{})

// PacketHandler is the onPacket extension point (spec §4.3). A component
// that embeds Base but does not implement PacketHandler gets Base's no-op
// default.
type PacketHandler interface {
	OnPacket(ctx context.Context, in *port.InputPort, p *packet.Packet)
}

// StartHook, StopHook and ShutdownHook are optional extension points invoked
// from within the corresponding built-in command handler, after the state
// machine has accepted the transition's leading trigger and before its
// closing one (start_ok/start_ko, the stop->stopped leg, and the
// stopped->shutdown leg, respectively).
type StartHook interface{ OnStart(ctx context.Context) error }
type StopHook interface{ OnStop(ctx context.Context) error }
type ShutdownHook interface{ OnShutdown(ctx context.Context) error }

// Base is embedded by every component implementation. It materializes ports
// from the embedding type's declared PortSpecs, runs the packet dispatch
// loop, and owns the lifecycle state machine.
type Base struct {
	ident.Object

	self interface{}
	log  liblog.Logger
	fsm  *fsm

	inputs   map[string]*port.InputPort
	outputs  map[string]*port.OutputPort
	watch    []*port.InputPort
	commands libctx.Config[string]

	cancel context.CancelFunc
}

// Init wires self's declared ports (reserved plus self's own PortSpecs),
// registers the built-in command handlers, and leaves the component in
// StateNew. Must be called once, from the embedding type's constructor,
// before the component is handed to the engine.
func (b *Base) Init(self interface{}, name string, log liblog.Logger) {
	b.self = self
	b.log = log
	b.fsm = newFSM(StateNew)
	b.inputs = make(map[string]*port.InputPort)
	b.outputs = make(map[string]*port.OutputPort)
	b.commands = libctx.New[string](nil)
	b.Object = ident.New(self, name)

	b.outputs[PortStatusOut] = port.NewOutput(PortStatusOut, b, "status reports", "")
	b.inputs[PortLogOut] = port.NewInput(PortLogOut, b, "reserved log sink, never driven by the engine", "")
	b.inputs[PortCommandIn] = port.NewInput(PortCommandIn, b, "lifecycle and user commands from the ProcessManager", "")
	b.watch = []*port.InputPort{b.inputs[PortCommandIn]}

	for _, spec := range PortSpecs(self) {
		if spec.ArraySize > 1 {
			panic(fmt.Errorf("component %s: port %q: array_size > 1 is not implemented, it is reserved for future indexed ports", name, spec.Name))
		}
		switch spec.Direction {
		case DirIn:
			b.inputs[spec.Name] = port.NewInput(spec.Name, b, spec.Description, spec.DisplayName)
		case DirOut:
			b.outputs[spec.Name] = port.NewOutput(spec.Name, b, spec.Description, spec.DisplayName)
		}
	}

	b.RegisterCommand(CommandStart, b.handleStart)
	b.RegisterCommand(CommandStop, b.handleStop)
	b.RegisterCommand(CommandShutdown, b.handleShutdown)
}

// InputPort looks up an input port by name, spec §4.3's inputPort(name).
func (b *Base) InputPort(name string) (*port.InputPort, bool) {
	p, ok := b.inputs[name]
	return p, ok
}

// OutputPort looks up an output port by name, spec §4.3's outputPort(name).
func (b *Base) OutputPort(name string) (*port.OutputPort, bool) {
	p, ok := b.outputs[name]
	return p, ok
}

// State returns the component's current lifecycle state.
func (b *Base) State() State { return b.fsm.Current() }

// WatchInputs adds ports to the set the dispatch loop selects across,
// beyond the always-watched _command_in (spec §4.3 step 1).
func (b *Base) WatchInputs(ports ...*port.InputPort) {
	b.watch = append(b.watch, ports...)
}

// RegisterCommand associates a command name with a handler, spec §4.3's
// "handler lookup is by command-name keyed registration."
func (b *Base) RegisterCommand(name string, h CommandHandler) {
	b.commands.Store(name, h)
}

// Logger returns the component's structured logger.
func (b *Base) Logger() liblog.Logger { return b.log }

// StatusReport is the payload convention ReportStatus wraps onto
// _status_out, carrying the reporting process's own name alongside the
// caller's payload so a status_in aggregator (see engine.ProcessManager /
// monitor.Pool) can attribute the report without per-connection
// introspection.
type StatusReport struct {
	Process string
	Payload interface{}
}

// ReportStatus sends payload out on _status_out wrapped in a StatusReport.
// A component with nothing wired to _status_out pays only the cost of a
// no-op fan-out (port §4.1).
func (b *Base) ReportStatus(ctx context.Context, payload interface{}) error {
	out := b.outputs[PortStatusOut]
	return out.SendPacket(ctx, packet.NewData(StatusReport{Process: b.Name(), Payload: payload}))
}

func (b *Base) handleStart(ctx context.Context, _ interface{}) {
	if err := b.fsm.fire(TriggerStart); err != nil {
		b.log.Error("cannot start", liblog.Fields{"state": b.State().String()})
		return
	}
	var startErr error
	if h, ok := b.self.(StartHook); ok {
		startErr = h.OnStart(ctx)
	}
	if startErr != nil {
		b.log.Error("start hook failed", liblog.Fields{"error": startErr.Error()})
		_ = b.fsm.fire(TriggerStartKO)
		return
	}
	_ = b.fsm.fire(TriggerStartOK)
}

func (b *Base) handleStop(ctx context.Context, _ interface{}) {
	if err := b.fsm.fire(TriggerStop); err != nil {
		b.log.Error("cannot stop", liblog.Fields{"state": b.State().String()})
		return
	}
	if h, ok := b.self.(StopHook); ok {
		if err := h.OnStop(ctx); err != nil {
			b.log.Error("stop hook failed", liblog.Fields{"error": err.Error()})
		}
	}
	if b.cancel != nil {
		b.cancel()
	}
	_ = b.fsm.fire(TriggerStop)
}

func (b *Base) handleShutdown(ctx context.Context, _ interface{}) {
	if err := b.Shutdown(ctx); err != nil {
		b.log.Error("cannot shutdown", liblog.Fields{"state": b.State().String()})
	}
}

// Shutdown fires the stopped->shutdown transition directly. Unlike START and
// STOP, SHUTDOWN is not guaranteed delivery over _command_in: the dispatch
// loop has already exited by the time a process reaches StateStopped, so
// the engine calls Shutdown directly on every process during its own
// shutdown sequence (SPEC_FULL.md §9 "re-binding") rather than broadcasting
// a CommandPacket nobody is left watching for.
func (b *Base) Shutdown(ctx context.Context) error {
	if h, ok := b.self.(ShutdownHook); ok {
		if err := h.OnShutdown(ctx); err != nil {
			b.log.Error("shutdown hook failed", liblog.Fields{"error": err.Error()})
		}
	}
	return b.fsm.fire(TriggerShutdown)
}
