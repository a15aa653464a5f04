package engine

import (
	"context"

	"github.com/beerfactory/hbflow/component"
	"github.com/beerfactory/hbflow/internal/liblog"
	"github.com/beerfactory/hbflow/packet"
	"github.com/beerfactory/hbflow/port"
)

// ProcessManager is the distinguished built-in component every GraphEngine
// instantiates exactly once during bind (spec §4.4). Its command_out is
// wired to every other process's reserved _command_in; SendCommand
// broadcasts a CommandPacket to all of them at once. status_in is reserved
// for aggregating replies (SPEC_FULL.md §3.1: wired to a monitor.Pool when
// one is registered on the engine, otherwise left undriven).
type ProcessManager struct {
	component.Base

	CommandOut component.Out `flow:"name=command_out,description=lifecycle and user command broadcast"`
	StatusIn   component.In  `flow:"name=status_in,description=reserved status aggregation sink"`

	// onStatus is set during Bind, when a pool was registered through
	// RegisterMonitorPool, to fan status_in packets into that monitor.Pool;
	// nil means status_in is reserved-but-undriven (spec §9).
	onStatus func(process string, p *packet.Packet)
}

// newProcessManager builds the engine's ProcessManager. Not exposed through
// the registry: it is never referenced by name in a graph descriptor, only
// instantiated directly by bind's resolution algorithm step 4.
func newProcessManager(log liblog.Logger) *ProcessManager {
	pm := &ProcessManager{}
	pm.Init(pm, "ProcessManager", log)
	statusIn, _ := pm.InputPort("status_in")
	pm.WatchInputs(statusIn)
	return pm
}

// SendCommand broadcasts a CommandPacket to every process wired to
// command_out (spec §4.4).
func (pm *ProcessManager) SendCommand(ctx context.Context, name string, args interface{}) error {
	out, _ := pm.OutputPort("command_out")
	return out.SendPacket(ctx, packet.NewCommand(name, args))
}

// OnPacket handles status replies arriving on status_in. Base's dispatch
// loop only calls this for Data packets; a well-behaved reporter sends them
// via Base.ReportStatus, which wraps the payload in a component.StatusReport
// so the originating process can be attributed without per-connection
// introspection. A report with no registered pool, or one that isn't a
// StatusReport, is silently dropped.
func (pm *ProcessManager) OnPacket(ctx context.Context, in *port.InputPort, p *packet.Packet) {
	if pm.onStatus == nil {
		return
	}
	sr, ok := p.Payload().(component.StatusReport)
	if !ok {
		return
	}
	pm.onStatus(sr.Process, p)
}
