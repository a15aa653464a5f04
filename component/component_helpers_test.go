package component_test

import (
	"context"

	"github.com/beerfactory/hbflow/component"
	"github.com/beerfactory/hbflow/internal/liblog"
	"github.com/beerfactory/hbflow/packet"
	"github.com/beerfactory/hbflow/port"
)

type fakeSource string

func (f fakeSource) Name() string { return string(f) }

// linkCommand attaches a fresh OutputPort, standing in for a ProcessManager,
// to target's _command_in and returns the connection so tests can Put
// CommandPackets directly.
func linkCommand(target interface {
	InputPort(name string) (*port.InputPort, bool)
}) *port.Connection {
	out := port.NewOutput("command_out", fakeSource("test-pm"), "", "")
	in, _ := target.InputPort(component.PortCommandIn)
	c, err := port.NewConnection("cmd", 4)
	if err != nil {
		panic(err)
	}
	if err := c.Link(out, in); err != nil {
		panic(err)
	}
	return c
}

func linkData(owner interface{}, in *port.InputPort) *port.Connection {
	out := port.NewOutput("src_out", fakeSource("test-src"), "", "")
	c, err := port.NewConnection("data", 4)
	if err != nil {
		panic(err)
	}
	if err := c.Link(out, in); err != nil {
		panic(err)
	}
	return c
}

// panicker watches one extra input and panics inside OnPacket, exercising
// the dispatch loop's recover-and-continue behavior (spec §7).
type panicker struct {
	component.Base

	In component.In `flow:"name=in"`
}

func newPanicker(name string) *panicker {
	p := &panicker{}
	p.Init(p, name, liblog.New())
	in, _ := p.InputPort("in")
	p.WatchInputs(in)
	return p
}

func (p *panicker) OnPacket(ctx context.Context, in *port.InputPort, pkt *packet.Packet) {
	panic("boom")
}
