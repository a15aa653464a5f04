package engine_test

import (
	"context"
	"sync/atomic"

	"github.com/beerfactory/hbflow/component"
	"github.com/beerfactory/hbflow/internal/liblog"
	"github.com/beerfactory/hbflow/packet"
	"github.com/beerfactory/hbflow/port"
	"github.com/beerfactory/hbflow/registry"
)

// source and sink are a minimal pair of test components registered under
// "builtins.Source"/"builtins.Sink", exercising scenarios S1-S4.

type source struct {
	component.Base
	Out component.Out `flow:"name=out"`

	starts int32
}

func newSource(name string) (component.Component, error) {
	s := &source{}
	s.Init(s, name, liblog.New())
	return s, nil
}

func (s *source) OnStart(ctx context.Context) error {
	atomic.AddInt32(&s.starts, 1)
	return nil
}

type sink struct {
	component.Base
	In component.In `flow:"name=in"`

	received int32
}

func newSink(name string) (component.Component, error) {
	s := &sink{}
	s.Init(s, name, liblog.New())
	in, _ := s.InputPort("in")
	s.WatchInputs(in)
	return s, nil
}

func (s *sink) OnPacket(ctx context.Context, in *port.InputPort, p *packet.Packet) {
	atomic.AddInt32(&s.received, 1)
}

func newTestRegistry() registry.Registry {
	r := registry.New()
	r.Register("builtins.Source", newSource)
	r.Register("builtins.Sink", newSink)
	return r
}

// countingStarter counts how many times its START handler fires, used by S4.
type countingStarter struct {
	component.Base
	starts int32
}

func newCountingStarter(name string) (component.Component, error) {
	c := &countingStarter{}
	c.Init(c, name, liblog.New())
	return c, nil
}

func (c *countingStarter) OnStart(ctx context.Context) error {
	atomic.AddInt32(&c.starts, 1)
	return nil
}
