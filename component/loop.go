package component

import (
	"context"
	"sync"

	"github.com/beerfactory/hbflow/internal/liblog"
	"github.com/beerfactory/hbflow/packet"
	"github.com/beerfactory/hbflow/port"
)

type arrival struct {
	port *port.InputPort
	pkt  *packet.Packet
}

// Run drives the packet dispatch loop for the process's lifetime (spec
// §4.3). It blocks until ctx is cancelled or the component reaches
// StateStopped (after STOP, or a failed START) or StateShutdown. One
// dedicated goroutine per watched
// input port forwards whatever it reads into a single fan-in channel that
// the loop selects on; each port therefore has exactly one reader at a
// time, so concurrent watches never race for the same packet — only the
// union is raced across, matching the first-ready selection the spec asks
// for at the port level (§4.1) generalized here to the port *set* a
// component watches.
func (b *Base) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	defer cancel()

	in := make(chan arrival)
	var wg sync.WaitGroup
	for _, p := range b.watch {
		wg.Add(1)
		go func(p *port.InputPort) {
			defer wg.Done()
			for {
				pkt, ok, err := p.ReadPacket(ctx)
				if err != nil {
					return
				}
				if !ok {
					return
				}
				select {
				case in <- arrival{port: p, pkt: pkt}:
				case <-ctx.Done():
					return
				}
			}
		}(p)
	}
	defer wg.Wait()

	for {
		// The run/wait bracketing below models "waiting: blocked on
		// readPacket" / "running: actively processing a packet" (spec
		// §4.3), but both triggers are only valid once the process has
		// completed its start handshake and reached idle. Before that
		// (new/starting, still waiting for its first START) the process
		// reads and dispatches unbracketed: handleStart itself drives
		// new->starting->idle (or ->stopped on failure) from inside
		// dispatch, below.
		bracket := b.State() == StateIdle || b.State() == StateWaiting
		if bracket {
			if err := b.fsm.fire(TriggerRun); err != nil {
				return
			}
			if err := b.fsm.fire(TriggerWait); err != nil {
				return
			}
		}

		var a arrival
		var ok bool
		select {
		case a, ok = <-in:
		case <-ctx.Done():
			return
		}
		if !ok {
			return
		}

		if bracket {
			if err := b.fsm.fire(TriggerRun); err != nil {
				return
			}
		}

		if a.pkt == nil {
			b.log.Warn("spurious wake", liblog.Fields{"code": codeSpuriousWake.String()})
			if bracket {
				if err := b.fsm.fire(TriggerIdle); err != nil {
					return
				}
			}
			continue
		}

		b.dispatch(ctx, a.port, a.pkt)

		if b.State() == StateRunning {
			if err := b.fsm.fire(TriggerIdle); err != nil {
				return
			}
		}
		if cur := b.State(); cur == StateStopped || cur == StateShutdown {
			return
		}
	}
}

// dispatch routes one packet to its command handler or onPacket, recovering
// from any panic so a misbehaving handler cannot kill the process task
// (spec §7).
func (b *Base) dispatch(ctx context.Context, in *port.InputPort, p *packet.Packet) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("packet handler panic", liblog.Fields{"recovered": r})
		}
	}()

	if !p.IsCommand() {
		if h, ok := b.self.(PacketHandler); ok {
			h.OnPacket(ctx, in, p)
		}
		return
	}

	v, ok := b.commands.Load(p.Command())
	if !ok {
		b.log.Warn("unknown command", liblog.Fields{"command": p.Command(), "code": codeUnknownCommand.String()})
		return
	}
	v.(CommandHandler)(ctx, p.Args())
}
