// Package port implements the named input/output attachment points on a
// process, and the bounded FIFO Connection that links one OutputPort to one
// InputPort. The two live in a single package because they reference each
// other directly (a Port owns a connection list, a Connection holds typed
// endpoint references) — splitting them would force an artificial
// interface boundary across what is really one concurrency primitive.
package port

import (
	"context"
	"reflect"
	"sync"

	"github.com/beerfactory/hbflow/internal/ident"
	"github.com/beerfactory/hbflow/packet"
)

// Owner is the minimal view of a process a Port needs: its display name,
// used only for log messages and string formatting.
type Owner interface {
	Name() string
}

// base holds the state shared by InputPort and OutputPort.
type base struct {
	ident.Object

	mu          sync.Mutex
	name        string
	owner       Owner
	description string
	displayName string
	connections []*Connection
	connected   chan struct{} // closed iff len(connections) > 0; swapped on each 0<->non-0 transition
}

func newBase(self interface{}, name string, owner Owner, description, displayName string) base {
	b := base{
		name:        name,
		owner:       owner,
		description: description,
		displayName: displayName,
		connected:   make(chan struct{}),
	}
	b.Object = ident.New(self, name)
	return b
}

// Name returns the port's name, unique within its owning component.
func (b *base) Name() string { return b.name }

// Owner returns the component this port belongs to.
func (b *base) Owner() Owner { return b.owner }

// Description returns the port's declared description, if any.
func (b *base) Description() string { return b.description }

// DisplayName returns the port's declared display name, if any.
func (b *base) DisplayName() string { return b.displayName }

// Connections returns a snapshot of the currently linked connections.
func (b *base) Connections() []*Connection {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Connection, len(b.connections))
	copy(out, b.connections)
	return out
}

// Connected returns a channel that is closed while this port has at least
// one linked connection (spec's connectedEvent). The channel is swapped on
// every 0<->non-0 transition, so callers must re-fetch it after each wait.
func (b *base) Connected() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func (b *base) isConnected() bool {
	select {
	case <-b.connected:
		return true
	default:
		return false
	}
}

// addConnection registers c and fires connectedEvent on the 0->1 transition.
func (b *base) addConnection(c *Connection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connections = append(b.connections, c)
	if len(b.connections) == 1 {
		close(b.connected)
	}
}

// removeConnection unregisters c and clears connectedEvent on the 1->0 transition.
func (b *base) removeConnection(c *Connection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, cc := range b.connections {
		if cc == c {
			b.connections = append(b.connections[:i], b.connections[i+1:]...)
			break
		}
	}
	if len(b.connections) == 0 {
		b.connected = make(chan struct{})
	}
}

// InputPort receives packets fanned in from zero or more linked connections.
type InputPort struct {
	base
}

// NewInput materializes an input port owned by owner.
func NewInput(name string, owner Owner, description, displayName string) *InputPort {
	p := &InputPort{}
	p.base = newBase(p, name, owner, description, displayName)
	return p
}

// ReadPacket blocks until a packet is available on any linked connection,
// returning the first one ready (spec §4.1/S6: no fairness guarantee across
// connections beyond Go's own pseudo-random select). With zero connections,
// including after every linked connection has been unlinked, ReadPacket
// blocks on the port's connectedEvent until one is linked or ctx is done.
// ok is false only together with ctx's error.
func (p *InputPort) ReadPacket(ctx context.Context) (pkt *packet.Packet, ok bool, err error) {
	for {
		conns := p.Connections()
		if len(conns) == 0 {
			select {
			case <-p.Connected():
				continue
			case <-ctx.Done():
				return nil, false, ctx.Err()
			}
		}

		cases := make([]reflect.SelectCase, 0, len(conns)+1)
		for _, c := range conns {
			cases = append(cases, reflect.SelectCase{
				Dir:  reflect.SelectRecv,
				Chan: reflect.ValueOf(c.ch),
			})
		}
		cases = append(cases, reflect.SelectCase{
			Dir:  reflect.SelectRecv,
			Chan: reflect.ValueOf(ctx.Done()),
		})

		chosen, recv, recvOK := reflect.Select(cases)
		if chosen == len(cases)-1 {
			return nil, false, ctx.Err()
		}
		if !recvOK {
			// That connection was unlinked and drained; retry against the
			// remaining set, which may itself now be empty.
			continue
		}
		return recv.Interface().(*packet.Packet), true, nil
	}
}

// OutputPort fans a packet out to every currently linked connection.
type OutputPort struct {
	base
}

// NewOutput materializes an output port owned by owner.
func NewOutput(name string, owner Owner, description, displayName string) *OutputPort {
	p := &OutputPort{}
	p.base = newBase(p, name, owner, description, displayName)
	return p
}

// SendPacket fans pkt out to every connection linked to this port, blocking
// until each has accepted it (or ctx is done). With zero connections this
// is a silent no-op (spec §4.1: an unconnected output never blocks its
// owner). With more than one connection, delivery to each is attempted
// concurrently so one slow/full downstream cannot head-of-line-block
// delivery to the others; SendPacket returns only once every connection has
// accepted the packet or the whole operation is cancelled.
func (p *OutputPort) SendPacket(ctx context.Context, pkt *packet.Packet) error {
	conns := p.Connections()
	if len(conns) == 0 {
		return nil
	}
	if len(conns) == 1 {
		return conns[0].Put(ctx, pkt)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(conns))
	for i, c := range conns {
		wg.Add(1)
		go func(i int, c *Connection) {
			defer wg.Done()
			errs[i] = c.Put(ctx, pkt)
		}(i, c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
