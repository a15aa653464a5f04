package port

import (
	"context"
	"fmt"
	"sync"

	"github.com/beerfactory/hbflow/internal/ident"
	"github.com/beerfactory/hbflow/internal/liberr"
	"github.com/beerfactory/hbflow/packet"
)

// state is the Connection lifecycle: New -> Linked -> Unlinked. Unlinked is
// terminal; a Connection is never reused once unlinked, matching the
// engine's re-binding semantics of discarding and rebuilding its connection
// set on every InitFromDescriptor (see SPEC_FULL.md §9).
type state uint8

const (
	stateNew state = iota
	stateLinked
	stateUnlinked
)

func (s state) String() string {
	switch s {
	case stateNew:
		return "new"
	case stateLinked:
		return "linked"
	case stateUnlinked:
		return "unlinked"
	}
	return "unknown"
}

// trigger table: trigger[current] = next, absent entries are refused.
var connTransitions = map[state]state{
	stateNew:    stateLinked,
	stateLinked: stateUnlinked,
}

// Connection is a bounded, single-producer/single-consumer FIFO between one
// OutputPort and one InputPort, backed by a buffered channel of the
// configured capacity.
type Connection struct {
	ident.Object

	// mu guards st/source/target/ch. Put holds a read lock for the whole
	// duration of its blocking send so a concurrent Unlink (which takes the
	// write lock before closing ch) cannot close the channel out from under
	// an in-flight send: RWMutex's Lock() waits out every held RLock first.
	mu       sync.RWMutex
	st       state
	capacity int
	source   *OutputPort
	target   *InputPort
	ch       chan *packet.Packet
}

// NewConnection allocates an unlinked Connection with the given capacity.
// capacity must be >= 1 (spec §4.2); violating this returns
// ErrorInvalidCapacity instead of panicking, since capacity typically comes
// from a parsed graph descriptor rather than a programming constant.
func NewConnection(name string, capacity int) (*Connection, error) {
	if capacity < 1 {
		return nil, ErrorInvalidCapacity.Error()
	}
	c := &Connection{st: stateNew, capacity: capacity}
	c.Object = ident.New(c, name)
	return c, nil
}

// Capacity returns the connection's configured queue depth.
func (c *Connection) Capacity() int { return c.capacity }

// Source returns the linked OutputPort, or nil before Link.
func (c *Connection) Source() *OutputPort { return c.source }

// Target returns the linked InputPort, or nil before Link.
func (c *Connection) Target() *InputPort { return c.target }

func (c *Connection) fire(next state) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if connTransitions[c.st] != next {
		return ErrorInvalidTransition.Error()
	}
	c.st = next
	return nil
}

// Link attaches this connection between out and in, allocating its backing
// channel and registering itself on both ports' connection lists. Link may
// only be called once, from the New state.
func (c *Connection) Link(out *OutputPort, in *InputPort) error {
	c.mu.Lock()
	if c.st != stateNew {
		c.mu.Unlock()
		return ErrorInvalidTransition.Error()
	}
	c.st = stateLinked
	c.source = out
	c.target = in
	c.ch = make(chan *packet.Packet, c.capacity)
	c.mu.Unlock()

	out.addConnection(c)
	in.addConnection(c)
	return nil
}

// Unlink detaches the connection from both endpoints and closes its
// channel. Any packet still queued is dropped: callers that need graceful
// drain must read it down to empty before calling Unlink. Safe against a
// racing Put: fire's exclusive lock acquisition for the Linked->Unlinked
// transition waits out any Put currently holding the read lock across its
// blocking send, so the channel is never closed while a send is in flight,
// and any Put that starts afterward sees the new state before touching ch.
func (c *Connection) Unlink() error {
	if err := c.fire(stateUnlinked); err != nil {
		return err
	}
	if c.source != nil {
		c.source.removeConnection(c)
	}
	if c.target != nil {
		c.target.removeConnection(c)
	}
	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()
	close(ch)
	return nil
}

func (c *Connection) isLinked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.st == stateLinked
}

// Put enqueues p, blocking until the connection has room or ctx is done.
// Put on a connection not in the Linked state fails immediately with
// ErrorNotLinked. The read lock is held for the whole blocking send so a
// concurrent Unlink cannot close ch between the state check and the send.
func (c *Connection) Put(ctx context.Context, p *packet.Packet) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.st != stateLinked {
		return ErrorNotLinked.Error()
	}
	select {
	case c.ch <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get dequeues the next packet, blocking until one arrives, the connection
// is unlinked, or ctx is done. ok is false when the connection was unlinked
// with an empty queue.
func (c *Connection) Get(ctx context.Context) (p *packet.Packet, ok bool, err error) {
	if !c.isLinked() {
		return nil, false, ErrorNotLinked.Error()
	}
	select {
	case p, ok = <-c.ch:
		return p, ok, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (c *Connection) String() string {
	src, tgt := "?", "?"
	if c.source != nil {
		src = fmt.Sprintf("%s.%s", c.source.Owner().Name(), c.source.Name())
	}
	if c.target != nil {
		tgt = fmt.Sprintf("%s.%s", c.target.Owner().Name(), c.target.Name())
	}
	return fmt.Sprintf("Connection(%s -> %s, cap=%d)", src, tgt, c.capacity)
}
