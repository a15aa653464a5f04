// Package packet defines the opaque message unit that flows over
// connections: DataPacket carries an arbitrary payload, CommandPacket
// carries a lifecycle or user command name plus optional arguments.
package packet

import (
	"fmt"

	"github.com/beerfactory/hbflow/internal/ident"
)

// Kind discriminates the two Packet variants.
type Kind uint8

const (
	// Data packets carry an arbitrary payload between user components.
	Data Kind = iota
	// Command packets carry a lifecycle or user-defined command name.
	Command
)

func (k Kind) String() string {
	if k == Command {
		return "command"
	}
	return "data"
}

// Packet is immutable after construction: NewData and NewCommand are the
// only constructors. Ownership transfers along the connection the packet
// travels: the sender relinquishes its reference on enqueue.
type Packet struct {
	ident.Object

	kind    Kind
	payload interface{}
	command string
	args    interface{}
}

// NewData builds a Data packet carrying payload.
func NewData(payload interface{}) *Packet {
	p := &Packet{kind: Data, payload: payload}
	p.Object = ident.New(p, "")
	return p
}

// NewCommand builds a Command packet. command must be non-empty: this is
// the packet invariant from spec §3.
func NewCommand(command string, args interface{}) *Packet {
	if command == "" {
		panic(fmt.Errorf("packet: command packet requires a non-empty command name"))
	}
	p := &Packet{kind: Command, command: command, args: args}
	p.Object = ident.New(p, "")
	return p
}

// Kind returns whether this is a Data or Command packet.
func (p *Packet) Kind() Kind { return p.kind }

// IsCommand reports whether this packet is a CommandPacket.
func (p *Packet) IsCommand() bool { return p.kind == Command }

// Payload returns the Data packet's payload (nil for Command packets).
func (p *Packet) Payload() interface{} { return p.payload }

// Command returns the Command packet's command name (empty for Data packets).
func (p *Packet) Command() string { return p.command }

// Args returns the Command packet's optional arguments.
func (p *Packet) Args() interface{} { return p.args }

func (p *Packet) String() string {
	if p.IsCommand() {
		return fmt.Sprintf("CommandPacket(%s, command=%s)", p.Name(), p.command)
	}
	return fmt.Sprintf("DataPacket(%s)", p.Name())
}
