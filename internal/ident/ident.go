// Package ident provides the IdentifiableObject mixin shared by every core
// entity: a globally unique id plus a per-concrete-type monotonic sequence
// number used to derive a default human-readable name.
package ident

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-uuid"
)

// counters holds one atomic sequence per concrete type, keyed by
// reflect.Type so that subclasses (embedding Object under a different
// concrete type) do not share a counter with their base.
var counters sync.Map // map[reflect.Type]*uint64

func nextSeq(t reflect.Type) uint64 {
	v, _ := counters.LoadOrStore(t, new(uint64))
	c := v.(*uint64)
	return atomic.AddUint64(c, 1)
}

// Object is embedded by every core entity (Packet, Port, Connection,
// Component, Graph, GraphEngine) to provide identity semantics.
type Object struct {
	id   string
	name string
	seq  uint64
}

// New creates an Object for the concrete type of self (pass the embedding
// instance; New derives its type with reflect.TypeOf, dereferencing
// pointers) with an optional explicit name. When name is empty, the default "<TypeName>_<seq>" is derived.
func New(self interface{}, name string) Object {
	t := reflect.TypeOf(self)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	seq := nextSeq(t)

	id, err := uuid.GenerateUUID()
	if err != nil {
		// uuid.GenerateUUID only fails if crypto/rand is broken; there is
		// no sane recovery path for a core identity allocator.
		panic(fmt.Errorf("ident: failed to generate uuid: %w", err))
	}

	if name == "" {
		name = fmt.Sprintf("%s_%d", t.Name(), seq)
	}

	return Object{id: id, name: name, seq: seq}
}

// ID returns the object's globally unique identifier.
func (o Object) ID() string { return o.id }

// Name returns the object's human-readable name.
func (o Object) Name() string { return o.name }

// Seq returns the object's per-type sequence number.
func (o Object) Seq() uint64 { return o.seq }
