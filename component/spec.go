package component

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Direction discriminates the two PortSpec kinds.
type Direction uint8

const (
	DirIn Direction = iota
	DirOut
)

func (d Direction) String() string {
	if d == DirOut {
		return "out"
	}
	return "in"
}

// PortSpec is the declared shape of one port: name, direction, and the
// optional description/displayName/arraySize metadata spec.md §9 calls the
// "port marker" (design note (a): "given a component type, the set of port
// names and their (direction, description, displayName, arraySize) is known
// before any instance exists").
type PortSpec struct {
	Name        string
	Direction   Direction
	Description string
	DisplayName string
	// ArraySize is reserved (spec.md §9 "array_size" open question, resolved
	// in SPEC_FULL.md §9: values > 1 are rejected, indexed port arrays are
	// not implemented).
	ArraySize int
}

// In is embedded as a zero-size field on a component struct to declare an
// input port; Out does the same for an output port. Both are scanned by
// PortSpecs via reflection, the statically-typed analogue of the source's
// class-attribute IN(...)/OUT(...) markers. Tag format:
//
//	Foo component.In `flow:"name=foo,description=...,displayName=...,arraySize=1"`
//
// A bare `flow:"name"` (no '=') is shorthand for the port name alone.
type In struct{}

// Out declares an output port; see In.
type Out struct{}

var (
	inType  = reflect.TypeOf(In{})
	outType = reflect.TypeOf(Out{})

	specCache sync.Map // reflect.Type -> []PortSpec
)

// PortSpecs resolves, and caches per concrete type, the port set declared by
// self's embedded In/Out marker fields — including those inherited through
// embedded base structs. The reserved ports are not declared as markers;
// Base.Init creates them directly.
func PortSpecs(self interface{}) []PortSpec {
	t := reflect.TypeOf(self)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if v, ok := specCache.Load(t); ok {
		return v.([]PortSpec)
	}
	specs := scanType(t)
	specCache.Store(t, specs)
	return specs
}

func scanType(t reflect.Type) []PortSpec {
	var out []PortSpec
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		switch f.Type {
		case inType:
			out = append(out, parseTag(f, DirIn))
			continue
		case outType:
			out = append(out, parseTag(f, DirOut))
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			out = append(out, scanType(f.Type)...)
		}
	}
	return out
}

func parseTag(f reflect.StructField, dir Direction) PortSpec {
	spec := PortSpec{Name: strings.ToLower(f.Name), Direction: dir, ArraySize: 1}
	tag, ok := f.Tag.Lookup("flow")
	if !ok {
		return spec
	}
	for _, part := range strings.Split(tag, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 1 {
			spec.Name = kv[0]
			continue
		}
		switch kv[0] {
		case "name":
			spec.Name = kv[1]
		case "description":
			spec.Description = kv[1]
		case "displayName":
			spec.DisplayName = kv[1]
		case "arraySize":
			if n, err := strconv.Atoi(kv[1]); err == nil {
				spec.ArraySize = n
			}
		}
	}
	return spec
}
