// Package graph implements the declarative Graph descriptor (spec §3/§6):
// an ordered list of process and connection descriptors decoded from a
// plain map, with no live objects. Decoding the map itself (YAML/JSON into
// map[string]interface{}) is the caller's job, typically via
// spf13/viper.Unmarshal.
package graph

import (
	"fmt"

	"github.com/beerfactory/hbflow/internal/ident"
)

// ProcessDesc names one process to instantiate and the component it is an
// instance of.
type ProcessDesc struct {
	ProcessName string
	ClassName   string
	// Group is accepted but not acted on: spec.md §6 documents it as
	// "currently logs a 'not implemented' warning."
	Group string
}

// Endpoint names one side of a ConnectionDesc.
type Endpoint struct {
	Process string
	Port    string
}

// ConnectionDesc names one connection to create between two processes'
// ports.
type ConnectionDesc struct {
	ConnectionName string
	Source         Endpoint
	Target         Endpoint
	Capacity       int
}

// Graph is the immutable, purely declarative description resolved by
// GraphEngine.bind, which iterates ProcessNames and ConnectionNames in
// slice order. FromMap fills ConnectionNames in descriptor order; it fills
// ProcessNames in Go map iteration order, so the order of processes decoded
// from a map is not defined.
type Graph struct {
	ident.Object

	Description string
	Author      string
	Date        string

	ProcessNames    []string
	Processes       map[string]ProcessDesc
	ConnectionNames []string
	Connections     map[string]ConnectionDesc
}

// New returns an empty, named Graph ready to be populated by FromMap.
func New(name string) *Graph {
	g := &Graph{
		Processes:   make(map[string]ProcessDesc),
		Connections: make(map[string]ConnectionDesc),
	}
	g.Object = ident.New(g, name)
	return g
}

// FromMap decodes a graph descriptor out of a generic map, the shape
// documented in spec.md §6. If m carries an outer "graph" key, that nested
// map is used; otherwise m itself is treated as the graph. Duplicate
// process/connection names and missing required fields are reported as
// GraphExceptions; unknown process/port references are NOT checked here —
// that requires a live process set and is the engine's job during bind
// (spec §4.5 step 3).
func FromMap(m map[string]interface{}) (*Graph, error) {
	root := m
	if inner, ok := m["graph"].(map[string]interface{}); ok {
		root = inner
	}

	g := New(stringOr(root["name"], ""))
	g.Description = stringOr(root["description"], "")
	g.Author = stringOr(root["author"], "")
	g.Date = stringOr(root["date"], "")

	if procs, ok := root["processes"].(map[string]interface{}); ok {
		for _, name := range orderedKeys(procs) {
			raw, _ := procs[name].(map[string]interface{})
			if _, exists := g.Processes[name]; exists {
				return nil, ErrorDuplicateProcessName.Error(fmt.Errorf("process %q", name))
			}
			className := stringOr(raw["component"], "")
			if className == "" {
				return nil, ErrorMissingComponent.Error(fmt.Errorf("process %q", name))
			}
			g.Processes[name] = ProcessDesc{
				ProcessName: name,
				ClassName:   className,
				Group:       stringOr(raw["group"], ""),
			}
			g.ProcessNames = append(g.ProcessNames, name)
		}
	}

	if conns, ok := root["connections"].([]interface{}); ok {
		for i, raw := range conns {
			cm, _ := raw.(map[string]interface{})
			name := stringOr(cm["name"], fmt.Sprintf("conn_%d", i))
			if _, exists := g.Connections[name]; exists {
				return nil, ErrorDuplicateConnectionName.Error(fmt.Errorf("connection %q", name))
			}

			src, err := endpointOf(cm["source"])
			if err != nil {
				return nil, err
			}
			tgt, err := endpointOf(cm["target"])
			if err != nil {
				return nil, err
			}

			capacity := 1
			if c, ok := cm["capacity"]; ok {
				capacity = intOr(c, 1)
			}

			g.Connections[name] = ConnectionDesc{
				ConnectionName: name,
				Source:         src,
				Target:         tgt,
				Capacity:       capacity,
			}
			g.ConnectionNames = append(g.ConnectionNames, name)
		}
	}

	return g, nil
}

func endpointOf(raw interface{}) (Endpoint, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return Endpoint{}, ErrorMissingEndpointField.Error(fmt.Errorf("expected an object with process/port"))
	}
	process := stringOr(m["process"], "")
	port := stringOr(m["port"], "")
	if process == "" || port == "" {
		return Endpoint{}, ErrorMissingEndpointField.Error(fmt.Errorf("process=%q port=%q", process, port))
	}
	return Endpoint{Process: process, Port: port}, nil
}

func stringOr(v interface{}, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func intOr(v interface{}, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

// orderedKeys has no real ordering to preserve: a plain
// map[string]interface{} carries none. Declaration order over processes
// only matters for resolving ambiguity that can't arise here (within one
// map, keys are already unique); it matters to the engine only for
// connections, which are a []interface{} and so keep descriptor order.
func orderedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
