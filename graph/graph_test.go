package graph_test

import (
	"testing"

	"github.com/beerfactory/hbflow/graph"
)

func TestFromMapTrivialPipeline(t *testing.T) {
	m := map[string]interface{}{
		"name": "pipeline",
		"processes": map[string]interface{}{
			"a": map[string]interface{}{"component": "builtins.Source"},
			"b": map[string]interface{}{"component": "builtins.Sink"},
		},
		"connections": []interface{}{
			map[string]interface{}{
				"source":   map[string]interface{}{"process": "a", "port": "out"},
				"target":   map[string]interface{}{"process": "b", "port": "in"},
				"capacity": 2,
			},
		},
	}

	g, err := graph.FromMap(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Processes) != 2 {
		t.Fatalf("expected 2 processes, got %d", len(g.Processes))
	}
	if len(g.Connections) != 1 {
		t.Fatalf("expected 1 connection, got %d", len(g.Connections))
	}
	for _, c := range g.Connections {
		if c.Capacity != 2 {
			t.Fatalf("expected capacity 2, got %d", c.Capacity)
		}
	}
}

func TestFromMapDefaultCapacity(t *testing.T) {
	m := map[string]interface{}{
		"processes": map[string]interface{}{
			"a": map[string]interface{}{"component": "builtins.Source"},
			"b": map[string]interface{}{"component": "builtins.Sink"},
		},
		"connections": []interface{}{
			map[string]interface{}{
				"source": map[string]interface{}{"process": "a", "port": "out"},
				"target": map[string]interface{}{"process": "b", "port": "in"},
			},
		},
	}
	g, err := graph.FromMap(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range g.Connections {
		if c.Capacity != 1 {
			t.Fatalf("expected default capacity 1, got %d", c.Capacity)
		}
	}
}

func TestFromMapMissingComponent(t *testing.T) {
	m := map[string]interface{}{
		"processes": map[string]interface{}{
			"a": map[string]interface{}{},
		},
	}
	if _, err := graph.FromMap(m); err == nil {
		t.Fatal("expected a GraphException for a process missing its component name")
	}
}

func TestFromMapMissingEndpointField(t *testing.T) {
	m := map[string]interface{}{
		"processes": map[string]interface{}{
			"a": map[string]interface{}{"component": "builtins.Source"},
			"b": map[string]interface{}{"component": "builtins.Sink"},
		},
		"connections": []interface{}{
			map[string]interface{}{
				"source": map[string]interface{}{"process": "a"},
				"target": map[string]interface{}{"process": "b", "port": "in"},
			},
		},
	}
	if _, err := graph.FromMap(m); err == nil {
		t.Fatal("expected a GraphException for a connection missing a port field")
	}
}

func TestFromMapDuplicateConnectionName(t *testing.T) {
	m := map[string]interface{}{
		"processes": map[string]interface{}{
			"a": map[string]interface{}{"component": "builtins.Source"},
			"b": map[string]interface{}{"component": "builtins.Sink"},
		},
		"connections": []interface{}{
			map[string]interface{}{
				"name":   "c1",
				"source": map[string]interface{}{"process": "a", "port": "out"},
				"target": map[string]interface{}{"process": "b", "port": "in"},
			},
			map[string]interface{}{
				"name":   "c1",
				"source": map[string]interface{}{"process": "a", "port": "out"},
				"target": map[string]interface{}{"process": "b", "port": "in"},
			},
		},
	}
	if _, err := graph.FromMap(m); err == nil {
		t.Fatal("expected a GraphException for a duplicate connection name")
	}
}
