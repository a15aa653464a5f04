package engine_test

import (
	"context"
	"time"

	"github.com/beerfactory/hbflow/engine"
	"github.com/beerfactory/hbflow/graph"
	"github.com/beerfactory/hbflow/internal/liblog"
	"github.com/beerfactory/hbflow/monitor"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func trivialPipeline() *graph.Graph {
	g, err := graph.FromMap(map[string]interface{}{
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
	})
	Expect(err).NotTo(HaveOccurred())
	return g
}

var _ = Describe("GraphEngine.Bind", func() {
	It("S1: resolves a trivial pipeline with 2 processes and 1+2 connections", func() {
		e := engine.New("e", liblog.New(), newTestRegistry())
		Expect(e.Bind(trivialPipeline())).To(Succeed())
		Expect(e.State()).To(Equal(engine.StateResolved))
		Expect(e.Processes()).To(HaveLen(2))
		Expect(e.Connections()).To(HaveLen(3))
	})

	It("S2: rejects a duplicate process name, leaving unresolved with empty maps", func() {
		g, err := graph.FromMap(map[string]interface{}{
			"processes": map[string]interface{}{
				"w": map[string]interface{}{"component": "builtins.Source"},
			},
		})
		Expect(err).NotTo(HaveOccurred())
		// FromMap itself already rejects same-key duplicates (Go maps can't
		// carry two "w" keys); simulate the source-level duplicate by
		// appending a second descriptor under the same process name.
		g.Processes["w"] = g.Processes["w"]
		g.ProcessNames = append(g.ProcessNames, "w")

		e := engine.New("e", liblog.New(), newTestRegistry())
		err = e.Bind(g)
		Expect(err).To(HaveOccurred())
		Expect(e.State()).To(Equal(engine.StateUnresolved))
		Expect(e.Processes()).To(BeEmpty())
		Expect(e.Connections()).To(BeEmpty())
	})

	It("wires every process's status_out into the ProcessManager's status_in when a monitor.Pool is registered", func() {
		e := engine.New("e", liblog.New(), newTestRegistry())
		e.RegisterMonitorPool(monitor.NewPool())
		Expect(e.Bind(trivialPipeline())).To(Succeed())
		// 1 explicit + 2 command + 2 status.
		Expect(e.Connections()).To(HaveLen(5))
	})

	It("S3: rejects a connection naming an unknown port, leaving unresolved (invariant 6)", func() {
		g, err := graph.FromMap(map[string]interface{}{
			"processes": map[string]interface{}{
				"a": map[string]interface{}{"component": "builtins.Source"},
				"b": map[string]interface{}{"component": "builtins.Sink"},
			},
			"connections": []interface{}{
				map[string]interface{}{
					"source": map[string]interface{}{"process": "a", "port": "out"},
					"target": map[string]interface{}{"process": "b", "port": "nonexistent"},
				},
			},
		})
		Expect(err).NotTo(HaveOccurred())

		e := engine.New("e", liblog.New(), newTestRegistry())
		err = e.Bind(g)
		Expect(err).To(HaveOccurred())
		Expect(e.State()).To(Equal(engine.StateUnresolved))
		Expect(e.Processes()).To(BeEmpty())
		Expect(e.Connections()).To(BeEmpty())
	})
})

var _ = Describe("GraphEngine.Start", func() {
	It("S4: broadcasts START so every process's start hook fires exactly once", func() {
		r := newTestRegistry()
		r.Register("builtins.Counter1", newCountingStarter)
		r.Register("builtins.Counter2", newCountingStarter)
		r.Register("builtins.Counter3", newCountingStarter)

		g, err := graph.FromMap(map[string]interface{}{
			"processes": map[string]interface{}{
				"p1": map[string]interface{}{"component": "builtins.Counter1"},
				"p2": map[string]interface{}{"component": "builtins.Counter2"},
				"p3": map[string]interface{}{"component": "builtins.Counter3"},
			},
		})
		Expect(err).NotTo(HaveOccurred())

		e := engine.New("e", liblog.New(), r)
		Expect(e.Bind(g)).To(Succeed())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		Expect(e.Start(ctx)).To(Succeed())

		for _, p := range e.Processes() {
			cs := p.(*countingStarter)
			Eventually(func() int32 { return cs.starts }, time.Second).Should(BeEquivalentTo(1))
		}
	})

	It("Stop then Shutdown clears the process/connection maps for a clean re-bind", func() {
		e := engine.New("e", liblog.New(), newTestRegistry())
		Expect(e.Bind(trivialPipeline())).To(Succeed())

		ctx := context.Background()
		Expect(e.Start(ctx)).To(Succeed())
		Eventually(e.State, time.Second).Should(Equal(engine.StateRunning))

		Expect(e.Stop(ctx)).To(Succeed())
		Expect(e.State()).To(Equal(engine.StateStopped))

		Expect(e.Shutdown(ctx)).To(Succeed())
		Expect(e.State()).To(Equal(engine.StateShutdown))
		Expect(e.Processes()).To(BeEmpty())
		Expect(e.Connections()).To(BeEmpty())

		Expect(e.Bind(trivialPipeline())).To(Succeed())
		Expect(e.State()).To(Equal(engine.StateResolved))
	})
})
