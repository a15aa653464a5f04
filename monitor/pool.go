// Package monitor resolves SPEC_FULL.md §3.1: an optional aggregator for
// the status reports processes send on their _status_out, fanned in
// through the ProcessManager's status_in (spec.md §9's "status_in /
// command acknowledgements" open question). It is loosely grounded on the
// shape of nabbar-golib/monitor/pool's Pool (MonitorList/Uptime-style
// aggregation over named entries), trimmed to what status fan-in needs:
// no periodic health checks of its own, since a process's status reports
// are push-driven.
package monitor

import (
	"sync"
	"time"

	"github.com/beerfactory/hbflow/packet"
)

// Report is one process's status update, as received on status_in.
type Report struct {
	Process  string
	Payload  interface{}
	Recorded time.Time
}

// Pool aggregates the latest Report from every process that has ever sent
// one. It is safe for concurrent use: the engine's ProcessManager calls
// Record from its packet dispatch loop while a host program reads Snapshot
// from anywhere else.
type Pool interface {
	// Record stores p as the latest report for process.
	Record(process string, p *packet.Packet)
	// Snapshot returns the latest Report recorded for every process.
	Snapshot() map[string]Report
	// Len reports how many distinct processes have reported in.
	Len() int
}

type pool struct {
	mu      sync.RWMutex
	reports map[string]Report
	now     func() time.Time
}

// NewPool returns an empty Pool. now defaults to time.Now; tests may
// override it through NewPoolWithClock for deterministic timestamps.
func NewPool() Pool {
	return NewPoolWithClock(time.Now)
}

// NewPoolWithClock returns a Pool that stamps every Report using now
// instead of time.Now, so tests can assert on exact timestamps.
func NewPoolWithClock(now func() time.Time) Pool {
	return &pool{reports: make(map[string]Report), now: now}
}

func (p *pool) Record(process string, pkt *packet.Packet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var payload interface{}
	if pkt != nil {
		payload = pkt.Payload()
	}
	p.reports[process] = Report{Process: process, Payload: payload, Recorded: p.now()}
}

func (p *pool) Snapshot() map[string]Report {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]Report, len(p.reports))
	for k, v := range p.reports {
		out[k] = v
	}
	return out
}

func (p *pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.reports)
}
