package monitor_test

import (
	"testing"
	"time"

	"github.com/beerfactory/hbflow/monitor"
	"github.com/beerfactory/hbflow/packet"
)

func TestPoolRecordAndSnapshot(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := monitor.NewPoolWithClock(func() time.Time { return fixed })

	if p.Len() != 0 {
		t.Fatalf("expected empty pool, got %d entries", p.Len())
	}

	p.Record("a", packet.NewData("ok"))
	p.Record("b", packet.NewData("degraded"))
	p.Record("a", packet.NewData("ok-again"))

	if p.Len() != 2 {
		t.Fatalf("expected 2 distinct processes, got %d", p.Len())
	}

	snap := p.Snapshot()
	if snap["a"].Payload != "ok-again" {
		t.Fatalf("expected a's latest report to overwrite the first, got %v", snap["a"].Payload)
	}
	if !snap["a"].Recorded.Equal(fixed) {
		t.Fatalf("expected the injected clock's timestamp, got %v", snap["a"].Recorded)
	}
}
