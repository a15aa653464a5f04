package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/beerfactory/hbflow/component"
)

// stopPollInterval is how often Stop polls each process's own state machine
// while waiting for STOP to actually take effect (the broadcast only
// guarantees the CommandPacket was enqueued on a capacity-1 connection, not
// that the process's dispatch loop has run handleStop yet).
const stopPollInterval = 2 * time.Millisecond

// Start broadcasts START via the ProcessManager (spec §4.5). Valid only
// from StateResolved or StateIdle. Each bound process's own dispatch loop
// is launched here, one goroutine per process, the first time Start
// succeeds after a Bind.
func (e *GraphEngine) Start(ctx context.Context) error {
	e.mu.Lock()
	if err := e.fsm.fire(TriggerRun); err != nil {
		e.mu.Unlock()
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.runCancel = cancel
	pm := e.pm
	e.processes.Walk(func(_ string, v interface{}) bool {
		proc := v.(component.Component)
		go proc.Run(runCtx)
		return true
	})
	go pm.Run(runCtx)
	e.mu.Unlock()

	return pm.SendCommand(ctx, component.CommandStart, nil)
}

// Stop broadcasts STOP via the ProcessManager and waits for every process to
// actually reach StateStopped before returning, so a Stop that succeeds
// guarantees Shutdown can immediately fire every process's stopped->shutdown
// transition. Valid from StateRunning or StateIdle.
func (e *GraphEngine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if err := e.fsm.fire(TriggerStop); err != nil {
		e.mu.Unlock()
		return err
	}
	pm := e.pm
	procs := e.Processes()
	e.mu.Unlock()

	if err := pm.SendCommand(ctx, component.CommandStop, nil); err != nil {
		return err
	}
	if err := waitAllStopped(ctx, procs); err != nil {
		return err
	}

	e.mu.Lock()
	err := e.fsm.fire(TriggerStop)
	e.mu.Unlock()
	return err
}

// waitAllStopped polls until every process in procs reports StateStopped or
// ctx is done.
func waitAllStopped(ctx context.Context, procs map[string]component.Component) error {
	for {
		allStopped := true
		for _, p := range procs {
			if p.State() != component.StateStopped {
				allStopped = false
				break
			}
		}
		if allStopped {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(stopPollInterval):
		}
	}
}

// Shutdown cancels every process's dispatch loop, unlinks every connection
// (dropping residual queued packets), calls Shutdown directly on every
// process, then clears the engine's process and connection maps so a
// subsequent Bind starts clean (spec.md §9 "re-binding", resolved in
// SPEC_FULL.md §9). The ProcessManager is never itself driven through
// START/STOP (command_out only fans out to other processes), so its own
// state machine never leaves StateNew; it is stopped by cancelling runCtx
// above rather than by firing its shutdown trigger, which would only be
// a legal transition from StateStopped. Valid only from StateStopped.
func (e *GraphEngine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if err := e.fsm.fire(TriggerShutdown); err != nil {
		e.mu.Unlock()
		return err
	}
	cancel := e.runCancel
	pm := e.pm
	procs := e.Processes()
	conns := e.Connections()
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	var firstErr error
	for _, c := range conns {
		if err := c.Unlink(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("unlink %s: %w", c.Name(), err)
		}
	}
	for name, p := range procs {
		if err := p.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("shutdown %s: %w", name, err)
		}
	}
	if pm != nil && pm.State() == component.StateStopped {
		if err := pm.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("shutdown ProcessManager: %w", err)
		}
	}

	e.mu.Lock()
	e.processes = emptyConfig()
	e.connections = emptyConfig()
	e.pm = nil
	e.runCancel = nil
	e.mu.Unlock()

	return firstErr
}
