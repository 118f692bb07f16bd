// Package sched drives the simulator's per-core workers: one long-lived
// goroutine per logical core, each consuming ready processes, admitting
// them into memory, and running FCFS or round-robin execution slices
// paced by the shared clock.
package sched

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ja7ad/csopesy/internal/clock"
	"github.com/ja7ad/csopesy/internal/config"
	"github.com/ja7ad/csopesy/internal/memory"
	"github.com/ja7ad/csopesy/internal/process"
	"github.com/ja7ad/csopesy/internal/queue"
	"github.com/ja7ad/csopesy/internal/report"
)

// Scheduler owns the N worker goroutines and the FCFS/RR execution
// policy. It does not own the clock, ready queue, process table, or
// allocator; those are shared collaborators constructed by the kernel
// façade and injected here.
type Scheduler struct {
	cfg   config.Config
	clk   *clock.Clock
	ready *queue.ReadyQueue
	alloc memory.Allocator
	tel   *memory.Telemetry

	logDir string
	logger *slog.Logger
}

// New constructs a Scheduler. outDir is where per-process execution
// logs and periodic allocator snapshots are written.
func New(cfg config.Config, clk *clock.Clock, ready *queue.ReadyQueue, alloc memory.Allocator, tel *memory.Telemetry, outDir string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:    cfg,
		clk:    clk,
		ready:  ready,
		alloc:  alloc,
		tel:    tel,
		logDir: outDir,
		logger: logger,
	}
}

// Run starts cfg.NumCPU worker goroutines and blocks until every one of
// them exits, which happens only once the clock stops or the ready
// queue is shut down (see the kernel's shutdown sequence). Once every
// worker has returned, any process still sitting in the ready queue is
// discarded and its memory released, per the drain-on-shutdown rule.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < s.cfg.NumCPU; i++ {
		coreID := i
		g.Go(func() error { return s.worker(ctx, coreID) })
	}
	err := g.Wait()

	for _, p := range s.ready.Drain() {
		s.alloc.Release(p.Name)
	}
	return err
}

// worker is one simulated core. It follows the loop: wait for a tick,
// dequeue the next ready process, admit it into memory, and run one
// execution slice. A worker never holds a lock across a clock wait.
func (s *Scheduler) worker(ctx context.Context, coreID int) error {
	last := s.clk.Current()
	var coreZeroCycle int

	for {
		if ctx.Err() != nil {
			return nil
		}

		tick, ok := s.clk.WaitNext(last)
		if !ok {
			return nil
		}
		last = tick

		p, ok := s.ready.DequeueBlocking()
		if !ok {
			return nil
		}

		s.handle(ctx, coreID, p, &last)

		if coreID == 0 {
			if coreZeroCycle%s.cfg.QuantumCycles == 0 {
				s.writeSnapshot(coreZeroCycle)
			}
			coreZeroCycle++
		}
	}
}

// handle runs one ready process through admission and one execution
// slice, per the scheduler core pseudocode.
func (s *Scheduler) handle(ctx context.Context, coreID int, p *process.Process, last *uint64) {
	if p.State == process.Finished {
		s.tel.Tick(false)
		return
	}
	if p.State != process.Ready {
		s.logger.Error(ErrInvalidState.Error(), "process", p.Name, "state", p.State.String())
		s.tel.Tick(false)
		return
	}

	hint := 0
	if p.HasSize() {
		hint = p.MemSize
	}
	if s.alloc.Admit(p.Name, hint) == memory.Rejected {
		s.tel.Tick(false)
		s.ready.Enqueue(p)
		return
	}
	if !p.HasSize() {
		if sz, ok := s.alloc.RunningProcesses()[p.Name]; ok {
			p.PinSize(sz)
		}
	}

	if err := p.ToRunning(coreID); err != nil {
		s.logger.Error("invalid transition to running", "process", p.Name, "err", err)
		s.tel.Tick(false)
		return
	}

	budget := p.Total - p.Current
	if s.cfg.Scheduler == config.RR && budget > s.cfg.QuantumCycles {
		budget = s.cfg.QuantumCycles
	}
	s.runSlice(ctx, coreID, p, budget, last)

	if p.Done() {
		if err := p.ToFinished(); err != nil {
			s.logger.Error("invalid transition to finished", "process", p.Name, "err", err)
		}
		s.alloc.Release(p.Name)
		return
	}

	if err := p.ToWaiting(); err != nil {
		s.logger.Error("invalid transition to waiting", "process", p.Name, "err", err)
	}
	s.alloc.Release(p.Name)
	if err := p.ToReady(); err != nil {
		s.logger.Error("invalid transition to ready", "process", p.Name, "err", err)
	}
	s.ready.Enqueue(p)
}

// runSlice executes up to budget instructions of p, appending one log
// line per instruction. The tick this worker already consumed before
// dequeuing p pays for the first instruction; every instruction and
// delay tick after that waits for, and charges, one more tick.
func (s *Scheduler) runSlice(ctx context.Context, coreID int, p *process.Process, budget int, last *uint64) {
	f, err := s.openProcessLog(p.Name)
	if err != nil {
		s.logger.Error("open process log", "process", p.Name, "err", err)
	}
	if f != nil {
		defer func() { _ = f.Close() }()
	}

	for i := 0; i < budget; i++ {
		if i > 0 {
			if !s.waitTick(ctx, last) {
				return
			}
			s.tel.Tick(true)
		} else {
			s.tel.Tick(true) // the tick already consumed before dequeue
		}

		p.Advance(1)
		if f != nil {
			ts := time.Now().Format(process.TimestampLayout)
			if _, err := fmt.Fprintf(f, "%s Core:%d \"Hello world from %s!\"\n", ts, coreID, p.Name); err != nil {
				s.logger.Error("write process log", "process", p.Name, "err", err)
			}
		}

		if s.cfg.DelayPerExec > 0 && i < budget-1 {
			for d := 0; d < s.cfg.DelayPerExec; d++ {
				if !s.waitTick(ctx, last) {
					return
				}
				s.tel.Tick(false)
			}
		}
	}
}

// waitTick blocks for the next clock tick, reporting false if the
// clock stopped or the context was canceled first.
func (s *Scheduler) waitTick(ctx context.Context, last *uint64) bool {
	if ctx.Err() != nil {
		return false
	}
	tick, ok := s.clk.WaitNext(*last)
	if !ok {
		return false
	}
	*last = tick
	return true
}

func (s *Scheduler) openProcessLog(name string) (*os.File, error) {
	path := filepath.Join(s.logDir, name+".txt")
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// writeSnapshot dumps the allocator's current state for cycle to the
// file name pattern the allocator variant dictates.
func (s *Scheduler) writeSnapshot(cycle int) {
	ts := time.Now().Format(process.TimestampLayout)
	if err := report.WriteAllocatorSnapshot(s.alloc, s.logDir, cycle, s.cfg.FlatMemory(), ts); err != nil {
		s.logger.Error("write snapshot", "cycle", cycle, "err", err)
	}
}
