// Package generator implements the clock-subscribed batch process
// creator: while enabled, it creates a fixed number of new processes
// every tick and feeds them straight into the ready queue.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/ja7ad/csopesy/internal/clock"
	"github.com/ja7ad/csopesy/internal/config"
	"github.com/ja7ad/csopesy/internal/process"
	"github.com/ja7ad/csopesy/internal/queue"
)

// Generator creates batches of default-named processes on each clock
// tick while enabled. The naming counter is monotonic for the lifetime
// of the Generator: toggling Stop/Start never reuses a name, only a
// fresh Generator (built by the kernel's initialize) resets it.
type Generator struct {
	cfg   config.Config
	clk   *clock.Clock
	ready *queue.ReadyQueue
	table *process.Table
	rng   *rand.Rand

	enabled atomic.Bool
	counter atomic.Int64

	logger *slog.Logger
}

// New constructs a Generator bound to the given collaborators.
func New(cfg config.Config, clk *clock.Clock, ready *queue.ReadyQueue, table *process.Table, seed int64, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		cfg:    cfg,
		clk:    clk,
		ready:  ready,
		table:  table,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// Start flips the generator on.
func (g *Generator) Start() { g.enabled.Store(true) }

// Stop flips the generator off; in-flight batches already enqueued are
// unaffected.
func (g *Generator) Stop() { g.enabled.Store(false) }

// Enabled reports the current on/off state.
func (g *Generator) Enabled() bool { return g.enabled.Load() }

// Run subscribes to the clock and, on every tick while enabled, creates
// cfg.BatchProcessFreq processes and enqueues them Ready. It returns
// once the clock stops.
func (g *Generator) Run(ctx context.Context) error {
	last := g.clk.Current()
	for {
		if ctx.Err() != nil {
			return nil
		}
		tick, ok := g.clk.WaitNext(last)
		if !ok {
			return nil
		}
		last = tick

		if !g.Enabled() {
			continue
		}
		for i := 0; i < g.cfg.BatchProcessFreq; i++ {
			g.spawnOne()
		}
	}
}

func (g *Generator) spawnOne() {
	name := g.nextName()
	total := g.cfg.MinIns
	if g.cfg.MaxIns > g.cfg.MinIns {
		total = g.cfg.MinIns + g.rng.Intn(g.cfg.MaxIns-g.cfg.MinIns+1)
	}

	p := process.NewProcess(name, total, time.Now())
	if err := g.table.Insert(p); err != nil {
		g.logger.Warn("generator: name collision, skipping", "name", name)
		return
	}
	if err := p.ToReady(); err != nil {
		g.logger.Error("generator: invalid transition to ready", "name", name, "err", err)
		return
	}
	g.ready.Enqueue(p)
}

func (g *Generator) nextName() string {
	n := g.counter.Add(1)
	return fmt.Sprintf("process%d", n)
}
