// Package kernel is the simulator's single entry point: it composes the
// clock, ready queue, process table, allocator, scheduler, and
// generator, and exposes the operations the interactive console drives.
package kernel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ja7ad/csopesy/internal/clock"
	"github.com/ja7ad/csopesy/internal/config"
	"github.com/ja7ad/csopesy/internal/generator"
	"github.com/ja7ad/csopesy/internal/memory"
	"github.com/ja7ad/csopesy/internal/process"
	"github.com/ja7ad/csopesy/internal/queue"
	"github.com/ja7ad/csopesy/internal/report"
	"github.com/ja7ad/csopesy/internal/sched"
)

// Kernel owns one live run of the simulator. It is safe for concurrent
// use by the console and any number of readers.
type Kernel struct {
	mu sync.Mutex

	outDir     string
	tickPeriod time.Duration
	logger     *slog.Logger

	running bool
	cfg     config.Config
	rng     *rand.Rand

	clk       *clock.Clock
	ready     *queue.ReadyQueue
	table     *process.Table
	tel       *memory.Telemetry
	alloc     memory.Allocator
	scheduler *sched.Scheduler
	generator *generator.Generator

	cancel context.CancelFunc
	group  *errgroup.Group
}

// New returns an uninitialized Kernel. tickPeriod selects the clock's
// wall-clock cadence; pass 0 to drive ticks manually instead (tests).
func New(outDir string, tickPeriod time.Duration, logger *slog.Logger) *Kernel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kernel{outDir: outDir, tickPeriod: tickPeriod, logger: logger}
}

// Initialize reads a configuration from r and (re)builds the entire
// run. It validates before tearing anything down, so a bad config
// leaves a prior run untouched.
func (k *Kernel) Initialize(r io.Reader) error {
	cfg, err := config.Load(r, k.logger)
	if err != nil {
		return err
	}
	return k.initializeWithConfig(cfg)
}

// InitializeDefault builds a run from config.Default(), useful for
// autostart flows that never read a config file.
func (k *Kernel) InitializeDefault() error {
	return k.initializeWithConfig(config.Default())
}

func (k *Kernel) initializeWithConfig(cfg config.Config) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.running {
		k.teardownLocked()
	}

	k.cfg = cfg
	k.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	k.table = process.NewTable()
	k.ready = queue.New()
	k.clk = clock.New()
	k.tel = memory.NewTelemetry()
	k.alloc = memory.New(cfg, time.Now().UnixNano(), k.tel)
	k.scheduler = sched.New(cfg, k.clk, k.ready, k.alloc, k.tel, k.outDir, k.logger)
	k.generator = generator.New(cfg, k.clk, k.ready, k.table, time.Now().UnixNano(), k.logger)

	ctx, cancel := context.WithCancel(context.Background())
	k.cancel = cancel
	g, gctx := errgroup.WithContext(ctx)
	k.group = g

	if k.tickPeriod > 0 {
		g.Go(func() error {
			k.clk.Run(k.tickPeriod)
			return nil
		})
	}
	g.Go(func() error { return k.scheduler.Run(gctx) })
	g.Go(func() error { return k.generator.Run(gctx) })

	k.running = true
	return nil
}

// teardownLocked stops the clock and ready queue, which unblocks every
// worker and the generator, then waits for them to exit. Callers must
// hold k.mu.
func (k *Kernel) teardownLocked() {
	k.clk.Stop()
	k.ready.Shutdown()
	if k.cancel != nil {
		k.cancel()
	}
	if k.group != nil {
		_ = k.group.Wait()
	}
	k.running = false
}

// AdvanceTick manually advances the clock by one tick; used when the
// kernel was built with tickPeriod == 0 (deterministic tests).
func (k *Kernel) AdvanceTick() uint64 {
	return k.clk.Advance()
}

// CreateNamedProcess inserts a new process under name, with a randomly
// sampled instruction count, and admits it to the ready queue.
func (k *Kernel) CreateNamedProcess(name string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.running {
		return ErrNotInitialized
	}

	total := k.cfg.MinIns
	if k.cfg.MaxIns > k.cfg.MinIns {
		total = k.cfg.MinIns + k.rng.Intn(k.cfg.MaxIns-k.cfg.MinIns+1)
	}
	p := process.NewProcess(name, total, time.Now())
	if err := k.table.Insert(p); err != nil {
		return fmt.Errorf("kernel: create %s: %w", name, err)
	}
	if err := p.ToReady(); err != nil {
		return fmt.Errorf("kernel: create %s: %w", name, err)
	}
	k.ready.Enqueue(p)
	return nil
}

// ScreenView returns the live process record for name. Callers must
// treat it as read-only: the scheduler may still own and mutate it.
func (k *Kernel) ScreenView(name string) (*process.Process, error) {
	k.mu.Lock()
	tbl := k.table
	k.mu.Unlock()
	if tbl == nil {
		return nil, ErrNotInitialized
	}
	return tbl.Get(name)
}

// ListProcesses returns the running/finished partition for `screen -ls`
// and the utilization report.
func (k *Kernel) ListProcesses() (report.Utilization, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.running {
		return report.Utilization{}, ErrNotInitialized
	}
	return report.BuildUtilization(k.table, k.cfg.NumCPU), nil
}

// StartGenerator turns on batch process creation.
func (k *Kernel) StartGenerator() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.running {
		return ErrNotInitialized
	}
	k.generator.Start()
	return nil
}

// StopGenerator turns off batch process creation.
func (k *Kernel) StopGenerator() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.running {
		return ErrNotInitialized
	}
	k.generator.Stop()
	return nil
}

// SnapshotNow writes an allocator snapshot for the current clock tick,
// independent of the scheduler's periodic core-0 cadence.
func (k *Kernel) SnapshotNow() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.running {
		return ErrNotInitialized
	}
	cycle := int(k.clk.Current())
	ts := time.Now().Format(process.TimestampLayout)
	return report.WriteAllocatorSnapshot(k.alloc, k.outDir, cycle, k.cfg.FlatMemory(), ts)
}

// Report writes the utilization report to csopesy_log.txt in outDir.
func (k *Kernel) Report() error {
	k.mu.Lock()
	u, err := k.reportLocked()
	k.mu.Unlock()
	if err != nil {
		return err
	}
	path := filepath.Join(k.outDir, "csopesy_log.txt")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("kernel: create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return report.WriteUtilization(f, u)
}

func (k *Kernel) reportLocked() (report.Utilization, error) {
	if !k.running {
		return report.Utilization{}, ErrNotInitialized
	}
	return report.BuildUtilization(k.table, k.cfg.NumCPU), nil
}

// ProcessSMI renders the on-demand memory/CPU dashboard.
func (k *Kernel) ProcessSMI() (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.running {
		return "", ErrNotInitialized
	}
	return report.BuildProcessSMI(k.alloc, k.cfg.NumCPU).String(), nil
}

// VMStat renders the on-demand memory/CPU counters dump.
func (k *Kernel) VMStat() (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.running {
		return "", ErrNotInitialized
	}
	return report.BuildVMStat(k.alloc, k.tel).String(), nil
}

// Shutdown stops the clock and ready queue, drains any pending work,
// and waits for every goroutine to exit.
func (k *Kernel) Shutdown() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.running {
		return nil
	}
	k.teardownLocked()
	return nil
}
