package memory

import "sync/atomic"

// Telemetry holds the counters shared across whichever allocator variant
// is active. Every worker contributes exactly one tick observation, and
// the paging allocator contributes page swap counts; none of it needs a
// mutex since each field is updated independently.
type Telemetry struct {
	activeCPUTicks atomic.Int64
	idleCPUTicks   atomic.Int64
	totalCPUTicks  atomic.Int64
	pagesPagedIn   atomic.Int64
	pagesPagedOut  atomic.Int64
}

// NewTelemetry returns a zeroed counter set.
func NewTelemetry() *Telemetry { return &Telemetry{} }

// Tick records one observed cycle for a worker: total always advances,
// and exactly one of active/idle advances depending on whether the
// worker did useful work that cycle.
func (t *Telemetry) Tick(active bool) {
	t.totalCPUTicks.Add(1)
	if active {
		t.activeCPUTicks.Add(1)
	} else {
		t.idleCPUTicks.Add(1)
	}
}

// AddPagesPagedIn increments the paging-in counter by n.
func (t *Telemetry) AddPagesPagedIn(n int) { t.pagesPagedIn.Add(int64(n)) }

// AddPagesPagedOut increments the paging-out counter by n.
func (t *Telemetry) AddPagesPagedOut(n int) { t.pagesPagedOut.Add(int64(n)) }

// Snapshot is a point-in-time, race-free copy of all counters.
type Snapshot struct {
	ActiveCPUTicks int64
	IdleCPUTicks   int64
	TotalCPUTicks  int64
	PagesPagedIn   int64
	PagesPagedOut  int64
}

// Snapshot reads every counter.
func (t *Telemetry) Snapshot() Snapshot {
	return Snapshot{
		ActiveCPUTicks: t.activeCPUTicks.Load(),
		IdleCPUTicks:   t.idleCPUTicks.Load(),
		TotalCPUTicks:  t.totalCPUTicks.Load(),
		PagesPagedIn:   t.pagesPagedIn.Load(),
		PagesPagedOut:  t.pagesPagedOut.Load(),
	}
}
