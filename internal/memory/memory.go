// Package memory implements the two interchangeable memory allocators
// the simulator can run under: a flat first-fit allocator with a FIFO
// backing store, and a fixed-frame paging allocator with no eviction.
// Exactly one variant is active per run, chosen by configuration.
package memory

import (
	"io"
	"math/rand"

	"github.com/ja7ad/csopesy/internal/config"
)

// AdmitResult reports the outcome of an admission attempt.
type AdmitResult int

const (
	// Accepted means the process now occupies memory.
	Accepted AdmitResult = iota
	// Rejected means no placement could be found even after evicting
	// every evictable occupant (flat) or because free frames ran out
	// (paging, which never evicts).
	Rejected
)

func (r AdmitResult) String() string {
	if r == Accepted {
		return "Accepted"
	}
	return "Rejected"
}

// Allocator is the contract both memory variants satisfy. A process's
// pinned size is sampled uniformly from [min,max] on its first admission
// and reused on every subsequent admission for that name. The flat
// variant keeps the pinned size across Release; the paging variant drops
// it on Release, so a later admission without a hint samples again.
type Allocator interface {
	// Admit places name into memory, sampling and pinning its size on
	// first call. hint is honored only as that first-call size when
	// hint > 0; a zero hint means "sample uniformly as usual".
	Admit(name string, hint int) AdmitResult
	// Release frees name's memory, if it currently holds any. A repeat
	// Release of the same name is a no-op.
	Release(name string)
	// Snapshot writes the allocator's current state in the on-disk
	// format for the given quantum cycle, using ts as the rendered
	// timestamp line.
	Snapshot(w io.Writer, cycle int, ts string) error
	// InMemory reports whether name currently occupies memory (as
	// opposed to sitting in a backing store or never having been
	// admitted).
	InMemory(name string) bool
	// Totals returns total, used, and free memory in bytes.
	Totals() (total, used, free int)
	// RunningProcesses returns a snapshot copy of name -> pinned size
	// for every process currently resident in memory.
	RunningProcesses() map[string]int
}

// New selects the flat or paging allocator per cfg.FlatMemory(): flat
// when max-overall-mem equals mem-per-frame, paging otherwise. tel
// receives the paging variant's page swap counters; pass a Telemetry
// shared with the scheduler so vmstat reports both from one place.
func New(cfg config.Config, seed int64, tel *Telemetry) Allocator {
	rng := rand.New(rand.NewSource(seed))
	if cfg.FlatMemory() {
		return newFlatAllocator(cfg.MaxOverallMem, cfg.MinMemPerProc, cfg.MaxMemPerProc, rng)
	}
	return newPagingAllocator(cfg.MaxOverallMem, cfg.MemPerFrame, cfg.MinMemPerProc, cfg.MaxMemPerProc, rng, tel)
}

func randSize(rng *rand.Rand, min, max int) int {
	if min >= max {
		return min
	}
	return min + rng.Intn(max-min+1)
}
