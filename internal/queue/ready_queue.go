// Package queue implements the scheduler's ready queue: a strictly FIFO,
// mutex-and-condvar-guarded queue of process references awaiting a core.
package queue

import (
	"sync"

	"github.com/ja7ad/csopesy/internal/process"
)

// ReadyQueue is a blocking FIFO of *process.Process references.
type ReadyQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []*process.Process
	shutdown bool
}

// New returns an empty ReadyQueue.
func New() *ReadyQueue {
	q := &ReadyQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends p to the tail of the queue and wakes one blocked
// dequeuer. It does not transition p's lifecycle state; callers are
// responsible for calling ToReady beforehand.
func (q *ReadyQueue) Enqueue(p *process.Process) {
	q.mu.Lock()
	q.items = append(q.items, p)
	q.mu.Unlock()
	q.cond.Signal()
}

// DequeueBlocking waits until a process is available or Shutdown is
// called. ok is false only in the shutdown case, signaling the caller
// to exit its loop.
func (q *ReadyQueue) DequeueBlocking() (p *process.Process, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.shutdown {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	p = q.items[0]
	q.items = q.items[1:]
	return p, true
}

// Shutdown wakes every blocked dequeuer; subsequent DequeueBlocking
// calls drain any remaining items before returning ok=false.
func (q *ReadyQueue) Shutdown() {
	q.mu.Lock()
	q.shutdown = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Len returns the current queue length.
func (q *ReadyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain removes and returns every remaining item without blocking,
// used on shutdown to release memory held by queued processes.
func (q *ReadyQueue) Drain() []*process.Process {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}
