package process

import (
	"fmt"
	"sync"
)

// Table maps process name to record, with a parallel insertion-order
// index so listings are stable and reproducible. Readers (Get, listing)
// and writers (Insert, Clear) are serialized with a single RWMutex; the
// lock covers the table itself, not the fields of the records it holds,
// so lifecycle transitions on a Process do not take it.
type Table struct {
	mu      sync.RWMutex
	byName  map[string]*Process
	order   []string
	nextIdx int
}

// NewTable returns an empty process table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Process)}
}

// Insert adds p, keyed by p.Name. Returns ErrDuplicateName if the name
// is already present; the table is unchanged in that case.
func (t *Table) Insert(p *Process) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.byName[p.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
	}
	t.byName[p.Name] = p
	t.order = append(t.order, p.Name)
	t.nextIdx++
	return nil
}

// Get returns the record for name, or ErrNotFound.
func (t *Table) Get(name string) (*Process, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, nil
}

// IterInOrder returns every record in insertion order.
func (t *Table) IterInOrder() []*Process {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Process, 0, len(t.order))
	for _, name := range t.order {
		if p, ok := t.byName[name]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of records currently in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byName)
}

// Clear empties the table and resets the insertion-order counter.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byName = make(map[string]*Process)
	t.order = nil
	t.nextIdx = 0
}
