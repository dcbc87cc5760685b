// Package inflight tracks outstanding mutation confirmations per target.
//
// Optimistic mutations apply local state before the platform confirms them.
// When several confirmations for the same target overlap, the rollback
// target must stay pinned to the state before the first request in the
// batch; rolling back to an intermediate optimistic state would compound
// drift instead of correcting it.
package inflight

import (
	"strings"
	"sync"
)

// Key identifies one logical mutation target.
type Key struct {
	Kind string
	ID   string
}

// NewKey builds a normalized gate key.
func NewKey(kind string, id string) Key {
	return Key{Kind: strings.TrimSpace(kind), ID: strings.TrimSpace(id)}
}

type batch struct {
	pinned      any
	outstanding int
}

// Gate enforces at most one pinned rollback snapshot per mutation target.
type Gate struct {
	mu      sync.Mutex
	batches map[Key]*batch
}

// New returns an empty gate.
func New() *Gate {
	return &Gate{batches: make(map[Key]*batch)}
}

// Begin registers an outstanding confirmation for key. The first Begin in a
// batch pins snapshot as the rollback target; later Begins join the open
// batch and keep the original pin. Returns the pinned snapshot and whether
// this call opened the batch.
func (g *Gate) Begin(key Key, snapshot any) (any, bool) {
	if g == nil {
		return snapshot, true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.batches == nil {
		g.batches = make(map[Key]*batch)
	}
	if open, ok := g.batches[key]; ok {
		open.outstanding++
		return open.pinned, false
	}
	g.batches[key] = &batch{pinned: snapshot, outstanding: 1}
	return snapshot, true
}

// TryAcquire opens a batch only when no confirmation is outstanding for key.
// Targets that must never issue overlapping requests (comment submission,
// invitation actions) use it to refuse duplicates instead of joining.
func (g *Gate) TryAcquire(key Key, snapshot any) bool {
	if g == nil {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.batches == nil {
		g.batches = make(map[Key]*batch)
	}
	if _, ok := g.batches[key]; ok {
		return false
	}
	g.batches[key] = &batch{pinned: snapshot, outstanding: 1}
	return true
}

// Settle reports one successful confirmation. The batch closes when its last
// outstanding confirmation settles. Settling a closed batch is a no-op so
// stragglers from a batch already rolled back cannot corrupt a newer one.
func (g *Gate) Settle(key Key) {
	if g == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	open, ok := g.batches[key]
	if !ok {
		return
	}
	open.outstanding--
	if open.outstanding <= 0 {
		delete(g.batches, key)
	}
}

// Fail reports a failed confirmation and returns the batch's pinned
// snapshot. The whole batch closes immediately: every queued optimistic step
// is rolled back at once, and later completions from the same batch are
// ignored.
func (g *Gate) Fail(key Key) (any, bool) {
	if g == nil {
		return nil, false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	open, ok := g.batches[key]
	if !ok {
		return nil, false
	}
	delete(g.batches, key)
	return open.pinned, true
}

// Outstanding reports whether key has an open batch.
func (g *Gate) Outstanding(key Key) bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.batches[key]
	return ok
}
