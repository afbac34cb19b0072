package service

import (
	"context"
	"sync"
)

// ExportedSaveGuard is an exported alias so _test packages can test the guard.
type ExportedSaveGuard = saveGuard

// ─────────────────────────────────────────────────────────────
// saveGuard — prevents concurrent saves of the same document
// ─────────────────────────────────────────────────────────────

// saveGuard ensures only one save per document id is in flight at a time.
// An in-flight save is not cancellable once submitted; a second attempt is
// refused instead of queued.
type saveGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock attempts to mark docID as saving. Returns true if successful.
// Returns false if a save for the document is already in flight.
func (g *saveGuard) TryLock(docID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[docID]; ok {
		return false // already saving
	}
	g.running[docID] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock marks the document as no longer saving. Must be called after
// TryLock returns true.
func (g *saveGuard) Unlock(docID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, docID)
	g.wg.Done()
}

// WaitAll blocks until all in-flight saves complete or ctx is cancelled.
// Used on shutdown.
func (g *saveGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
