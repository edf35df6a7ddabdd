// Package latest provides a monotonic issuance-ordered latest-wins gate for
// asynchronous request/response flows. Each request takes a sequence number
// at issuance; a response is applied only when no later request has been
// issued since, so the observable state always reflects the most recently
// issued request regardless of response arrival order.
package latest

import "sync"

// Gate tracks the issuance order of asynchronous requests and admits only
// the response belonging to the most recently issued one.
type Gate struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Issue reserves the next sequence number. The caller attaches it to the
// outgoing request and presents it back to Admit when the response arrives.
func (g *Gate) Issue() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.issued++
	return g.issued
}

// Admit reports whether the response for seq may be applied. It returns true
// only when seq belongs to the most recently issued request; stale sequences
// are rejected and must be discarded silently by the caller.
func (g *Gate) Admit(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if seq != g.issued || seq <= g.applied {
		return false
	}
	g.applied = seq
	return true
}

// Latest returns the most recently issued sequence number.
func (g *Gate) Latest() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issued
}

// Pending reports whether a request has been issued whose response has not
// yet been admitted.
func (g *Gate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issued > g.applied
}
