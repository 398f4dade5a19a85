package process

import (
	"sync"

	"github.com/singleboostr/boostr/internal/appid"
)

// Registry is the table of running children, at most one per identifier.
// Every read and write happens under one mutex; the exit watchers and the
// console loop both mutate it.
type Registry struct {
	mu    sync.Mutex
	procs []*Managed
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Insert adds p unless an entry with the same identifier exists. It
// reports whether p was added.
func (r *Registry) Insert(p *Managed) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.procs {
		if existing.ID == p.ID {
			return false
		}
	}
	r.procs = append(r.procs, p)
	return true
}

// Remove deletes p by identity. Exactly one of several racing callers
// gets true.
func (r *Registry) Remove(p *Managed) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.procs {
		if existing == p {
			r.procs = append(r.procs[:i], r.procs[i+1:]...)
			return true
		}
	}
	return false
}

// FindByIdentifier returns the entry for id, if any.
func (r *Registry) FindByIdentifier(id appid.ID) (*Managed, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.procs {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Snapshot returns a point-in-time copy in insertion order.
func (r *Registry) Snapshot() []*Managed {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Managed, len(r.procs))
	copy(out, r.procs)
	return out
}

// Drain takes every entry and empties the table in one critical section.
func (r *Registry) Drain() []*Managed {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.procs
	r.procs = nil
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}
