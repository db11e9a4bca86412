// Package formstore keeps one mounted auth form per browser session.
package formstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/authform/internal/authform"
	"github.com/nfrund/authform/internal/navigation"
)

// Entry is a mounted form together with the navigator it reports to.
type Entry struct {
	ID   string
	Form *authform.Form
	Nav  *navigation.Recorder

	lastSeen time.Time

	mu      sync.Mutex
	pending *authform.Pending
}

// Submit submits the form and remembers the pending handle for Settle.
// The handle is published under mu together with the submission, so Settle
// never sees a resolved state without the handle that produced it.
func (e *Entry) Submit() (*authform.Pending, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.Form.Submit()
	if err != nil {
		return nil, err
	}
	e.pending = p
	return p, nil
}

// Settle returns the current snapshot. If the last submission has already
// left the submitting state it first waits for the submission to finish,
// so that any navigation it triggers has been recorded on Nav.
func (e *Entry) Settle(ctx context.Context) authform.Snapshot {
	e.mu.Lock()
	p := e.pending
	snap := e.Form.Snapshot()
	e.mu.Unlock()

	if snap.Submitting() || p == nil {
		return snap
	}
	_, _ = p.Wait(ctx)
	return e.Form.Snapshot()
}

// Factory mounts a new form wired to nav.
type Factory func(nav authform.Navigator) *authform.Form

// Registry owns the mounted forms. Entries are unmounted when removed.
type Registry struct {
	factory Factory
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		now:     time.Now,
		entries: make(map[string]*Entry),
	}
}

// Mount creates a new form and returns its entry.
func (r *Registry) Mount() *Entry {
	nav := &navigation.Recorder{}
	e := &Entry{
		ID:   uuid.NewString(),
		Form: r.factory(nav),
		Nav:  nav,
	}

	r.mu.Lock()
	e.lastSeen = r.now()
	r.entries[e.ID] = e
	r.mu.Unlock()

	slog.Debug("Mounted auth form", "form_id", e.ID)
	return e
}

// Get returns the entry for id and marks it as recently used.
func (r *Registry) Get(id string) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if ok {
		e.lastSeen = r.now()
	}
	return e, ok
}

// GetOrMount returns the entry for id, mounting a new one when id is
// unknown. The boolean reports whether a new form was mounted.
func (r *Registry) GetOrMount(id string) (*Entry, bool) {
	if id != "" {
		if e, ok := r.Get(id); ok {
			return e, false
		}
	}
	return r.Mount(), true
}

// Unmount removes and unmounts the form for id.
func (r *Registry) Unmount(id string) {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		e.Form.Unmount()
		slog.Debug("Unmounted auth form", "form_id", id)
	}
}

// Len is the number of mounted forms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep unmounts forms idle for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*Entry
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, e := range stale {
		e.Form.Unmount()
	}
	return len(stale)
}

// Run sweeps idle forms every interval until ctx is done, then unmounts
// everything that is left.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				slog.Info("Swept idle auth forms", "count", n)
			}
		case <-ctx.Done():
			r.closeAll()
			return
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*Entry)
	r.mu.Unlock()

	for _, e := range entries {
		e.Form.Unmount()
	}
}
