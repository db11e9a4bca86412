package authform

import (
	"context"
	"sync"
)

// Pending is a handle on one in-flight submission. It completes once the
// service response has been applied to the form, or once the form has been
// unmounted and the response discarded.
type Pending struct {
	done      chan struct{}
	once      sync.Once
	snap      Snapshot
	discarded bool
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Done is closed when the submission has been resolved or discarded.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the submission resolves and returns the state it left
// the form in. It returns ErrUnmounted if the form went away first.
func (p *Pending) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-p.done:
	}
	if p.discarded {
		return Snapshot{}, ErrUnmounted
	}
	return p.snap, nil
}

func (p *Pending) complete(snap Snapshot) {
	p.once.Do(func() {
		p.snap = snap
		close(p.done)
	})
}

func (p *Pending) discard() {
	p.once.Do(func() {
		p.discarded = true
		close(p.done)
	})
}
