package labstore

import (
	"context"
	"sync"
)

// persister writes snapshots on its own goroutine.  Only the newest queued
// snapshot is kept; older ones are dropped because every snapshot carries
// the full state.
type persister struct {
	write func(Snapshot) error

	mu      sync.Mutex
	pending *Snapshot
	queued  uint64 // newest revision handed to enqueue
	written uint64 // newest revision whose write was attempted
	done    chan struct{}

	wake      chan struct{}
	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func newPersister(write func(Snapshot) error) *persister {
	return &persister{
		write:   write,
		done:    make(chan struct{}),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// enqueue never blocks.  Snapshots older than one already queued are
// ignored, so concurrent committers cannot make a stale state win.
func (p *persister) enqueue(snap Snapshot) {
	p.mu.Lock()
	if snap.Revision <= p.queued {
		p.mu.Unlock()
		return
	}
	p.pending = &snap
	p.queued = snap.Revision
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.wake:
			p.writePending()
		case <-p.stop:
			p.writePending()
			return
		}
	}
}

func (p *persister) writePending() {
	p.mu.Lock()
	snap := p.pending
	p.pending = nil
	p.mu.Unlock()
	if snap == nil {
		return
	}
	_ = p.write(*snap) // failures are logged by write, never retried

	p.mu.Lock()
	if snap.Revision > p.written {
		p.written = snap.Revision
	}
	close(p.done)
	p.done = make(chan struct{})
	p.mu.Unlock()
}

func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.queued
	for p.written < target {
		ch := p.done
		p.mu.Unlock()
		select {
		case <-ch:
		case <-p.stopped:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
		p.mu.Lock()
	}
	p.mu.Unlock()
	return nil
}

func (p *persister) close(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.stop) })
	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
