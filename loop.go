// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"context"
	"sync"
	"time"
)

// FrameHandle identifies a pending frame callback. The zero handle is never
// issued.
type FrameHandle uint64

// FrameScheduler is the host's "call me before the next display refresh"
// facility. A callback runs at most once per request.
type FrameScheduler interface {
	RequestFrame(fn func()) FrameHandle
	CancelFrame(h FrameHandle)
}

// FrameLoop is a FrameScheduler driven by its owner: callbacks queue until
// Pump runs them. Run pumps on a ticker for hosts without a display clock.
//
// FrameLoop is safe for concurrent use.
type FrameLoop struct {
	mu      sync.Mutex
	seq     FrameHandle
	order   []FrameHandle
	pending map[FrameHandle]func()
}

// NewFrameLoop returns an empty loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{pending: make(map[FrameHandle]func())}
}

// RequestFrame queues fn for the next Pump.
func (l *FrameLoop) RequestFrame(fn func()) FrameHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.order = append(l.order, l.seq)
	l.pending[l.seq] = fn
	return l.seq
}

// CancelFrame drops a queued callback. Unknown or already-run handles are
// ignored.
func (l *FrameLoop) CancelFrame(h FrameHandle) {
	l.mu.Lock()
	delete(l.pending, h)
	l.mu.Unlock()
}

// Pending returns the number of queued callbacks.
func (l *FrameLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Pump runs the callbacks queued before the call, in request order, and
// returns how many ran. Callbacks requested while pumping wait for the next
// Pump, as requests made inside an animation frame do.
func (l *FrameLoop) Pump() int {
	l.mu.Lock()
	order := l.order
	l.order = nil
	l.mu.Unlock()

	ran := 0
	for _, h := range order {
		l.mu.Lock()
		fn, ok := l.pending[h]
		delete(l.pending, h)
		l.mu.Unlock()
		if !ok {
			continue
		}
		fn()
		ran++
	}
	return ran
}

// Run pumps every interval until ctx is done and returns ctx.Err().
func (l *FrameLoop) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Pump()
		}
	}
}
