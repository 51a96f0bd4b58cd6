package ui

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// TeaDispatcher schedules functions onto the update loop. A nil return
// means fn ran to completion on the UI side; an error return means fn was
// never run. The claim flag is what keeps that exclusive: the side that
// flips it first owns the outcome.
type TeaDispatcher struct {
	mu      sync.Mutex
	program sender
}

// NewTeaDispatcher creates a dispatcher not yet bound to a program
func NewTeaDispatcher() *TeaDispatcher {
	return &TeaDispatcher{}
}

// SetProgram binds the dispatcher to the running program
func (d *TeaDispatcher) SetProgram(p sender) {
	d.mu.Lock()
	d.program = p
	d.mu.Unlock()
}

// RunOnUI queues fn for the update loop and waits for it to finish
func (d *TeaDispatcher) RunOnUI(ctx context.Context, fn func()) error {
	d.mu.Lock()
	p := d.program
	d.mu.Unlock()
	if p == nil {
		return fmt.Errorf("ui not running")
	}

	msg := uiFuncMsg{
		fn:      fn,
		claimed: &atomic.Bool{},
		done:    make(chan struct{}),
	}
	p.Send(msg)

	select {
	case <-msg.done:
		return nil
	case <-ctx.Done():
		if msg.claimed.CompareAndSwap(false, true) {
			// Claimed before the update loop got to it; fn will not run
			return ctx.Err()
		}
		// The update loop won the claim and is running fn
		<-msg.done
		return nil
	}
}
