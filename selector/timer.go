/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package selector

import (
	"sync"
	"time"
)

// Timer is a Waitable that becomes ready once every Period, coalescing
// any number of missed periods (a long Dispatch, or a busy Selector)
// into a single ready firing rather than bursting catch-up calls.
type Timer struct {
	mu      sync.Mutex
	period  time.Duration
	next    time.Time
	cb      func()
	canceled bool
}

// NewTimer builds a Timer firing cb roughly every period, starting one
// period from now.
func NewTimer(period time.Duration, cb func()) *Timer {
	return &Timer{period: period, next: time.Now().Add(period), cb: cb}
}

func (t *Timer) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.canceled && !time.Now().Before(t.next)
}

// Dispatch runs the callback and reschedules from now (not from the
// missed deadline), so a Selector stalled for multiple periods fires
// the callback once, not once per missed period.
func (t *Timer) Dispatch() {
	t.mu.Lock()
	if t.canceled {
		t.mu.Unlock()
		return
	}
	t.next = time.Now().Add(t.period)
	cb := t.cb
	t.mu.Unlock()
	cb()
}

// Reset pushes the next firing back to period from now, as ROS2's
// timer.reset() does.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next = time.Now().Add(t.period)
}

// Cancel makes Ready always return false; a canceled Timer already
// added to a Selector is simply never dispatched again.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.canceled = true
}

func (t *Timer) IsCanceled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canceled
}

// GuardCondition is a Waitable that becomes ready when Trigger is
// called from any goroutine, and is cleared the moment it is
// dispatched — ROS2's guard conditions are the mechanism internal
// machinery (e.g. an action server's goal-accepted callback) uses to
// wake a Selector without going through the network.
type GuardCondition struct {
	mu        sync.Mutex
	triggered bool
	cb        func()
}

func NewGuardCondition(cb func()) *GuardCondition {
	return &GuardCondition{cb: cb}
}

func (g *GuardCondition) Trigger() {
	g.mu.Lock()
	g.triggered = true
	g.mu.Unlock()
}

func (g *GuardCondition) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.triggered
}

func (g *GuardCondition) Dispatch() {
	g.mu.Lock()
	g.triggered = false
	cb := g.cb
	g.mu.Unlock()
	cb()
}

// QueueWaitable adapts a buffered channel of pending work items into a
// Waitable: Ready reports whether an item is available, Dispatch drains
// exactly one and hands it to cb. Subscriptions, servers, and clients
// that want cooperative (rather than immediate, on-the-network-thread)
// dispatch feed their deliveries into a channel of this shape.
type QueueWaitable[T any] struct {
	ch chan T
	cb func(T)
}

func NewQueueWaitable[T any](capacity int, cb func(T)) *QueueWaitable[T] {
	return &QueueWaitable[T]{ch: make(chan T, capacity), cb: cb}
}

// Enqueue offers item to the queue without blocking, dropping it if the
// queue is full (a cooperative dispatcher that never keeps up is a
// backpressure problem for the application to size Capacity against,
// not something to block the deliverer over).
func (q *QueueWaitable[T]) Enqueue(item T) (dropped bool) {
	select {
	case q.ch <- item:
		return false
	default:
		return true
	}
}

func (q *QueueWaitable[T]) Ready() bool {
	return len(q.ch) > 0
}

func (q *QueueWaitable[T]) Dispatch() {
	select {
	case item := <-q.ch:
		q.cb(item)
	default:
	}
}
