/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package selector implements the cooperative, single-threaded event
// loop spec.md §4.12 describes: one goroutine polls a fixed set of
// waitables (timers, subscriptions, servers, clients, guard conditions,
// parameter updates). SpinOnce dispatches at most one ready event per
// call in round-robin order, for callers that want to interleave other
// work between dispatches; Wait drains every ready Waitable in a single
// pass, walking categories in the fixed order §4.12 step 3 names, so
// application callbacks never run concurrently with each other inside
// the same Selector.
package selector

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

var ErrClosed = errors.New("selector: closed")

// Waitable is anything the Selector can poll: it reports whether it has
// work ready and, if so, runs it. Ready/Dispatch are called from the
// Selector's own goroutine only, so implementations need no locking of
// their own against each other (though they may still race with
// whatever feeds them from other goroutines, e.g. a transport read
// loop delivering into a channel Ready() drains from).
type Waitable interface {
	Ready() bool
	Dispatch()
}

// Category tags a registered Waitable with the priority class spec.md
// §4.12 step 3 drains in: timers first, then subscribers, servers,
// clients, guard conditions, and finally parameter updates. Waitables
// registered through the plain Add (no category given) are drained
// last, after every named category.
type Category int

const (
	CategoryTimer Category = iota
	CategorySubscriber
	CategoryServer
	CategoryClient
	CategoryGuardCondition
	CategoryParameterUpdate
	categoryOther
)

// categoryOrder is the fixed drain order Wait walks on every pass.
var categoryOrder = []Category{
	CategoryTimer,
	CategorySubscriber,
	CategoryServer,
	CategoryClient,
	CategoryGuardCondition,
	CategoryParameterUpdate,
	categoryOther,
}

type handle struct {
	elem     *list.Element
	w        Waitable
	category Category
}

// Selector multiplexes any number of Waitables. Add/Remove are safe to
// call from any goroutine, including from inside a Dispatch() callback
// running on the Selector's own goroutine (a handler that creates or
// destroys an entity mid-callback must not deadlock or corrupt
// iteration order).
type Selector struct {
	mu      sync.Mutex
	order   *list.List // of *handle, insertion order preserved
	closed  bool
	cursor  *list.Element // round-robin position, survives across Spin calls
}

func New() *Selector {
	return &Selector{order: list.New()}
}

// Add registers w, uncategorized, and returns a handle Remove can later
// use. Uncategorized Waitables are drained last by Wait.
func (s *Selector) Add(w Waitable) *handle {
	return s.AddCategory(w, categoryOther)
}

// AddCategory registers w under cat, the priority class Wait uses to
// order a single drain pass, and returns a handle Remove can later use.
func (s *Selector) AddCategory(w Waitable, cat Category) *handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &handle{w: w, category: cat}
	h.elem = s.order.PushBack(h)
	return h
}

// Remove unregisters h. If the round-robin cursor currently points at
// h, it advances to the next element first so SpinOnce never dispatches
// a removed Waitable.
func (s *Selector) Remove(h *handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.elem == nil {
		return
	}
	if s.cursor == h.elem {
		s.cursor = s.cursor.Next()
	}
	s.order.Remove(h.elem)
	h.elem = nil
}

// SpinOnce dispatches at most one ready Waitable, scanning starting from
// the element after the last one dispatched (round-robin, so no single
// busy Waitable can starve the others). It returns true if something was
// dispatched.
func (s *Selector) SpinOnce() bool {
	s.mu.Lock()
	if s.closed || s.order.Len() == 0 {
		s.mu.Unlock()
		return false
	}
	start := s.cursor
	if start == nil {
		start = s.order.Front()
	}
	e := start
	for i := 0; i < s.order.Len(); i++ {
		h := e.Value.(*handle)
		next := e.Next()
		if next == nil {
			next = s.order.Front()
		}
		if h.w.Ready() {
			s.cursor = next
			s.mu.Unlock()
			h.w.Dispatch()
			return true
		}
		e = next
	}
	s.cursor = nil
	s.mu.Unlock()
	return false
}

// Wait drains every currently-ready Waitable in one pass, in the fixed
// category order spec.md §4.12 step 3 names (timers, subscribers,
// servers, clients, guard conditions, parameter updates, then anything
// registered without a category). Each Waitable registered at the start
// of the pass is checked once, when the pass reaches it, and dispatched
// at most once, even if its own Dispatch makes it ready again. One made
// ready by an earlier Dispatch in the same pass is dispatched in that
// pass; Waitables added during the pass surface on the next Wait call.
// It returns the number of Waitables dispatched.
func (s *Selector) Wait() int {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}
	byCategory := make(map[Category][]*handle, len(categoryOrder))
	for e := s.order.Front(); e != nil; e = e.Next() {
		h := e.Value.(*handle)
		byCategory[h.category] = append(byCategory[h.category], h)
	}
	s.mu.Unlock()

	dispatched := 0
	for _, cat := range categoryOrder {
		for _, h := range byCategory[cat] {
			if s.isRemoved(h) {
				continue
			}
			if h.w.Ready() {
				h.w.Dispatch()
				dispatched++
			}
		}
	}
	return dispatched
}

// isRemoved reports whether h has since been removed from the Selector,
// so a handler that removes a later-queued Waitable mid-Wait doesn't
// cause that Waitable to be dispatched anyway.
func (s *Selector) isRemoved(h *handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return h.elem == nil
}

// Spin runs SpinOnce in a loop, sleeping idle for idleSleep between
// empty passes, until Close is called.
func (s *Selector) Spin(idleSleep time.Duration) {
	for {
		if s.isClosed() {
			return
		}
		if !s.SpinOnce() {
			time.Sleep(idleSleep)
		}
	}
}

func (s *Selector) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops future Spin calls from dispatching; in-flight Dispatch
// calls are not interrupted.
func (s *Selector) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
