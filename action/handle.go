/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package action

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrAlreadyFinished is returned by Finish on a GoalHandle already in a
// terminal state, per the §4.13 supplement: result mutation and
// send_available_results share one mutex, and a duplicate Finish call
// on an already-terminal goal is rejected rather than overwriting the
// stored result.
var ErrAlreadyFinished = errors.New("action: goal already finished")

// GoalHandle tracks one accepted goal's lifecycle: its current State,
// its final result once terminal, and any GetResult callers blocked
// waiting for that result.
type GoalHandle struct {
	ID uuid.UUID

	mu       sync.Mutex
	state    State
	result   []byte
	waiters  []chan []byte
}

// NewGoalHandle creates a goal handle in StateAccepted (acceptance
// itself happens outside the Event table, at server decision time).
func NewGoalHandle(id uuid.UUID) *GoalHandle {
	return &GoalHandle{ID: id, state: StateAccepted}
}

func (h *GoalHandle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Transition applies ev to the handle's current state, returning
// *GoalEventInvalid if the move is not allowed.
func (h *GoalHandle) Transition(ev Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	next, err := Next(h.state, ev)
	if err != nil {
		return err
	}
	h.state = next
	return nil
}

// Finish moves the handle into a terminal state (ev must be one of
// EventSucceed, EventAbort, EventCanceled), stores result, and wakes
// every waiter registered via AwaitResult — all under the same lock, so
// a concurrent AwaitResult call either sees the pre-finish state and
// gets queued, or runs after and observes the result directly; no
// caller can observe a terminal state with no result available.
func (h *GoalHandle) Finish(ev Event, result []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.IsTerminal() {
		return ErrAlreadyFinished
	}
	next, err := Next(h.state, ev)
	if err != nil {
		return err
	}
	if !next.IsTerminal() {
		return &GoalEventInvalid{From: h.state, Event: ev}
	}
	h.state = next
	h.result = result
	for _, w := range h.waiters {
		w <- result
		close(w)
	}
	h.waiters = nil
	return nil
}

// AwaitResult returns a channel that receives the final result exactly
// once: immediately (already buffered) if the goal is already
// terminal, or when a subsequent Finish call delivers it.
func (h *GoalHandle) AwaitResult() <-chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan []byte, 1)
	if h.state.IsTerminal() {
		ch <- h.result
		close(ch)
		return ch
	}
	h.waiters = append(h.waiters, ch)
	return ch
}
