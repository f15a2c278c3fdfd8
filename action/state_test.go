/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package action

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHappyPathTransitions(t *testing.T) {
	h := NewGoalHandle(uuid.New())
	require.Equal(t, StateAccepted, h.State())
	require.NoError(t, h.Transition(EventExecute))
	require.Equal(t, StateExecuting, h.State())
	require.NoError(t, h.Finish(EventSucceed, []byte("done")))
	require.Equal(t, StateSucceeded, h.State())
}

func TestCancelPath(t *testing.T) {
	h := NewGoalHandle(uuid.New())
	require.NoError(t, h.Transition(EventExecute))
	require.NoError(t, h.Transition(EventCancelGoal))
	require.Equal(t, StateCanceling, h.State())
	require.NoError(t, h.Finish(EventCanceled, nil))
	require.Equal(t, StateCanceled, h.State())
}

func TestInvalidTransitionRejected(t *testing.T) {
	h := NewGoalHandle(uuid.New())
	err := h.Transition(EventSucceed)
	require.Error(t, err)
	var invalid *GoalEventInvalid
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, StateAccepted, h.State())
}

func TestDuplicateFinishRejected(t *testing.T) {
	h := NewGoalHandle(uuid.New())
	require.NoError(t, h.Transition(EventExecute))
	require.NoError(t, h.Finish(EventSucceed, []byte("ok")))
	err := h.Finish(EventAbort, []byte("overwrite"))
	require.ErrorIs(t, err, ErrAlreadyFinished)

	result := <-h.AwaitResult()
	require.Equal(t, []byte("ok"), result)
}

func TestAwaitResultBeforeFinishIsWoken(t *testing.T) {
	h := NewGoalHandle(uuid.New())
	require.NoError(t, h.Transition(EventExecute))
	ch := h.AwaitResult()

	done := make(chan []byte, 1)
	go func() { done <- <-ch }()

	require.NoError(t, h.Finish(EventSucceed, []byte("result")))
	require.Equal(t, []byte("result"), <-done)
}
