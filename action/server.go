/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package action

import (
	"sync"

	"github.com/google/uuid"

	"github.com/rclzenoh/rclzenoh/qos"
	"github.com/rclzenoh/rclzenoh/rclzenoh"
)

// Execute is the application's goal-execution callback: given the
// accepted goal's request payload, run the action and return the final
// event (EventSucceed/EventAbort/EventCanceled) plus its result
// payload. Execute is invoked on a goroutine of its own per goal
// (handleSendGoal starts one for each accepted goal), concurrently
// across goals, matching rclcpp's one-thread-per-goal execution model.
type Execute func(goalID uuid.UUID, goalPayload []byte) (Event, []byte)

// Accept decides whether an incoming goal request should be accepted;
// returning false rejects it before Execute ever runs.
type Accept func(goalID uuid.UUID, goalPayload []byte) bool

// Server runs the three action services (send_goal, get_result,
// cancel_goal) plus the feedback and status topics, over one rclzenoh
// Node, dispatching accepted goals to Execute.
type Server struct {
	node   *rclzenoh.Node
	name   string
	accept Accept
	exec   Execute

	sendGoalSrv   *rclzenoh.Server
	getResultSrv  *rclzenoh.Server
	cancelSrv     *rclzenoh.Server
	feedbackPub   *rclzenoh.Publisher
	statusPub     *rclzenoh.Publisher

	mu    sync.Mutex
	goals map[uuid.UUID]*GoalHandle
}

// NewServer declares the action's services and topics under node and
// starts accepting goals. typeName/typeHash identify the action's
// synthesized _SendGoal and _GetResult service types (typedesc.BuildAction).
func NewServer(node *rclzenoh.Node, name, typeName, typeHash string, policy qos.Policy, accept Accept, exec Execute) (*Server, error) {
	s := &Server{node: node, name: name, accept: accept, exec: exec, goals: map[uuid.UUID]*GoalHandle{}}

	var err error
	s.sendGoalSrv, err = node.CreateServer(name+"/_action/send_goal", typeName+"_SendGoal", typeHash, policy, s.handleSendGoal)
	if err != nil {
		return nil, err
	}
	s.getResultSrv, err = node.CreateServer(name+"/_action/get_result", typeName+"_GetResult", typeHash, policy, s.handleGetResult)
	if err != nil {
		s.sendGoalSrv.Destroy()
		return nil, err
	}
	s.cancelSrv, err = node.CreateServer(name+"/_action/cancel_goal", typeName+"_CancelGoal", typeHash, policy, s.handleCancel)
	if err != nil {
		s.sendGoalSrv.Destroy()
		s.getResultSrv.Destroy()
		return nil, err
	}
	s.feedbackPub, err = node.CreatePublisher(name+"/_action/feedback", typeName+"_FeedbackMessage", typeHash, policy)
	if err != nil {
		s.sendGoalSrv.Destroy()
		s.getResultSrv.Destroy()
		s.cancelSrv.Destroy()
		return nil, err
	}
	s.statusPub, err = node.CreatePublisher(name+"/_action/status", "action_msgs/msg/GoalStatusArray", typeHash, policy)
	if err != nil {
		s.sendGoalSrv.Destroy()
		s.getResultSrv.Destroy()
		s.cancelSrv.Destroy()
		s.feedbackPub.Destroy()
		return nil, err
	}
	return s, nil
}

// handleSendGoal decodes the goal id (first 16 bytes, matching the
// synthesized _SendGoal_Request{goal_id, goal} layout) and payload,
// runs Accept, and if accepted spawns Execute in its own goroutine.
func (s *Server) handleSendGoal(req []byte) []byte {
	if len(req) < 16 {
		return []byte{0}
	}
	id, err := uuid.FromBytes(req[:16])
	if err != nil {
		return []byte{0}
	}
	goalPayload := req[16:]
	if !s.accept(id, goalPayload) {
		return []byte{0}
	}
	h := NewGoalHandle(id)
	s.mu.Lock()
	s.goals[id] = h
	s.mu.Unlock()

	go s.runGoal(h, goalPayload)
	return []byte{1}
}

func (s *Server) runGoal(h *GoalHandle, goalPayload []byte) {
	_ = h.Transition(EventExecute)
	s.publishStatus(h)
	ev, result := s.exec(h.ID, goalPayload)
	if err := h.Finish(ev, result); err != nil {
		return
	}
	s.publishStatus(h)
}

func (s *Server) publishStatus(h *GoalHandle) {
	if s.statusPub == nil {
		return
	}
	payload := append(append([]byte{}, h.ID[:]...), byte(h.State()))
	_ = s.statusPub.Publish(payload)
}

// PublishFeedback sends an application-level progress update for an
// in-flight goal.
func (s *Server) PublishFeedback(goalID uuid.UUID, feedback []byte) error {
	payload := append(append([]byte{}, goalID[:]...), feedback...)
	return s.feedbackPub.Publish(payload)
}

func (s *Server) handleGetResult(req []byte) []byte {
	if len(req) < 16 {
		return nil
	}
	id, err := uuid.FromBytes(req[:16])
	if err != nil {
		return nil
	}
	s.mu.Lock()
	h, ok := s.goals[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	result := <-h.AwaitResult()
	return append([]byte{byte(h.State())}, result...)
}

func (s *Server) handleCancel(req []byte) []byte {
	if len(req) < 16 {
		return []byte{0}
	}
	id, err := uuid.FromBytes(req[:16])
	if err != nil {
		return []byte{0}
	}
	s.mu.Lock()
	h, ok := s.goals[id]
	s.mu.Unlock()
	if !ok {
		return []byte{0}
	}
	if err := h.Transition(EventCancelGoal); err != nil {
		return []byte{0}
	}
	s.publishStatus(h)
	return []byte{1}
}

// Destroy undeclares every service/topic the server owns, in reverse
// creation order.
func (s *Server) Destroy() error {
	s.statusPub.Destroy()
	s.feedbackPub.Destroy()
	s.cancelSrv.Destroy()
	s.getResultSrv.Destroy()
	return s.sendGoalSrv.Destroy()
}
