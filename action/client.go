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
	"time"

	"github.com/google/uuid"

	"github.com/rclzenoh/rclzenoh/qos"
	"github.com/rclzenoh/rclzenoh/rclzenoh"
)

// ErrGoalRejected is returned by SendGoal when the server's accept
// callback declined the request.
var ErrGoalRejected = errors.New("action: goal rejected by server")

// DefaultGoalTimeout bounds SendGoal and GetResult, like
// rclzenoh.DefaultRequestTimeout does for plain services.
const DefaultGoalTimeout = 5 * time.Second

// Client calls an action server's send_goal, get_result, and
// cancel_goal services and subscribes to its feedback topic.
type Client struct {
	node *rclzenoh.Node
	name string

	sendGoalClient  *rclzenoh.Client
	getResultClient *rclzenoh.Client
	cancelClient    *rclzenoh.Client
	feedbackSub     *rclzenoh.Subscriber
}

// NewClient declares the action's three service clients and a feedback
// subscriber. onFeedback is invoked (goalID, feedbackPayload) for every
// feedback message received for any goal.
func NewClient(node *rclzenoh.Node, name, typeName, typeHash string, policy qos.Policy, onFeedback func(uuid.UUID, []byte)) (*Client, error) {
	c := &Client{node: node, name: name}
	var err error
	c.sendGoalClient, err = node.CreateClient(name+"/_action/send_goal", typeName+"_SendGoal", typeHash, policy)
	if err != nil {
		return nil, err
	}
	c.getResultClient, err = node.CreateClient(name+"/_action/get_result", typeName+"_GetResult", typeHash, policy)
	if err != nil {
		c.sendGoalClient.Destroy()
		return nil, err
	}
	c.cancelClient, err = node.CreateClient(name+"/_action/cancel_goal", typeName+"_CancelGoal", typeHash, policy)
	if err != nil {
		c.sendGoalClient.Destroy()
		c.getResultClient.Destroy()
		return nil, err
	}
	c.feedbackSub, err = node.CreateSubscriber(name+"/_action/feedback", typeName+"_FeedbackMessage", typeHash, policy, func(m rclzenoh.Message) {
		if len(m.Payload) < 16 || onFeedback == nil {
			return
		}
		id, err := uuid.FromBytes(m.Payload[:16])
		if err != nil {
			return
		}
		onFeedback(id, m.Payload[16:])
	})
	if err != nil {
		c.sendGoalClient.Destroy()
		c.getResultClient.Destroy()
		c.cancelClient.Destroy()
		return nil, err
	}
	return c, nil
}

// SendGoal issues a new goal with a fresh id, returning that id once
// the server accepts it.
func (c *Client) SendGoal(goalPayload []byte) (uuid.UUID, error) {
	id := uuid.New()
	req := append(append([]byte{}, id[:]...), goalPayload...)
	resp, err := c.sendGoalClient.Call(req, DefaultGoalTimeout)
	if err != nil {
		return uuid.Nil, err
	}
	if len(resp) == 0 || resp[0] == 0 {
		return uuid.Nil, ErrGoalRejected
	}
	return id, nil
}

// GetResult blocks until the server reports the goal terminal, then
// returns the terminal State and its result payload.
func (c *Client) GetResult(id uuid.UUID) (byte, []byte, error) {
	req := append([]byte{}, id[:]...)
	resp, err := c.getResultClient.Call(req, DefaultGoalTimeout)
	if err != nil {
		return 0, nil, err
	}
	if len(resp) == 0 {
		return 0, nil, ErrGoalRejected
	}
	return resp[0], resp[1:], nil
}

// Cancel requests cancellation of an in-flight goal.
func (c *Client) Cancel(id uuid.UUID) error {
	req := append([]byte{}, id[:]...)
	resp, err := c.cancelClient.Call(req, DefaultGoalTimeout)
	if err != nil {
		return err
	}
	if len(resp) == 0 || resp[0] == 0 {
		return errors.New("action: cancel request rejected")
	}
	return nil
}

func (c *Client) Destroy() error {
	c.feedbackSub.Destroy()
	c.cancelClient.Destroy()
	c.getResultClient.Destroy()
	return c.sendGoalClient.Destroy()
}
