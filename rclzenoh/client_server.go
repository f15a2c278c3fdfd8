/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package rclzenoh

import (
	"errors"
	"time"

	"github.com/rclzenoh/rclzenoh/graphcache"
	"github.com/rclzenoh/rclzenoh/transport"
)

var ErrNoResponse = errors.New("rclzenoh: no server answered within the request timeout")

// DefaultRequestTimeout bounds how long Client.Call waits for a reply
// before giving up, matching rclcpp's own default service-call timeout
// order of magnitude.
const DefaultRequestTimeout = 5 * time.Second

func answerQuery(q *transport.Query, handle func(req []byte) (resp []byte)) {
	resp := handle(q.Payload)
	q.Reply(transport.Sample{KeyExpr: q.KeyExpr, Payload: resp})
}

// Server answers requests on one service with a synchronous handler.
type Server struct {
	node    *Node
	token   *graphcache.Token
	qable   *transport.Queryable
	service string
}

func (s *Server) Service() string { return s.service }

func (s *Server) Destroy() error {
	s.qable.Undeclare()
	return s.token.Undeclare()
}

// Client issues requests against one service.
type Client struct {
	node    *Node
	token   *graphcache.Token
	keyExpr string
	service string
}

func (c *Client) Service() string { return c.service }

// Call sends req and blocks for the first reply or until timeout
// elapses, returning ErrNoResponse on timeout. Concurrent calls on the
// same Client are safe; each gets its own query id under the hood.
func (c *Client) Call(req []byte, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	replies, err := c.node.ctx.session.Get(c.keyExpr, req, timeout)
	if err != nil {
		return nil, err
	}
	smp, ok := <-replies
	if !ok {
		return nil, ErrNoResponse
	}
	return smp.Payload, nil
}

// CallAsync sends req and returns a channel that receives every reply
// until timeout elapses (normally exactly one, from the single server
// expected to be bound to this service).
func (c *Client) CallAsync(req []byte, timeout time.Duration) (<-chan []byte, error) {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	replies, err := c.node.ctx.session.Get(c.keyExpr, req, timeout)
	if err != nil {
		return nil, err
	}
	out := make(chan []byte, 4)
	go func() {
		defer close(out)
		for smp := range replies {
			out <- smp.Payload
		}
	}()
	return out, nil
}

func (c *Client) Destroy() error {
	return c.token.Undeclare()
}
