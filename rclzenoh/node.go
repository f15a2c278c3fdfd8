/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package rclzenoh

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rclzenoh/rclzenoh/graphcache"
	"github.com/rclzenoh/rclzenoh/keyexpr"
	"github.com/rclzenoh/rclzenoh/qos"
	"github.com/rclzenoh/rclzenoh/transport"
)

// Node is one ROS2 node: a named liveliness token under which
// publishers, subscribers, clients, and servers are declared as
// sub-entities. Every endpoint's liveliness token, undeclared in
// reverse creation order on Destroy, mirrors the real rcl teardown
// order (spec.md §5).
type Node struct {
	ctx       *Context
	name      string
	namespace string
	id        string

	selfToken *graphcache.Token

	mu       sync.Mutex
	tokens   []*graphcache.Token // reverse-order teardown list
	seq      atomic.Int64
	closed   bool
}

func (n *Node) Name() string      { return n.name }
func (n *Node) Namespace() string { return n.namespace }
func (n *Node) ID() string        { return n.id }

// gid derives this node's 16-byte GID from its id (a uuid string): the
// raw bytes of the parsed uuid, matching Context's own zenoh-id scheme.
func (n *Node) gid() [16]byte {
	u, err := uuid.Parse(n.id)
	if err != nil {
		return [16]byte{}
	}
	return [16]byte(u)
}

func (n *Node) trackToken(t *graphcache.Token) {
	n.mu.Lock()
	n.tokens = append(n.tokens, t)
	n.mu.Unlock()
}

func (n *Node) entityID(suffix string) string {
	return n.id + "/" + suffix
}

// declareEntity builds a liveliness token for one of this node's
// sub-entities and registers it for reverse-order teardown.
func (n *Node) declareEntity(kind keyexpr.EntityKind, entityID string, segments ...string) (*graphcache.Token, error) {
	ke := keyexpr.LivelinessKeyExpr(n.ctx.DomainID, n.ctx.zid, n.id, entityID, kind, segments...)
	tok, err := graphcache.Declare(n.ctx.session, ke)
	if err != nil {
		return nil, err
	}
	n.trackToken(tok)
	return tok, nil
}

func (n *Node) isClosed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

// CreatePublisher declares a publisher liveliness token and returns a
// handle for put()-ing samples on topic.
func (n *Node) CreatePublisher(topic, typeName, typeHash string, policy qos.Policy) (*Publisher, error) {
	if n.isClosed() {
		return nil, ErrNodeClosed
	}
	policy.Normalize()
	entityID := n.entityID(uuid.New().String())
	tok, err := n.declareEntity(keyexpr.EntityPublisher, entityID, topic, typeName)
	if err != nil {
		return nil, err
	}
	dataKE := keyexpr.DataKeyExpr(n.ctx.DomainID, topic, typeName, typeHash, policy)
	pub, err := n.ctx.session.DeclarePublisher(dataKE)
	if err != nil {
		tok.Undeclare()
		return nil, err
	}
	return &Publisher{node: n, token: tok, pub: pub, topic: topic, policy: policy, limiter: newPublisherLimiter(policy)}, nil
}

// CreateSubscriber declares a subscriber liveliness token and delivers
// every matching sample to cb.
func (n *Node) CreateSubscriber(topic, typeName, typeHash string, policy qos.Policy, cb func(Message)) (*Subscriber, error) {
	if n.isClosed() {
		return nil, ErrNodeClosed
	}
	policy.Normalize()
	entityID := n.entityID(uuid.New().String())
	tok, err := n.declareEntity(keyexpr.EntitySubscriber, entityID, topic, typeName)
	if err != nil {
		return nil, err
	}
	dataKE := keyexpr.DataKeyExpr(n.ctx.DomainID, topic, typeName, typeHash, policy)
	sub, err := n.ctx.session.DeclareSubscriber(dataKE, func(smp transport.Sample) {
		deliverSample(smp, cb)
	})
	if err != nil {
		tok.Undeclare()
		return nil, err
	}
	return &Subscriber{node: n, token: tok, sub: sub, topic: topic}, nil
}

// CreateServer declares a service server liveliness token and answers
// incoming requests with handle.
func (n *Node) CreateServer(service, typeName, typeHash string, policy qos.Policy, handle func(req []byte) (resp []byte)) (*Server, error) {
	if n.isClosed() {
		return nil, ErrNodeClosed
	}
	entityID := n.entityID(uuid.New().String())
	tok, err := n.declareEntity(keyexpr.EntityService, entityID, service, typeName)
	if err != nil {
		return nil, err
	}
	dataKE := keyexpr.DataKeyExpr(n.ctx.DomainID, service, typeName, typeHash, policy)
	qable, err := n.ctx.session.DeclareQueryable(dataKE, func(q *transport.Query) {
		answerQuery(q, handle)
	})
	if err != nil {
		tok.Undeclare()
		return nil, err
	}
	return &Server{node: n, token: tok, qable: qable, service: service}, nil
}

// CreateClient declares a client liveliness token and returns a handle
// for issuing requests against service.
func (n *Node) CreateClient(service, typeName, typeHash string, policy qos.Policy) (*Client, error) {
	if n.isClosed() {
		return nil, ErrNodeClosed
	}
	entityID := n.entityID(uuid.New().String())
	tok, err := n.declareEntity(keyexpr.EntityClient, entityID, service, typeName)
	if err != nil {
		return nil, err
	}
	dataKE := keyexpr.DataKeyExpr(n.ctx.DomainID, service, typeName, typeHash, policy)
	return &Client{node: n, token: tok, keyExpr: dataKE, service: service}, nil
}

// Destroy undeclares every sub-entity in reverse creation order, then
// this node's own liveliness token.
func (n *Node) Destroy() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	toks := n.tokens
	n.tokens = nil
	n.mu.Unlock()

	for i := len(toks) - 1; i >= 0; i-- {
		toks[i].Undeclare()
	}
	if n.selfToken != nil {
		n.selfToken.Undeclare()
	}
	n.ctx.removeNode(n)
	return nil
}
