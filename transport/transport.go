/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package transport is this library's Zenoh session abstraction: the
// put()/subscribe()/queryable()/get() primitives rclzenoh builds Node,
// Publisher, Subscriber, Client, and Server on top of. No Go Zenoh
// client exists to import, so Session is backed by a small TCP-peer
// protocol of our own, in the spirit of the ingest connection/muxer
// pair this package is modeled on: a framed read/write loop per peer,
// a mutex-protected table of local subscriptions, and flood delivery
// to every other connected peer (spec.md's "Zenoh session" is treated
// as an implementation detail behind this interface, never a
// rmw_zenoh_cpp wire-compatible reimplementation of Zenoh itself).
package transport

import (
	"errors"
	"sync"
)

var (
	ErrClosed       = errors.New("transport: session is closed")
	ErrNoSuchQuery  = errors.New("transport: query already answered or expired")
)

// Sample is a single put() delivered to a subscriber or returned by a
// query.
type Sample struct {
	KeyExpr    string
	Payload    []byte
	Attachment []byte
}

// Query is an inbound request delivered to a Queryable handler.
type Query struct {
	KeyExpr    string
	Payload    []byte
	Attachment []byte

	session *Session
	replyTo string
	id      uint64
}

// Reply answers the query with a single sample. A query may be replied
// to any number of times; the querier receives every reply that arrives
// before its Get timeout elapses.
func (q *Query) Reply(s Sample) {
	q.session.reply(q, s)
}

// Subscriber is a live subscription; Undeclare stops delivery.
type Subscriber struct {
	session *Session
	keyExpr string
	id      uint64
}

func (s *Subscriber) Undeclare() {
	s.session.undeclareSubscriber(s)
}

// Publisher is a declared publication; Put sends one sample.
type Publisher struct {
	session *Session
	keyExpr string
}

func (p *Publisher) Put(payload, attachment []byte) error {
	return p.session.publish(p.keyExpr, payload, attachment)
}

func (p *Publisher) Undeclare() {}

// Queryable answers Get() queries matching its key expression.
type Queryable struct {
	session *Session
	keyExpr string
	id      uint64
}

func (q *Queryable) Undeclare() {
	q.session.undeclareQueryable(q)
}
