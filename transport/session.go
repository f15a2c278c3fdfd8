/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package transport

import (
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rclzenoh/rclzenoh/rlog"
)

type subEntry struct {
	pattern string
	cb      func(Sample)
}

type qEntry struct {
	pattern string
	cb      func(*Query)
}

// Session is one Zenoh session: zero or more peer connections, plus the
// local tables of declared subscribers and queryables that inbound
// traffic (from peers, or from a publisher in the same session) is
// matched against.
type Session struct {
	id  string
	log *rlog.Logger

	mu             sync.RWMutex
	peers          map[string]*peerConn
	subs           map[uint64]*subEntry
	queryables     map[uint64]*qEntry
	pending        map[uint64]chan Sample
	livenessTokens map[string]bool
	closed         bool

	nextID atomic.Uint64
}

// tokenAddMarker/tokenDelMarker are the payload bytes a liveliness-token
// sample carries: the token's declared/undeclared transition is what a
// subscriber cares about, not any application payload.
var (
	tokenAddMarker = []byte{1}
	tokenDelMarker = []byte{0}
)

const livelinessInternalQueryableID = 0

// New creates a session identified by id (the Zenoh session's own GID,
// typically derived from a uuid), logging through log (use rlog.Discard
// if the caller doesn't care).
func New(id string, log *rlog.Logger) *Session {
	if log == nil {
		log = rlog.Discard()
	}
	s := &Session{
		id:             id,
		log:            log,
		peers:          map[string]*peerConn{},
		subs:           map[uint64]*subEntry{},
		queryables:     map[uint64]*qEntry{},
		pending:        map[uint64]chan Sample{},
		livenessTokens: map[string]bool{},
	}
	// Every session answers queries against any key expression with the
	// liveliness tokens it has declared locally, so a late-joining peer's
	// initial graph query discovers entities that were declared before
	// the peer connected (spec.md §4.6).
	s.queryables[livelinessInternalQueryableID] = &qEntry{pattern: "**", cb: s.answerLivelinessQuery}
	return s
}

func (s *Session) answerLivelinessQuery(q *Query) {
	s.mu.RLock()
	var matched []string
	for tok := range s.livenessTokens {
		if matches(q.KeyExpr, tok) {
			matched = append(matched, tok)
		}
	}
	s.mu.RUnlock()
	for _, tok := range matched {
		q.Reply(Sample{KeyExpr: tok, Payload: tokenAddMarker})
	}
}

// DeclareLiveliness advertises keyExpr as alive: it is recorded so this
// session can answer future graph queries about it, and announced to
// every peer and local subscriber immediately.
func (s *Session) DeclareLiveliness(keyExpr string) error {
	if s.isClosed() {
		return ErrClosed
	}
	s.mu.Lock()
	s.livenessTokens[keyExpr] = true
	s.mu.Unlock()
	s.deliverLocal(Sample{KeyExpr: keyExpr, Payload: tokenAddMarker})
	s.broadcast(&frame{msgType: msgPut, keyExpr: keyExpr, payload: tokenAddMarker})
	return nil
}

// UndeclareLiveliness retracts a previously declared token.
func (s *Session) UndeclareLiveliness(keyExpr string) error {
	s.mu.Lock()
	delete(s.livenessTokens, keyExpr)
	s.mu.Unlock()
	s.deliverLocal(Sample{KeyExpr: keyExpr, Payload: tokenDelMarker})
	s.broadcast(&frame{msgType: msgPut, keyExpr: keyExpr, payload: tokenDelMarker})
	return nil
}

func (s *Session) ID() string { return s.id }

// Listen accepts peer connections on addr (host:port) in the
// background until the session is closed.
func (s *Session) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.adoptPeer(conn)
		}
	}()
	return nil
}

// Connect dials a peer at addr and begins exchanging traffic with it.
func (s *Session) Connect(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	s.adoptPeer(conn)
	return nil
}

func (s *Session) adoptPeer(conn net.Conn) {
	pc := newPeerConn(conn)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.peers[conn.RemoteAddr().String()] = pc
	s.mu.Unlock()
	go s.readLoop(pc)
}

func (s *Session) readLoop(pc *peerConn) {
	defer func() {
		s.mu.Lock()
		delete(s.peers, pc.conn.RemoteAddr().String())
		s.mu.Unlock()
		pc.Close()
	}()
	for {
		f, err := pc.readFrame()
		if err != nil {
			s.log.Debugf("transport: peer %s read loop ended: %v", pc.conn.RemoteAddr(), err)
			return
		}
		s.dispatch(f, pc)
	}
}

func (s *Session) dispatch(f *frame, from *peerConn) {
	switch f.msgType {
	case msgPut:
		s.deliverLocal(Sample{KeyExpr: f.keyExpr, Payload: f.payload, Attachment: f.attachment})
	case msgQuery:
		s.deliverQuery(f, from)
	case msgReply:
		s.mu.RLock()
		ch := s.pending[f.queryID]
		s.mu.RUnlock()
		if ch != nil {
			ch <- Sample{KeyExpr: f.keyExpr, Payload: f.payload, Attachment: f.attachment}
		}
	}
}

func (s *Session) deliverLocal(smp Sample) {
	s.mu.RLock()
	var matched []func(Sample)
	for _, sub := range s.subs {
		if matches(sub.pattern, smp.KeyExpr) {
			matched = append(matched, sub.cb)
		}
	}
	s.mu.RUnlock()
	for _, cb := range matched {
		cb(smp)
	}
}

func (s *Session) deliverQuery(f *frame, from *peerConn) {
	s.mu.RLock()
	var matched []func(*Query)
	for _, q := range s.queryables {
		if matches(q.pattern, f.keyExpr) {
			matched = append(matched, q.cb)
		}
	}
	s.mu.RUnlock()
	for _, cb := range matched {
		cb(&Query{KeyExpr: f.keyExpr, Payload: f.payload, Attachment: f.attachment, session: s, id: f.queryID})
	}
	_ = from
}

func (s *Session) broadcast(f *frame) {
	s.mu.RLock()
	peers := make([]*peerConn, 0, len(s.peers))
	for _, pc := range s.peers {
		peers = append(peers, pc)
	}
	s.mu.RUnlock()
	for _, pc := range peers {
		_ = pc.writeFrame(f)
	}
}

// DeclarePublisher returns a handle that sends put() traffic on keyExpr.
func (s *Session) DeclarePublisher(keyExpr string) (*Publisher, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	return &Publisher{session: s, keyExpr: keyExpr}, nil
}

func (s *Session) publish(keyExpr string, payload, attachment []byte) error {
	if s.isClosed() {
		return ErrClosed
	}
	f := &frame{msgType: msgPut, keyExpr: keyExpr, payload: payload, attachment: attachment}
	s.deliverLocal(Sample{KeyExpr: keyExpr, Payload: payload, Attachment: attachment})
	s.broadcast(f)
	return nil
}

// DeclareSubscriber registers cb to be invoked for every sample whose key
// expression matches pattern (which may use '*'/'**' wildcards).
func (s *Session) DeclareSubscriber(pattern string, cb func(Sample)) (*Subscriber, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	id := s.nextID.Add(1)
	s.mu.Lock()
	s.subs[id] = &subEntry{pattern: pattern, cb: cb}
	s.mu.Unlock()
	return &Subscriber{session: s, keyExpr: pattern, id: id}, nil
}

func (s *Session) undeclareSubscriber(sub *Subscriber) {
	s.mu.Lock()
	delete(s.subs, sub.id)
	s.mu.Unlock()
}

// DeclareQueryable registers cb to answer Get() queries matching pattern.
func (s *Session) DeclareQueryable(pattern string, cb func(*Query)) (*Queryable, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	id := s.nextID.Add(1)
	s.mu.Lock()
	s.queryables[id] = &qEntry{pattern: pattern, cb: cb}
	s.mu.Unlock()
	return &Queryable{session: s, keyExpr: pattern, id: id}, nil
}

func (s *Session) undeclareQueryable(q *Queryable) {
	s.mu.Lock()
	delete(s.queryables, q.id)
	s.mu.Unlock()
}

func (s *Session) reply(q *Query, smp Sample) {
	f := &frame{msgType: msgReply, keyExpr: smp.KeyExpr, payload: smp.Payload, attachment: smp.Attachment, queryID: q.id}
	s.deliverReplyLocal(q.id, smp)
	s.broadcast(f)
}

func (s *Session) deliverReplyLocal(id uint64, smp Sample) {
	s.mu.RLock()
	ch := s.pending[id]
	s.mu.RUnlock()
	if ch != nil {
		select {
		case ch <- smp:
		default:
		}
	}
}

// Get issues a query against keyExpr and returns a channel of replies
// that closes once timeout has elapsed, mirroring Zenoh's own
// consolidation-by-timeout query semantics (there is no explicit
// "query complete" signal on the wire, only a deadline the caller picks).
func (s *Session) Get(keyExpr string, payload []byte, timeout time.Duration) (<-chan Sample, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	id := s.nextID.Add(1)
	ch := make(chan Sample, 16)
	out := make(chan Sample, 16)
	s.mu.Lock()
	s.pending[id] = ch
	s.mu.Unlock()

	go func() {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		defer close(out)
		defer func() {
			s.mu.Lock()
			delete(s.pending, id)
			s.mu.Unlock()
		}()
		for {
			select {
			case smp := <-ch:
				out <- smp
			case <-timer.C:
				return
			}
		}
	}()

	f := &frame{msgType: msgQuery, keyExpr: keyExpr, payload: payload, queryID: id}
	s.deliverQuery(f, nil)
	s.broadcast(f)

	return out, nil
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close tears down every peer connection. Declared publishers,
// subscribers, and queryables become inert.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	peers := s.peers
	s.peers = nil
	s.mu.Unlock()
	for _, pc := range peers {
		pc.Close()
	}
	return nil
}

// matches implements Zenoh key-expression matching for the subset this
// library emits: '*' matches exactly one '/'-delimited chunk, '**'
// matches zero or more chunks.
func matches(pattern, key string) bool {
	return matchChunks(strings.Split(pattern, "/"), strings.Split(key, "/"))
}

func matchChunks(pat, key []string) bool {
	if len(pat) == 0 {
		return len(key) == 0
	}
	if pat[0] == "**" {
		if matchChunks(pat[1:], key) {
			return true
		}
		if len(key) == 0 {
			return false
		}
		return matchChunks(pat, key[1:])
	}
	if len(key) == 0 {
		return false
	}
	if pat[0] != "*" && pat[0] != key[0] {
		return false
	}
	return matchChunks(pat[1:], key[1:])
}
